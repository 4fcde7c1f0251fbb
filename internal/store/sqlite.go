package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/gatherhall/concierge/backend/internal/model/chat"
	"github.com/gatherhall/concierge/backend/internal/model/event"
)

// SQLiteStore implements Store on a single SQLite file. The schema is
// created automatically; parent directories are created if needed.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL keeps the streaming handler's appends from blocking portal reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	log.Printf("[store] sqlite store initialized at %s", path)
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS event_info (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			event_date TEXT,
			event_time TEXT,
			venue_name TEXT,
			location TEXT,
			description TEXT,
			additional_notes TEXT,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS itinerary_items (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			date TEXT,
			start_time TEXT,
			end_time TEXT,
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS checklist_items (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS chat_messages (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_chat_messages_user_created
			ON chat_messages(user_id, created_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetEventInfo returns the current event record, ErrNotFound when none has
// been configured yet.
func (s *SQLiteStore) GetEventInfo(ctx context.Context) (event.EventInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, event_date, event_time, venue_name, location,
		       description, additional_notes, updated_at
		FROM event_info
		ORDER BY updated_at DESC
		LIMIT 1
	`)

	var (
		info                              event.EventInfo
		date, tm, venue, loc, desc, notes sql.NullString
	)
	err := row.Scan(&info.ID, &info.Title, &date, &tm, &venue, &loc, &desc, &notes, &info.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return event.EventInfo{}, ErrNotFound
	}
	if err != nil {
		return event.EventInfo{}, fmt.Errorf("querying event info: %w", err)
	}

	info.EventDate = date.String
	info.EventTime = tm.String
	info.VenueName = venue.String
	info.Location = loc.String
	info.Description = desc.String
	info.AdditionalNotes = notes.String
	return info, nil
}

// ListItinerary returns itinerary items ordered by sort_order, ties broken
// by start time.
func (s *SQLiteStore) ListItinerary(ctx context.Context) ([]event.ItineraryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, date, start_time, end_time, sort_order, created_at
		FROM itinerary_items
		ORDER BY sort_order, start_time
	`)
	if err != nil {
		return nil, fmt.Errorf("querying itinerary items: %w", err)
	}
	defer rows.Close()

	items := make([]event.ItineraryItem, 0, 16)
	for rows.Next() {
		var (
			item                   event.ItineraryItem
			desc, date, start, end sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Title, &desc, &date, &start, &end, &item.SortOrder, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning itinerary item: %w", err)
		}
		item.Description = desc.String
		item.Date = date.String
		item.StartTime = start.String
		item.EndTime = end.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListChecklist returns checklist items ordered by sort_order.
func (s *SQLiteStore) ListChecklist(ctx context.Context) ([]event.ChecklistItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, sort_order, created_at
		FROM checklist_items
		ORDER BY sort_order
	`)
	if err != nil {
		return nil, fmt.Errorf("querying checklist items: %w", err)
	}
	defer rows.Close()

	items := make([]event.ChecklistItem, 0, 16)
	for rows.Next() {
		var (
			item event.ChecklistItem
			desc sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Title, &desc, &item.SortOrder, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning checklist item: %w", err)
		}
		item.Description = desc.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// RecentMessages returns up to limit most recent messages for the user,
// oldest first.
func (s *SQLiteStore) RecentMessages(ctx context.Context, userID string, limit int) ([]chat.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, role, content, created_at
		FROM chat_messages
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	messages := make([]chat.Message, 0, limit)
	for rows.Next() {
		var msg chat.Message
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The query walks newest-first so LIMIT keeps the recent window; callers
	// want chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// AppendMessage persists one chat turn.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *chat.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, user_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ID, msg.UserID, msg.Role, msg.Content, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

// SetEventInfo replaces the event record. Used by seeding tools and tests;
// the HTTP surface stays read-only.
func (s *SQLiteStore) SetEventInfo(ctx context.Context, info event.EventInfo) error {
	if info.ID == "" {
		info.ID = uuid.NewString()
	}
	if info.UpdatedAt.IsZero() {
		info.UpdatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_info`); err != nil {
		return fmt.Errorf("clearing event info: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO event_info (id, title, event_date, event_time, venue_name,
			location, description, additional_notes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, info.ID, info.Title, info.EventDate, info.EventTime, info.VenueName,
		info.Location, info.Description, info.AdditionalNotes, info.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting event info: %w", err)
	}
	return tx.Commit()
}

// AddItineraryItem inserts one itinerary item (seeding/tests).
func (s *SQLiteStore) AddItineraryItem(ctx context.Context, item event.ItineraryItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO itinerary_items (id, title, description, date, start_time,
			end_time, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.Title, item.Description, item.Date, item.StartTime,
		item.EndTime, item.SortOrder, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting itinerary item: %w", err)
	}
	return nil
}

// AddChecklistItem inserts one checklist item (seeding/tests).
func (s *SQLiteStore) AddChecklistItem(ctx context.Context, item event.ChecklistItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checklist_items (id, title, description, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, item.ID, item.Title, item.Description, item.SortOrder, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting checklist item: %w", err)
	}
	return nil
}
