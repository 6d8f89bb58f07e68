// Package user persists user records and their Google refresh tokens.
package user

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/model"
)

// ErrNoToken is returned when a user has no stored refresh token.
var ErrNoToken = errors.New("user: no refresh token stored")

// DefaultCalendarID is used until a user picks a specific calendar.
const DefaultCalendarID = "primary"

// Store manages user persistence in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL; PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewStoreWithDB creates a store using an existing database connection.
func NewStoreWithDB(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			phone_number TEXT UNIQUE NOT NULL,
			calendar_id TEXT DEFAULT 'primary',
			memory TEXT DEFAULT '',
			created_at TEXT DEFAULT (datetime('now')),
			updated_at TEXT DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS auth_tokens (
			phone_number TEXT PRIMARY KEY NOT NULL,
			refresh_token TEXT NOT NULL,
			created_at TEXT DEFAULT (datetime('now')),
			updated_at TEXT DEFAULT (datetime('now'))
		);
	`)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RefreshToken returns the stored Google refresh token for a phone number.
func (s *Store) RefreshToken(phone string) (string, error) {
	var token string
	err := s.db.QueryRow(
		"SELECT refresh_token FROM auth_tokens WHERE phone_number = ?", phone,
	).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("load refresh token: %w", err)
	}
	return token, nil
}

// SaveRefreshToken stores a refresh token, creating the user row if needed.
func (s *Store) SaveRefreshToken(phone, token string) error {
	var id string
	err := s.db.QueryRow("SELECT id FROM users WHERE phone_number = ?", phone).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.Exec(
			"INSERT INTO users (id, phone_number) VALUES (?, ?)", uuid.NewString(), phone,
		); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO auth_tokens (phone_number, refresh_token) VALUES (?, ?)
		ON CONFLICT(phone_number) DO UPDATE SET
			refresh_token = excluded.refresh_token,
			updated_at = datetime('now')
	`, phone, token)
	if err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// ClearRefreshToken removes a user's refresh token. The user row stays.
func (s *Store) ClearRefreshToken(phone string) error {
	if _, err := s.db.Exec("DELETE FROM auth_tokens WHERE phone_number = ?", phone); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// CalendarID returns the user's target calendar, defaulting to "primary".
func (s *Store) CalendarID(phone string) string {
	var calendarID string
	err := s.db.QueryRow(
		"SELECT calendar_id FROM users WHERE phone_number = ?", phone,
	).Scan(&calendarID)
	if err != nil || calendarID == "" {
		return DefaultCalendarID
	}
	return calendarID
}

// Memory returns the user's persistent memory text ("" when absent).
func (s *Store) Memory(phone string) string {
	var memory string
	err := s.db.QueryRow(
		"SELECT memory FROM users WHERE phone_number = ?", phone,
	).Scan(&memory)
	if err != nil {
		return ""
	}
	return memory
}

// SetMemory replaces the user's persistent memory text wholesale.
func (s *Store) SetMemory(phone, memory string) error {
	res, err := s.db.Exec(
		"UPDATE users SET memory = ?, updated_at = datetime('now') WHERE phone_number = ?",
		memory, phone,
	)
	if err != nil {
		return fmt.Errorf("set memory: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set memory: no user with phone %s", phone)
	}
	return nil
}

// Get returns the full user record, if present.
func (s *Store) Get(phone string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRow(`
		SELECT id, phone_number, calendar_id, memory, created_at, updated_at
		FROM users WHERE phone_number = ?
	`, phone).Scan(&u.ID, &u.PhoneNumber, &u.CalendarID, &u.Memory, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &u, nil
}
