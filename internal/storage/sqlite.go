package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"socialfeed/internal/model"
	"socialfeed/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// An in-memory database lives as long as its connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// MarkSeen records that an item has been processed within scope.
func (s *SQLite) MarkSeen(ctx context.Context, scope, itemID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO seen_items (scope, item_id, seen_at) VALUES (?, ?, ?)`,
		scope, itemID, s.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}
	return nil
}

// IsSeen checks whether an item has already been processed within scope.
func (s *SQLite) IsSeen(ctx context.Context, scope, itemID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seen_items WHERE scope = ? AND item_id = ?`,
		scope, itemID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check seen: %w", err)
	}
	return count > 0, nil
}

// PruneSeen deletes seen markers recorded before the given time and returns
// how many were removed.
func (s *SQLite) PruneSeen(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM seen_items WHERE seen_at < ?`, before.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("prune seen: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Profile returns the stored profile of userID.
func (s *SQLite) Profile(ctx context.Context, userID string) (model.Profile, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, name, display_name, avatar_url, avatar_color, updated_at
		 FROM profiles WHERE user_id = ?`, userID,
	)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, false, nil
	}
	if err != nil {
		return model.Profile{}, false, err
	}
	return p, true, nil
}

// SaveProfile inserts p or merges its non-empty fields into the stored row.
func (s *SQLite) SaveProfile(ctx context.Context, p model.Profile) error {
	if p.UserID == "" {
		return nil
	}
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, name, display_name, avatar_url, avatar_color, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		   name         = COALESCE(NULLIF(excluded.name, ''), profiles.name),
		   display_name = COALESCE(NULLIF(excluded.display_name, ''), profiles.display_name),
		   avatar_url   = COALESCE(excluded.avatar_url, profiles.avatar_url),
		   avatar_color = COALESCE(NULLIF(excluded.avatar_color, ''), profiles.avatar_color),
		   updated_at   = MAX(excluded.updated_at, profiles.updated_at)`,
		p.UserID, p.Name, p.DisplayName, p.AvatarURL, p.AvatarColor, updated.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// CountProfiles returns the number of stored profiles.
func (s *SQLite) CountProfiles(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanProfile(row scannable) (model.Profile, error) {
	var p model.Profile
	var avatar sql.NullString
	var updated string
	err := row.Scan(&p.UserID, &p.Name, &p.DisplayName, &avatar, &p.AvatarColor, &updated)
	if err != nil {
		return p, fmt.Errorf("scan profile: %w", err)
	}
	if avatar.Valid {
		p.AvatarURL = &avatar.String
	}
	p.UpdatedAt, _ = time.Parse(timeLayout, updated)
	return p, nil
}
