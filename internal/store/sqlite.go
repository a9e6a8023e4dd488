package store

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const driverName = "sqlite3"

// sqliteKV is a minimal key-value table over SQLite. Collections are stored
// as JSON-serialized arrays, scalars as plain strings.
type sqliteKV struct {
	db *sqlx.DB
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kv (
		key VARCHAR NOT NULL PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

func openSQLiteKV(path string) (*sqliteKV, error) {
	if path == "" {
		return nil, errors.New("store: database path is empty")
	}
	db, err := sqlx.Open(driverName, path)
	if err != nil {
		return nil, err
	}
	kv := &sqliteKV{db: db}
	if err := kv.runMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return kv, nil
}

func (s *sqliteKV) runMigrations() error {
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqliteKV) Get(key string) (string, bool, error) {
	var value string
	err := s.db.Get(&value, `SELECT value FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *sqliteKV) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value=?;
	`, key, value, value)
	return err
}

// SetMany writes several keys in one transaction so a replace-import never
// persists half its data.
func (s *sqliteKV) SetMany(pairs map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for key, value := range pairs {
		if _, err := tx.Exec(`
			INSERT INTO kv (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value=?;
		`, key, value, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteKV) Close() error {
	return s.db.Close()
}
