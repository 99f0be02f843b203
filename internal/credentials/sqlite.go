package credentials

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

const (
	nonceSize = 24
	saltSize  = 16
)

// ErrUnseal is returned when a stored value cannot be opened with the
// configured secret.
var ErrUnseal = errors.New("stored credential could not be unsealed")

// SQLiteStore keeps the token in a SQLite database, sealed with a key derived
// from a local secret.
type SQLiteStore struct {
	conn *sql.DB
	key  [32]byte
}

// NewSQLiteStore opens the database at path, runs migrations and derives the
// sealing key from secret and the database's salt.
func NewSQLiteStore(path string, secret []byte) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases coherent.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	s := &SQLiteStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	salt, err := s.salt()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("load salt: %w", err)
	}
	copy(s.key[:], argon2.IDKey(secret, salt, 2, 19*1024, 1, 32))

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			name TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS credentials (
			name TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) salt() ([]byte, error) {
	var salt []byte
	err := s.conn.QueryRow("SELECT value FROM meta WHERE name = 'salt'").Scan(&salt)
	if err == nil {
		return salt, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	salt = make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	if _, err := s.conn.Exec("INSERT INTO meta (name, value) VALUES ('salt', ?)", salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// Get returns the stored token, or "" when there is none.
func (s *SQLiteStore) Get(ctx context.Context) (string, error) {
	var box []byte
	err := s.conn.QueryRowContext(ctx,
		"SELECT value FROM credentials WHERE name = ?",
		TokenKey,
	).Scan(&box)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.open(box)
}

// Set replaces the stored token.
func (s *SQLiteStore) Set(ctx context.Context, token string) error {
	box, err := s.seal(token)
	if err != nil {
		return err
	}
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO credentials (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, TokenKey, box, time.Now())
	return err
}

// Delete removes the stored token. Deleting a missing token is not an error.
func (s *SQLiteStore) Delete(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, "DELETE FROM credentials WHERE name = ?", TokenKey)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) seal(token string) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, err
	}
	return secretbox.Seal(nonce[:], []byte(token), &nonce, &s.key), nil
}

func (s *SQLiteStore) open(box []byte) (string, error) {
	if len(box) < nonceSize+secretbox.Overhead {
		return "", ErrUnseal
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrUnseal
	}
	return string(plain), nil
}
