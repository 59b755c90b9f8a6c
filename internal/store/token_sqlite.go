package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"landval/internal/domain"
	"landval/internal/util/memzero"
)

const (
	sqliteFile = "landval.db"
	// TokenKey is the kv key the session token is stored under.
	TokenKey = "session.token"
)

// TokenSQLiteStore keeps the sealed session token in a local SQLite kv table.
type TokenSQLiteStore struct {
	db     *sql.DB
	secret string
	kdf    kdfParams
}

// OpenTokenSQLiteStore opens (creating and migrating if needed) the database under dir.
func OpenTokenSQLiteStore(ctx context.Context, dir string) (*TokenSQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	path := filepath.Join(dir, sqliteFile)
	if err := runMigrations(path); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil && !errors.Is(err, os.ErrNotExist) {
		_ = db.Close()
		return nil, fmt.Errorf("chmod db path: %w", err)
	}
	return &TokenSQLiteStore{db: db, secret: machineSecret(), kdf: defaultKDF()}, nil
}

func (s *TokenSQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *TokenSQLiteStore) LoadToken() (string, bool, error) {
	var sealed []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, TokenKey).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load token: %w", err)
	}
	raw, err := open(s.secret, sealed)
	if err != nil {
		return "", false, err
	}
	token := strings.TrimSpace(string(raw))
	memzero.Zero(raw)
	return token, token != "", nil
}

// SaveToken upserts the token. An empty token clears it.
func (s *TokenSQLiteStore) SaveToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return s.ClearToken()
	}
	sealed, err := seal(s.secret, []byte(token), s.kdf)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
INSERT INTO kv(key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		TokenKey, sealed, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *TokenSQLiteStore) ClearToken() error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, TokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

var _ domain.TokenStore = (*TokenSQLiteStore)(nil)
