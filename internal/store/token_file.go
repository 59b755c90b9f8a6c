package store

import (
	"path/filepath"
	"strings"
	"sync"

	"landval/internal/domain"
	"landval/internal/util/memzero"
)

const tokenFile = "session.token"

// TokenFileStore keeps the session token in a single sealed file under dir.
type TokenFileStore struct {
	path   string
	secret string
	kdf    kdfParams
	mu     sync.Mutex
}

func NewTokenFileStore(dir string) *TokenFileStore {
	return &TokenFileStore{
		path:   filepath.Join(dir, tokenFile),
		secret: machineSecret(),
		kdf:    defaultKDF(),
	}
}

// Path is where the sealed token lives.
func (s *TokenFileStore) Path() string { return s.path }

func (s *TokenFileStore) LoadToken() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(s.path)
	if err != nil || b == nil {
		return "", false, err
	}
	raw, err := open(s.secret, b)
	if err != nil {
		return "", false, err
	}
	token := strings.TrimSpace(string(raw))
	memzero.Zero(raw)
	return token, token != "", nil
}

// SaveToken replaces the stored token. An empty token clears it.
func (s *TokenFileStore) SaveToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(token) == "" {
		return removeFile(s.path)
	}
	b, err := seal(s.secret, []byte(token), s.kdf)
	if err != nil {
		return err
	}
	return writeFile(s.path, b, 0o600)
}

func (s *TokenFileStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeFile(s.path)
}

var _ domain.TokenStore = (*TokenFileStore)(nil)
