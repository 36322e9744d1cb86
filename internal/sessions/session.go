package sessions

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Session holds the single active bearer token and mirrors it to a Store.
// Readers always observe the token as of the call.
type Session struct {
	mu    sync.RWMutex
	store Store
	token string
}

// NewSession restores any token previously persisted in store.
func NewSession(store Store) *Session {

	if store == nil {
		store = NewMemoryStore()
	}

	s := &Session{store: store}

	token, err := store.Get(KeyAuthToken)
	if err != nil && !errors.Is(err, ErrNotFound) {
		logrus.WithError(err).Warnln("Failed to restore session token")
	}
	s.token = token

	return s
}

func (s *Session) Store() Store {
	return s.store
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) IsAuthenticated() bool {
	return len(s.Token()) > 0
}

// SetToken replaces the active token and persists it. An empty token is
// equivalent to Logout.
func (s *Session) SetToken(token string) error {
	if len(token) == 0 {
		return s.Logout()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token

	if err := s.store.Set(KeyAuthToken, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	return nil
}

// UseToken makes token active for this process without persisting it.
func (s *Session) UseToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// InvalidateIf clears the session only while token is still the active one.
// It reports whether anything was cleared.
func (s *Session) InvalidateIf(token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != token {
		return false, nil
	}

	s.token = ""

	if err := s.store.Remove(KeyAuthToken); err != nil {
		return true, fmt.Errorf("failed to remove token: %w", err)
	}
	return true, nil
}

// Logout clears the token from memory and storage.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""

	if err := s.store.Remove(KeyAuthToken); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// Favorites returns the favorited location codes in insertion order.
func (s *Session) Favorites() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readFavorites()
}

func (s *Session) IsFavorite(code string) bool {
	favorites, err := s.Favorites()
	if err != nil {
		return false
	}
	return slices.Contains(favorites, normalizeCode(code))
}

// AddFavorite stores code, ignoring duplicates.
func (s *Session) AddFavorite(code string) ([]string, error) {
	code = normalizeCode(code)
	if len(code) == 0 {
		return nil, fmt.Errorf("location code is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	favorites, err := s.readFavorites()
	if err != nil {
		return nil, err
	}

	if slices.Contains(favorites, code) {
		return favorites, nil
	}

	favorites = append(favorites, code)
	return favorites, s.writeFavorites(favorites)
}

func (s *Session) RemoveFavorite(code string) ([]string, error) {
	code = normalizeCode(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	favorites, err := s.readFavorites()
	if err != nil {
		return nil, err
	}

	favorites = slices.DeleteFunc(favorites, func(existing string) bool {
		return existing == code
	})
	return favorites, s.writeFavorites(favorites)
}

func (s *Session) readFavorites() ([]string, error) {
	raw, err := s.store.Get(KeyFavoriteLocations)
	if errors.Is(err, ErrNotFound) || len(raw) == 0 {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}

	var favorites []string
	if err := json.Unmarshal([]byte(raw), &favorites); err != nil {
		logrus.WithError(err).Warnln("Discarding malformed favorites")
		return []string{}, nil
	}
	return favorites, nil
}

func (s *Session) writeFavorites(favorites []string) error {
	data, err := json.Marshal(favorites)
	if err != nil {
		return err
	}
	if err := s.store.Set(KeyFavoriteLocations, string(data)); err != nil {
		return fmt.Errorf("failed to persist favorites: %w", err)
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
