package sessions

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Keys used in durable client storage.
const (
	KeyAuthToken         = "auth_token"
	KeyFavoriteLocations = "favorite_locations"
)

var ErrNotFound = errors.New("key not found")

// Store is durable client-side key/value storage.
type Store interface {
	Get(key string) (string, error)
	Set(key string, value string) error
	Remove(key string) error
	Close() error
}

// OpenStore opens the store for backend ("file", "sqlite" or "memory").
// name identifies the backend host so tokens for different servers do not
// collide.
func OpenStore(backend string, dir string, name string) (Store, error) {

	switch strings.ToLower(backend) {
	case "", "file":
		return NewFileStore(filepath.Join(dir, fmt.Sprintf("%s.yaml", sanitizeName(name))))
	case "sqlite":
		return NewSQLiteStore(filepath.Join(dir, "atlantic.db"), name)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

func sanitizeName(name string) string {
	if len(name) == 0 {
		return "default"
	}
	return strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(name)
}
