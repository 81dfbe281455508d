package repositories

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/reelx/internal/shared"
)

// Keys used in the key-value store.
const (
	KeyUsers       = "users"
	KeyCurrentUser = "currentUser"
	KeyFavorites   = "favorites"
	KeyLastSearch  = "lastSearch"
	KeyFilters     = "movieFilters"
	KeyTheme       = "themeMode"
	KeyAPIKey      = "tmdb_api_key"
)

// Store is a flat string-keyed store of whole values.
//
// Get reports ok=false for absent keys. Deleting an absent key is not an error.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// OpenStore opens the store selected by cfg.Driver: "sqlite" (default), "bolt" or "memory".
func OpenStore(cfg shared.StorageConfig) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "sqlite", "sqlite3":
		db, err := shared.NewDatabase(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
		}
		if cfg.MaxOpenConns > 0 {
			shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
		}
		if _, err := shared.RunMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
		}
		return NewSQLiteStore(db), nil
	case "bolt", "bbolt":
		db, err := shared.NewBoltDatabase(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
		}
		return NewBoltStore(db)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", shared.ErrInvalidConfig, cfg.Driver)
	}
}

// getJSON decodes the value at key into dest. ok is false when the key is absent or cannot be read or decoded.
func getJSON(s Store, logger *log.Logger, key string, dest any) bool {
	raw, ok, err := s.Get(key)
	if err != nil {
		logger.Warn("failed to read key", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logger.Warn("discarding malformed value", "key", key, "error", err)
		return false
	}
	return true
}

// setJSON encodes v and stores it at key, logging failures.
func setJSON(s Store, logger *log.Logger, key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("failed to encode value", "key", key, "error", err)
		return false
	}
	return setRaw(s, logger, key, string(data))
}

func setRaw(s Store, logger *log.Logger, key, value string) bool {
	if err := s.Set(key, value); err != nil {
		logger.Error("failed to write key", "key", key, "error", err)
		return false
	}
	return true
}

func deleteKey(s Store, logger *log.Logger, key string) bool {
	if err := s.Delete(key); err != nil {
		logger.Error("failed to delete key", "key", key, "error", err)
		return false
	}
	return true
}

func orDefault(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.Default()
	}
	return logger
}
