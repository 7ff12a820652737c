package storage

import (
	"fmt"
	"path/filepath"

	"github.com/bobmcallan/quantdash/internal/common"
	"github.com/bobmcallan/quantdash/internal/interfaces"
)

// Backend type constants.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// NewKeyValueStore creates the session key/value store for the configured backend.
// Supported backends: "file" (default), "sqlite", "memory".
func NewKeyValueStore(logger *common.Logger, config common.StorageConfig) (interfaces.KeyValueStore, error) {
	backend := config.Backend
	if backend == "" {
		backend = BackendFile
	}

	switch backend {
	case BackendFile:
		return NewFileStore(logger, filepath.Join(config.Path, "session"))

	case BackendSQLite:
		return NewSQLiteStore(logger, filepath.Join(config.Path, "session.db"))

	case BackendMemory:
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: file, sqlite, memory)", backend)
	}
}
