package file

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// TicketStore keeps one JSON document per key under a data directory. It is
// the closest server-side analogue of the browser-local storage the portal
// originally persisted tickets in: durable per device, no coordination.
type TicketStore struct {
	dir string
}

func NewTicketStore(dir string) (*TicketStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &TicketStore{dir: dir}, nil
}

func (s *TicketStore) Get(_ context.Context, key string) (string, bool, error) {
	raw, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(raw), true, nil
}

func (s *TicketStore) Set(_ context.Context, key, value string) error {
	// Atomic rename so a crashed write never leaves a torn collection.
	return atomic.WriteFile(s.path(key), bytes.NewReader([]byte(value)))
}

// path hashes the key so owner emails never appear verbatim as filenames.
func (s *TicketStore) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:16])+".json")
}
