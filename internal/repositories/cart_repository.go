package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/ddkspices/storefront/internal/config"
)

// CartRepository is the persistence medium for the cart: a byte-string value
// under one fixed key. Load reports absence separately from failure so the
// caller can distinguish "no cart yet" from "storage unreachable"; Save
// overwrites the entire snapshot every time.
type CartRepository interface {
	Load(ctx context.Context) ([]byte, bool, error)
	Save(ctx context.Context, snapshot []byte) error
}

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// New builds the repository selected by storage.driver and returns it along
// with a closer for the underlying connection.
func New(cfg *config.Config) (CartRepository, func() error, error) {
	switch cfg.Storage.Driver {
	case DriverMemory:
		return NewMemoryRepo(), func() error { return nil }, nil
	case DriverRedis:
		client, err := NewRedisClient(cfg)
		if err != nil {
			return nil, nil, err
		}

		return NewRedisCartRepo(client, cfg), client.Close, nil
	case DriverPostgres:
		db, err := OpenDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}

		return NewPostgresCartRepo(db, cfg), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

type memoryRepository struct {
	mu       sync.Mutex
	snapshot []byte
	present  bool
}

// NewMemoryRepo returns an in-process repository for tests and local runs.
func NewMemoryRepo() CartRepository {
	return &memoryRepository{}
}

func (m *memoryRepository) Load(_ context.Context) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.present {
		return nil, false, nil
	}

	out := make([]byte, len(m.snapshot))
	copy(out, m.snapshot)

	return out, true, nil
}

func (m *memoryRepository) Save(_ context.Context, snapshot []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot = make([]byte, len(snapshot))
	copy(m.snapshot, snapshot)
	m.present = true

	return nil
}
