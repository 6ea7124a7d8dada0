package session

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/storage"
)

const defaultRestoreTimeout = 5 * time.Second

// ManagerConfig tunes how long idle stores stay in memory.
type ManagerConfig struct {
	IdleTTL        time.Duration
	RestoreTimeout time.Duration
}

// Manager maps client instance ids to their Store. Stores are created on
// first sight with their Restore running in the background, and dropped from
// memory after IdleTTL without use. Durable state is untouched by eviction.
type Manager struct {
	base    storage.Storage
	auth    Authenticator
	logger  *zap.Logger
	cfg     ManagerConfig
	mu      sync.Mutex
	stores  *cache.Cache
	restore sync.WaitGroup
}

// NewManager returns a manager backed by base, which is shared by every
// instance and scoped per instance id.
func NewManager(base storage.Storage, auth Authenticator, cfg ManagerConfig, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.RestoreTimeout <= 0 {
		cfg.RestoreTimeout = defaultRestoreTimeout
	}

	m := &Manager{
		base:   base,
		auth:   auth,
		logger: logger,
		cfg:    cfg,
		stores: cache.New(cfg.IdleTTL, cfg.IdleTTL/2),
	}
	m.stores.OnEvicted(func(id string, _ interface{}) {
		m.logger.Debug("Session store evicted", zap.String("instance_id", id))
		m.recordSize()
	})
	return m
}

// Store returns the store for instanceID, creating it if needed. A new store
// starts in the loading state; its Restore runs in its own goroutine.
func (m *Manager) Store(ctx context.Context, instanceID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.stores.Get(instanceID); ok {
		st := v.(*Store)
		m.stores.SetDefault(instanceID, st)
		return st
	}

	st := NewStore(storage.Scoped(m.base, instanceID), m.auth, m.logger.With(zap.String("instance_id", instanceID)))
	m.stores.SetDefault(instanceID, st)
	m.recordSize()

	m.restore.Add(1)
	go func() {
		defer m.restore.Done()
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cfg.RestoreTimeout)
		defer cancel()
		st.Restore(rctx)
	}()
	return st
}

// Forget drops the in-memory store for instanceID.
func (m *Manager) Forget(instanceID string) {
	m.stores.Delete(instanceID)
}

// Len reports how many stores are held in memory.
func (m *Manager) Len() int {
	return m.stores.ItemCount()
}

// Wait blocks until every background Restore started so far has finished.
func (m *Manager) Wait() {
	m.restore.Wait()
}

func (m *Manager) recordSize() {
	metrics.Get().ActiveSessionsGauge.Record(context.Background(), int64(m.stores.ItemCount()))
}
