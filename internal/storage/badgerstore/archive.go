// Package badgerstore provides the durable session archive on Badger v3.
//
// The archive is a write-behind record of every session the live store
// has seen. Matching always runs against the in-memory store; the
// archive exists for crash recovery of waiting sessions and for
// retention of terminal ones.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/airsig/airsig-go/internal/core/domain"
)

// keyPrefix namespaces session records inside the Badger keyspace.
const keyPrefix = "session/"

// Config holds the archive's Badger settings.
type Config struct {
	Dir         string
	InMemory    bool // tests and ephemeral deployments
	SyncWrites  bool
	GCInterval  time.Duration
	GCThreshold float64
}

// DefaultConfig returns archive settings suitable for a single node.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:         dir,
		SyncWrites:  false,
		GCInterval:  10 * time.Minute,
		GCThreshold: 0.5,
	}
}

// Archive is a Badger-backed session archive.
type Archive struct {
	db     *badger.DB
	cfg    Config
	logger *slog.Logger

	lastGCTime       atomic.Int64
	gcBytesReclaimed atomic.Uint64

	metricsLSMSize      prometheus.Gauge
	metricsValueLogSize prometheus.Gauge
	metricsLastGCTime   prometheus.Gauge
	metricsSaves        prometheus.Counter

	stopCh chan struct{}
	doneCh chan struct{}
}

// Open opens (or creates) the archive at cfg.Dir.
func Open(cfg Config, logger *slog.Logger) (*Archive, error) {
	if cfg.Dir == "" && !cfg.InMemory {
		return nil, fmt.Errorf("badgerstore: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = 10 * time.Minute
	}
	if cfg.GCThreshold <= 0 {
		cfg.GCThreshold = 0.5
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.InMemory = cfg.InMemory
	if cfg.InMemory {
		opts.Dir = ""
		opts.ValueDir = ""
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = &badgerLogger{logger: logger}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open db: %w", err)
	}

	a := &Archive{
		db:     db,
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go a.gcLoop()

	logger.Info("session archive opened",
		"dir", cfg.Dir,
		"in_memory", cfg.InMemory,
		"gc_interval", cfg.GCInterval)

	return a, nil
}

// Save writes the session record, overwriting any previous revision.
func (a *Archive) Save(_ context.Context, session *domain.Session) error {
	value, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("badgerstore: encode session: %w", err)
	}

	err = a.db.Update(func(txn *badger.Txn) error {
		return txn.Set(sessionKey(session.ID), value)
	})
	if err != nil {
		return fmt.Errorf("badgerstore: save session: %w", err)
	}

	if a.metricsSaves != nil {
		a.metricsSaves.Inc()
	}
	return nil
}

// Get reads one archived session.
func (a *Archive) Get(_ context.Context, id string) (*domain.Session, error) {
	var session domain.Session

	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrSessionNotFound
			}
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &session)
		})
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes one archived session.
func (a *Archive) Delete(_ context.Context, id string) error {
	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(id))
	})
}

// All streams every archived session to fn. Iteration stops when fn
// returns false.
func (a *Archive) All(_ context.Context, fn func(*domain.Session) bool) error {
	return a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var session domain.Session
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &session)
			})
			if err != nil {
				return err
			}
			if !fn(&session) {
				break
			}
		}
		return nil
	})
}

// RecoverWaiting returns archived sessions that were still waiting and
// inside their TTL at nowMilli. Used to reseed the live store after a
// restart.
func (a *Archive) RecoverWaiting(ctx context.Context, nowMilli int64) ([]*domain.Session, error) {
	var out []*domain.Session
	err := a.All(ctx, func(session *domain.Session) bool {
		if session.Matchable(nowMilli) {
			out = append(out, session)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PruneTerminal deletes archived sessions that reached a terminal status
// before cutoffMilli. Returns the number pruned.
func (a *Archive) PruneTerminal(ctx context.Context, cutoffMilli int64) (int, error) {
	var stale []string
	err := a.All(ctx, func(session *domain.Session) bool {
		if session.Status.Terminal() && session.ExpiresAt < cutoffMilli {
			stale = append(stale, session.ID)
		}
		return true
	})
	if err != nil {
		return 0, err
	}

	for _, id := range stale {
		if err := a.Delete(ctx, id); err != nil {
			return 0, err
		}
	}
	if len(stale) > 0 {
		a.logger.Info("pruned archived sessions", "count", len(stale))
	}
	return len(stale), nil
}

// GC triggers a value log garbage collection pass.
func (a *Archive) GC(_ context.Context) (uint64, error) {
	var totalReclaimed uint64
	for {
		err := a.db.RunValueLogGC(a.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			if errors.Is(err, badger.ErrGCInMemoryMode) {
				return 0, nil
			}
			return totalReclaimed, fmt.Errorf("badgerstore: gc: %w", err)
		}
		// Badger reports no exact byte count; approximate per pass.
		totalReclaimed += 1 << 20
	}

	a.lastGCTime.Store(time.Now().UnixMilli())
	a.gcBytesReclaimed.Add(totalReclaimed)
	return totalReclaimed, nil
}

// Close stops the GC loop and closes the database.
func (a *Archive) Close() error {
	close(a.stopCh)
	<-a.doneCh

	if err := a.db.Close(); err != nil {
		return fmt.Errorf("badgerstore: close db: %w", err)
	}
	a.logger.Info("session archive closed")
	return nil
}

// RegisterMetrics registers archive metrics on the given registry and
// starts the updater. Call once during initialization.
func (a *Archive) RegisterMetrics(registry *prometheus.Registry) *Archive {
	a.metricsLSMSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "airsig",
		Subsystem: "archive",
		Name:      "lsm_size_bytes",
		Help:      "Badger LSM tree size in bytes",
	})
	a.metricsValueLogSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "airsig",
		Subsystem: "archive",
		Name:      "value_log_size_bytes",
		Help:      "Badger value log size in bytes",
	})
	a.metricsLastGCTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "airsig",
		Subsystem: "archive",
		Name:      "last_gc_timestamp_seconds",
		Help:      "Unix timestamp of the last Badger GC run",
	})
	a.metricsSaves = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "airsig",
		Subsystem: "archive",
		Name:      "session_saves_total",
		Help:      "Total session records written to the archive",
	})

	registry.MustRegister(
		a.metricsLSMSize,
		a.metricsValueLogSize,
		a.metricsLastGCTime,
		a.metricsSaves,
	)

	go a.metricsUpdateLoop()
	return a
}

func (a *Archive) metricsUpdateLoop() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lsm, vlog := a.db.Size()
			a.metricsLSMSize.Set(float64(lsm))
			a.metricsValueLogSize.Set(float64(vlog))
			if last := a.lastGCTime.Load(); last > 0 {
				a.metricsLastGCTime.Set(float64(last) / 1000.0)
			}
		case <-a.stopCh:
			return
		}
	}
}

func (a *Archive) gcLoop() {
	defer close(a.doneCh)

	ticker := time.NewTicker(a.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			if _, err := a.GC(ctx); err != nil {
				a.logger.Error("archive gc failed", "error", err)
			}
			cancel()
		case <-a.stopCh:
			return
		}
	}
}

func sessionKey(id string) []byte {
	return []byte(keyPrefix + id)
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
