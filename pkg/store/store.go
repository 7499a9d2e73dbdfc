// Package store wraps the engine package's concurrent binary search tree
// with the lifecycle, logging, and metrics conventions FreyjaDB wrapped
// its Bitcask engine in. There is no on-disk log here and nothing to
// recover: Open and Close exist only so callers that expect a lifecycle
// (the CLI, the HTTP front end) keep working, and so KVStore can still
// reject operations issued before Open or after Close the way the
// original store rejected them before a data file was mapped in.
package store

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/freyjatree/pkg/engine"
)

const (
	statusOK    = "ok"
	statusError = "error"
)

// KVError mirrors FreyjaDB's own KVError: a minimal, string-message
// error type for conditions that aren't really exceptional so much as
// "caller used the API wrong."
type KVError struct {
	Message string
}

func (e *KVError) Error() string {
	return e.Message
}

// ErrNotOpen is returned by every operation issued before Open or after
// Close.
var ErrNotOpen = &KVError{Message: "store is not open"}

// Metrics holds the Prometheus instruments for store operations. A
// *Metrics is safe to share across many KVStore instances, but a given
// process should construct it once: promauto registers each collector
// with the default registry, and a second NewMetrics call in the same
// registry panics on the duplicate name. Tests that need a KVStore
// without touching the default registry can pass a zero-value
// &Metrics{}; every record method is nil-receiver-safe.
type Metrics struct {
	operationsTotal *prometheus.CounterVec
	operationDur    *prometheus.HistogramVec
	keysGauge       prometheus.Gauge
}

// NewMetrics registers and returns the store's Prometheus collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		operationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freyjatree_store_operations_total",
				Help: "Total number of tree operations by kind and outcome.",
			},
			[]string{"operation", "status"},
		),
		operationDur: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "freyjatree_store_operation_duration_seconds",
				Help:    "Tree operation latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		keysGauge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "freyjatree_store_keys_total",
				Help: "Approximate number of keys currently held by the tree.",
			},
		),
	}
}

func (m *Metrics) record(operation string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := statusOK
	if err != nil {
		status = statusError
	}
	if m.operationsTotal != nil {
		m.operationsTotal.WithLabelValues(operation, status).Inc()
	}
	if m.operationDur != nil {
		m.operationDur.WithLabelValues(operation).Observe(d.Seconds())
	}
}

func (m *Metrics) setKeys(n int) {
	if m == nil || m.keysGauge == nil {
		return
	}
	m.keysGauge.Set(float64(n))
}

// Config controls how a KVStore is constructed.
type Config struct {
	// Logger receives one line per operation, tagged with a ksuid
	// correlation ID, the way FreyjaDB's outer layers logged around
	// its store. A nil Logger falls back to log.Default().
	Logger *log.Logger

	// Metrics, if non-nil, is used to record operation counts and
	// latency.
	Metrics *Metrics
}

// KVStore is an in-memory, concurrency-safe key-value store backed by
// engine.Tree. Unlike FreyjaDB's KVStore it holds no file handles and
// has no crash-recovery path: Open and Close only flip a bookkeeping
// flag.
type KVStore struct {
	tree    *engine.Tree
	metrics *Metrics
	logger  *log.Logger

	mu     sync.Mutex
	isOpen bool
	keys   int
}

// NewKVStore constructs a KVStore. The returned store must still be
// opened with Open before use.
func NewKVStore(cfg Config) *KVStore {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &KVStore{
		tree:    engine.NewTree(),
		metrics: cfg.Metrics,
		logger:  logger,
	}
}

// Open marks the store ready for use. It is idempotent.
func (kv *KVStore) Open() error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.isOpen {
		return nil
	}
	kv.isOpen = true
	kv.logger.Printf("store opened id=%s", ksuid.New())
	return nil
}

// Close marks the store unavailable. It is idempotent and does not
// discard the tree's contents; a subsequent Open resumes serving the
// same data.
func (kv *KVStore) Close() error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if !kv.isOpen {
		return nil
	}
	kv.isOpen = false
	kv.logger.Printf("store closed id=%s", ksuid.New())
	return nil
}

func (kv *KVStore) checkOpen() bool {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	return kv.isOpen
}

// Query looks up name and reports whether it was found.
func (kv *KVStore) Query(name string) (value string, found bool, err error) {
	id := ksuid.New()
	start := time.Now()
	defer func() { kv.metrics.record("query", err, time.Since(start)) }()

	if !kv.checkOpen() {
		err = ErrNotOpen
		return "", false, err
	}

	value, found, err = kv.tree.Query(name)
	if err != nil {
		kv.logger.Printf("query id=%s name=%q error=%v", id, name, err)
		return "", false, err
	}
	kv.logger.Printf("query id=%s name=%q found=%v", id, name, found)
	return value, found, nil
}

// Add inserts name/value if name is not already present.
func (kv *KVStore) Add(name, value string) (result engine.AddResult, err error) {
	id := ksuid.New()
	start := time.Now()
	defer func() { kv.metrics.record("add", err, time.Since(start)) }()

	if !kv.checkOpen() {
		err = ErrNotOpen
		return 0, err
	}

	result, err = kv.tree.Add(name, value)
	if err != nil {
		kv.logger.Printf("add id=%s name=%q error=%v", id, name, err)
		return result, err
	}
	if result == engine.Added {
		kv.mu.Lock()
		kv.keys++
		kv.metrics.setKeys(kv.keys)
		kv.mu.Unlock()
	}
	kv.logger.Printf("add id=%s name=%q result=%s", id, name, result)
	return result, nil
}

// Remove deletes name if present.
func (kv *KVStore) Remove(name string) (removed bool, err error) {
	id := ksuid.New()
	start := time.Now()
	defer func() { kv.metrics.record("remove", err, time.Since(start)) }()

	if !kv.checkOpen() {
		err = ErrNotOpen
		return false, err
	}

	removed, err = kv.tree.Remove(name)
	if err != nil {
		kv.logger.Printf("remove id=%s name=%q error=%v", id, name, err)
		return false, err
	}
	if removed {
		kv.mu.Lock()
		if kv.keys > 0 {
			kv.keys--
		}
		kv.metrics.setKeys(kv.keys)
		kv.mu.Unlock()
	}
	kv.logger.Printf("remove id=%s name=%q removed=%v", id, name, removed)
	return removed, nil
}

// Stats reports lightweight store statistics.
type Stats struct {
	Keys int
}

// Stats returns the store's current statistics.
func (kv *KVStore) Stats() Stats {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	return Stats{Keys: kv.keys}
}
