package api

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/freyjatree/pkg/store"
)

// Server holds the HTTP front end's state: the tree store it fronts,
// the address/credentials it was configured with, and its HTTP-layer
// metrics.
type Server struct {
	store   *store.KVStore
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server.
func NewServer(kv *store.KVStore, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		store:   kv,
		config:  config,
		metrics: metrics,
	}
}

// handleHealth reports process liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleAdd stores name/value if name is not already present, mirroring
// the tree's add operation: PUT never overwrites an existing key.
func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name, err := url.QueryUnescape(chi.URLParam(r, "key"))
	if err != nil || name == "" {
		s.metrics.RecordDBOperation("add", false, time.Since(start))
		sendError(w, "key is required", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		s.metrics.RecordDBOperation("add", false, time.Since(start))
		sendError(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	result, err := s.store.Add(name, string(body))
	if err != nil {
		s.metrics.RecordDBOperation("add", false, time.Since(start))
		sendError(w, fmt.Sprintf("failed to add key: %v", err), http.StatusInternalServerError)
		return
	}

	s.metrics.RecordDBOperation("add", true, time.Since(start))
	sendSuccess(w, map[string]string{"result": result.String()})
}

// handleQuery looks up a key's value.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name, err := url.QueryUnescape(chi.URLParam(r, "key"))
	if err != nil || name == "" {
		s.metrics.RecordDBOperation("query", false, time.Since(start))
		sendError(w, "key is required", http.StatusBadRequest)
		return
	}

	value, found, err := s.store.Query(name)
	if err != nil {
		s.metrics.RecordDBOperation("query", false, time.Since(start))
		sendError(w, fmt.Sprintf("failed to query key: %v", err), http.StatusInternalServerError)
		return
	}
	if !found {
		s.metrics.RecordDBOperation("query", false, time.Since(start))
		sendError(w, "not found", http.StatusNotFound)
		return
	}

	s.metrics.RecordDBOperation("query", true, time.Since(start))
	sendSuccess(w, map[string]string{"value": value})
}

// handleRemove deletes a key if present.
func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name, err := url.QueryUnescape(chi.URLParam(r, "key"))
	if err != nil || name == "" {
		s.metrics.RecordDBOperation("remove", false, time.Since(start))
		sendError(w, "key is required", http.StatusBadRequest)
		return
	}

	removed, err := s.store.Remove(name)
	if err != nil {
		s.metrics.RecordDBOperation("remove", false, time.Since(start))
		sendError(w, fmt.Sprintf("failed to remove key: %v", err), http.StatusInternalServerError)
		return
	}
	if !removed {
		s.metrics.RecordDBOperation("remove", false, time.Since(start))
		sendError(w, "not present", http.StatusNotFound)
		return
	}

	s.metrics.RecordDBOperation("remove", true, time.Since(start))
	sendSuccess(w, map[string]string{"result": "removed"})
}

// handleStats reports tree-wide statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.store.Stats()
	s.metrics.UpdateDBStats(stats.Keys)
	sendSuccess(w, map[string]int{"keys": stats.Keys})
}

// startMetricsUpdater periodically refreshes gauge metrics that aren't
// naturally updated by request handlers.
func (s *Server) startMetricsUpdater() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		stats := s.store.Stats()
		s.metrics.UpdateDBStats(stats.Keys)
	}
}
