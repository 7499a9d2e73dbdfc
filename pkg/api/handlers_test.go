package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/freyjatree/pkg/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	kv := store.NewKVStore(store.Config{})
	require.NoError(t, kv.Open())
	t.Cleanup(func() { _ = kv.Close() })

	return NewServer(kv, ServerConfig{APIKey: "test-key"}, &Metrics{})
}

func withKeyParam(req *http.Request, key string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("key", key)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleAdd(t *testing.T) {
	server := newTestServer(t)

	req := withKeyParam(httptest.NewRequest(http.MethodPut, "/kv/apple", strings.NewReader("red")), "apple")
	w := httptest.NewRecorder()
	server.handleAdd(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	value, found, err := server.store.Query("apple")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "red", value)
}

func TestHandleAdd_MissingKey(t *testing.T) {
	server := newTestServer(t)

	req := withKeyParam(httptest.NewRequest(http.MethodPut, "/kv/", strings.NewReader("v")), "")
	w := httptest.NewRecorder()
	server.handleAdd(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
}

func TestHandleAdd_DuplicateKeyDoesNotOverwrite(t *testing.T) {
	server := newTestServer(t)

	_, err := server.store.Add("apple", "red")
	require.NoError(t, err)

	req := withKeyParam(httptest.NewRequest(http.MethodPut, "/kv/apple", strings.NewReader("green")), "apple")
	w := httptest.NewRecorder()
	server.handleAdd(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	value, found, err := server.store.Query("apple")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "red", value)
}

func TestHandleQuery(t *testing.T) {
	server := newTestServer(t)
	_, err := server.store.Add("apple", "red")
	require.NoError(t, err)

	req := withKeyParam(httptest.NewRequest(http.MethodGet, "/kv/apple", nil), "apple")
	w := httptest.NewRecorder()
	server.handleQuery(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestHandleQuery_NotFound(t *testing.T) {
	server := newTestServer(t)

	req := withKeyParam(httptest.NewRequest(http.MethodGet, "/kv/missing", nil), "missing")
	w := httptest.NewRecorder()
	server.handleQuery(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
}

func TestHandleRemove(t *testing.T) {
	server := newTestServer(t)
	_, err := server.store.Add("apple", "red")
	require.NoError(t, err)

	req := withKeyParam(httptest.NewRequest(http.MethodDelete, "/kv/apple", nil), "apple")
	w := httptest.NewRecorder()
	server.handleRemove(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	_, found, err := server.store.Query("apple")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHandleRemove_NotPresent(t *testing.T) {
	server := newTestServer(t)

	req := withKeyParam(httptest.NewRequest(http.MethodDelete, "/kv/missing", nil), "missing")
	w := httptest.NewRecorder()
	server.handleRemove(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	server.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleStats(t *testing.T) {
	server := newTestServer(t)
	_, err := server.store.Add("a", "1")
	require.NoError(t, err)
	_, err = server.store.Add("b", "2")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	server.handleStats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}
