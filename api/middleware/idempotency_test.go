package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgredis "github.com/loyafu/storefront-backend/pkg/redis"
)

type memoryIdempotencyStore struct {
	data   map[string]string
	getErr error
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{data: map[string]string{}}
}

func (m *memoryIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", pkgredis.Nil
	}
	return v, nil
}

func (m *memoryIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value.(string)
	return true, nil
}

func (m *memoryIdempotencyStore) IdempotencyKey(scope, key string) string {
	return scope + "#" + key
}

func countingHandler(calls *int, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"data":{"call":` + strconv.Itoa(*calls) + `}}`))
	})
}

func checkoutRequest(key, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/checkout", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	return req.WithContext(WithCartSession(req.Context(), "sess-1"))
}

func TestIdempotencyReplaysFirstResponse(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(countingHandler(&calls, http.StatusOK))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, checkoutRequest("tap-1", `{"payment_method":"CASH"}`))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, checkoutRequest("tap-1", `{"payment_method":"CASH"}`))

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(countingHandler(&calls, http.StatusOK))

	handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest("tap-1", `{"payment_method":"CASH"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, checkoutRequest("tap-1", `{"payment_method":"ZELLE"}`))

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, 1, calls)
}

func TestIdempotencyPassesThroughWithoutKeyAndSkipsFailures(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(countingHandler(&calls, http.StatusOK))
	handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest("", `{}`))
	handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest("", `{}`))
	assert.Equal(t, 2, calls)
	assert.Empty(t, store.data)

	failing := Idempotency(store, time.Hour, nil)(countingHandler(&calls, http.StatusBadRequest))
	failing.ServeHTTP(httptest.NewRecorder(), checkoutRequest("tap-2", `{}`))
	failing.ServeHTTP(httptest.NewRecorder(), checkoutRequest("tap-2", `{}`))
	assert.Equal(t, 4, calls)
	assert.Empty(t, store.data)
}

func TestIdempotencyScopesKeysPerSession(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(countingHandler(&calls, http.StatusOK))

	handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest("tap-1", `{}`))
	other := httptest.NewRequest(http.MethodPost, "/api/v1/cart/checkout", strings.NewReader(`{}`))
	other.Header.Set(IdempotencyHeader, "tap-1")
	other = other.WithContext(WithCartSession(other.Context(), "sess-2"))
	handler.ServeHTTP(httptest.NewRecorder(), other)

	assert.Equal(t, 2, calls)
	require.Len(t, store.data, 2)
}

func TestIdempotencyStoreFailureIsDependencyError(t *testing.T) {
	store := newMemoryIdempotencyStore()
	store.getErr = errors.New("redis down")
	calls := 0
	resp := httptest.NewRecorder()
	Idempotency(store, time.Hour, nil)(countingHandler(&calls, http.StatusOK)).
		ServeHTTP(resp, checkoutRequest("tap-1", `{}`))

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Zero(t, calls)
}
