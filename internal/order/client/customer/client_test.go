package customer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestClient создаёт клиент с мгновенным sleep, чтобы тесты не ждали backoff
func newTestClient(baseURL string) *Client {
	c := NewClient(zap.NewNop(), baseURL, time.Second)
	c.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return c
}

func TestFetchCustomer_Success(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "/api/v1/customers/1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"customer_name":"María García","address":"Calle Principal 123, CDMX","orders_count":5}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res := client.FetchCustomer(context.Background(), 1)

	require.True(t, res.Success())
	assert.Equal(t, "María García", res.Value().CustomerName)
	assert.Equal(t, "Calle Principal 123, CDMX", res.Value().Address)
	assert.Equal(t, 5, res.Value().OrdersCount)
	assert.Equal(t, int32(1), requests.Load())
}

func TestFetchCustomer_NotFound_NoRetry(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Customer not found"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res := client.FetchCustomer(context.Background(), 999999)

	require.True(t, res.Failure())
	assert.Equal(t, "Customer not found", res.Reason())
	// 404 — терминальный исход, ровно одна попытка
	assert.Equal(t, int32(1), requests.Load())
}

func TestFetchCustomer_GarbledErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res := client.FetchCustomer(context.Background(), 1)

	require.True(t, res.Failure())
	assert.Equal(t, "Unknown error", res.Reason())
}

func TestFetchCustomer_GarbledSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res := client.FetchCustomer(context.Background(), 1)

	require.True(t, res.Failure())
	assert.Contains(t, res.Reason(), "Unexpected error")
}

func TestFetchCustomer_ConnectionFailed_RetriesThreeTimes(t *testing.T) {
	// Закрытый порт: connection refused на каждой попытке
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	var sleeps int
	client := NewClient(zap.NewNop(), baseURL, time.Second)
	client.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		return nil
	}

	res := client.FetchCustomer(context.Background(), 1)

	require.True(t, res.Failure())
	assert.Contains(t, res.Reason(), "customer service unavailable")
	// 3 попытки — backoff между ними ровно два раза
	assert.Equal(t, 2, sleeps)
}

func TestFetchCustomer_Timeout(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(zap.NewNop(), server.URL, 20*time.Millisecond)
	client.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	res := client.FetchCustomer(context.Background(), 1)

	require.True(t, res.Failure())
	assert.Equal(t, "Connection timeout - customer service unavailable", res.Reason())
	assert.Equal(t, int32(3), requests.Load())
}

func TestRetryBackoff_Bounds(t *testing.T) {
	// Вторая попытка: база 0.5s, jitter ±50% → [0.25s, 0.75s)
	for i := 0; i < 100; i++ {
		b := retryBackoff(2)
		assert.GreaterOrEqual(t, b, 250*time.Millisecond)
		assert.Less(t, b, 750*time.Millisecond)
	}

	// Третья попытка: база 1s → [0.5s, 1.5s)
	for i := 0; i < 100; i++ {
		b := retryBackoff(3)
		assert.GreaterOrEqual(t, b, 500*time.Millisecond)
		assert.Less(t, b, 1500*time.Millisecond)
	}
}
