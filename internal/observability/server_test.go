// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package observability

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer("127.0.0.1:0")
	require.NoError(t, s.Start())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec // test-local URL
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServer_Healthz(t *testing.T) {
	s := startTestServer(t)

	code, body := get(t, fmt.Sprintf("http://%s/healthz", s.Addr()))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)
}

func TestServer_Readyz(t *testing.T) {
	s := startTestServer(t)
	url := fmt.Sprintf("http://%s/readyz", s.Addr())

	code, _ := get(t, url)
	assert.Equal(t, http.StatusServiceUnavailable, code)

	s.SetReady(true)
	code, body := get(t, url)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body)

	s.SetReady(false)
	code, _ = get(t, url)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestServer_MetricsServesRegistry(t *testing.T) {
	s := startTestServer(t)

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stonemud_test_events_total",
		Help: "test counter",
	})
	s.Registry().MustRegister(counter)
	counter.Add(3)

	code, body := get(t, fmt.Sprintf("http://%s/metrics", s.Addr()))
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "stonemud_test_events_total 3")
	assert.Contains(t, body, "go_goroutines", "go collector is registered")
}

func TestServer_StartTwiceFails(t *testing.T) {
	s := startTestServer(t)
	assert.Error(t, s.Start())
}

func TestServer_ShutdownIdempotent(t *testing.T) {
	s := NewServer("127.0.0.1:0")
	require.NoError(t, s.Start())

	ctx := context.Background()
	require.NoError(t, s.Shutdown(ctx))
	require.NoError(t, s.Shutdown(ctx), "second shutdown is a no-op")
}
