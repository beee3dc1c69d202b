package keepalive

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdallah-zarea/savior-bot/internal/application"
	"github.com/abdallah-zarea/savior-bot/internal/domain"
)

type staticStats application.Stats

func (s staticStats) Stats() application.Stats {
	return application.Stats(s)
}

func newTestServer(stats StatsSource) *Server {
	return NewServer("127.0.0.1:0", stats, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBannerRoute(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTestServer(nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), Banner)
}

func TestHealthReportsStats(t *testing.T) {
	t.Parallel()

	claimedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stats := staticStats{
		Requesters:   4,
		Banned:       1,
		ActiveClaims: 1,
		Operators:    2,
		Claims: []domain.Claim{
			{RequesterID: "req-1", OperatorID: "op-1", OperatorName: "Ada", ClaimedAt: claimedAt},
		},
	}

	srv := httptest.NewServer(newTestServer(stats).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got struct {
		Status       string         `json:"status"`
		Requesters   int            `json:"requesters"`
		ActiveClaims int            `json:"active_claims"`
		Claims       []domain.Claim `json:"claims"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, 4, got.Requesters)
	assert.Equal(t, 1, got.ActiveClaims)
	require.Len(t, got.Claims, 1)
	assert.Equal(t, domain.OperatorID("op-1"), got.Claims[0].OperatorID)
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTestServer(nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/admin")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- newTestServer(nil).Serve(ctx, listener)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + listener.Addr().String() + "/")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
