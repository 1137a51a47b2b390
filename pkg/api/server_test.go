package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dockwatch/dockwatch/pkg/log"
	"github.com/dockwatch/dockwatch/pkg/metrics"
	"github.com/dockwatch/dockwatch/pkg/supervisor"
	"github.com/dockwatch/dockwatch/pkg/types"
)

func init() {
	log.Init(log.Config{Level: log.ErrorLevel})
}

type staticRuntime struct {
	snapshot []types.ContainerStatus
}

func (s *staticRuntime) ListHealthSnapshot(ctx context.Context) ([]types.ContainerStatus, error) {
	return s.snapshot, nil
}

func (s *staticRuntime) Restart(ctx context.Context, id string) error {
	return nil
}

func newTestServer(t *testing.T) (*Server, *supervisor.Engine) {
	t.Helper()
	sink := metrics.NewSink()
	engine := supervisor.New(&staticRuntime{
		snapshot: []types.ContainerStatus{
			{ID: "c1", Name: "web", State: types.HealthStateHealthy},
		},
	}, sink, supervisor.Config{TickInterval: time.Minute})
	return NewServer(sink, engine), engine
}

func TestMetricsEndpoint(t *testing.T) {
	server, engine := newTestServer(t)
	require.NoError(t, engine.ReconcileOnce(context.Background()))

	rec := httptest.NewRecorder()
	server.srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `dockwatch_container_health{id="c1",name="web"} 2`)
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alive", resp.Status)
}

func TestReadyEndpoint(t *testing.T) {
	server, engine := newTestServer(t)

	// No pass has completed yet.
	rec := httptest.NewRecorder()
	server.srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, engine.ReconcileOnce(context.Background()))

	rec = httptest.NewRecorder()
	server.srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, 1, resp.Engine.Tracked)
}

func TestListenAndShutdown(t *testing.T) {
	server, _ := newTestServer(t)
	require.NoError(t, server.Listen("127.0.0.1:0"))

	done := make(chan error, 1)
	go func() {
		done <- server.Serve()
	}()

	addr := server.listener.Addr().String()
	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("server did not stop")
	}
}
