package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dwtypes "github.com/dockwatch/dockwatch/pkg/types"
)

type fakeDocker struct {
	containers []container.Summary
	inspects   map[string]container.InspectResponse
	listErr    error
	inspectErr error
	restartErr error
	restarted  []string
}

func (f *fakeDocker) ContainerList(_ context.Context, _ container.ListOptions) ([]container.Summary, error) {
	return f.containers, f.listErr
}

func (f *fakeDocker) ContainerInspect(_ context.Context, id string) (container.InspectResponse, error) {
	if f.inspectErr != nil {
		return container.InspectResponse{}, f.inspectErr
	}
	return f.inspects[id], nil
}

func (f *fakeDocker) ContainerRestart(_ context.Context, id string, _ container.StopOptions) error {
	f.restarted = append(f.restarted, id)
	return f.restartErr
}

func (f *fakeDocker) Ping(_ context.Context) (types.Ping, error) {
	return types.Ping{}, nil
}

func (f *fakeDocker) Close() error {
	return nil
}

func inspectWithHealth(status container.HealthStatus) container.InspectResponse {
	return container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{
			State: &container.State{
				Health: &container.Health{Status: status},
			},
		},
	}
}

func TestListHealthSnapshot(t *testing.T) {
	cli := &fakeDocker{
		containers: []container.Summary{
			{ID: "c1", Names: []string{"/web"}},
			{ID: "c2", Names: []string{"/db", "/db-alias"}},
			{ID: "c3"},
		},
		inspects: map[string]container.InspectResponse{
			"c1": inspectWithHealth(container.Healthy),
			"c2": inspectWithHealth(container.Unhealthy),
			"c3": {ContainerJSONBase: &container.ContainerJSONBase{State: &container.State{}}},
		},
	}
	rt := &DockerRuntime{cli: cli}

	snapshot, err := rt.ListHealthSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot, 3)

	assert.Equal(t, dwtypes.ContainerStatus{ID: "c1", Name: "web", State: dwtypes.HealthStateHealthy}, snapshot[0])
	assert.Equal(t, dwtypes.ContainerStatus{ID: "c2", Name: "db", State: dwtypes.HealthStateUnhealthy}, snapshot[1])
	assert.Equal(t, dwtypes.ContainerStatus{ID: "c3", Name: "", State: dwtypes.HealthStateNone}, snapshot[2])
}

func TestListHealthSnapshot_ListError(t *testing.T) {
	rt := &DockerRuntime{cli: &fakeDocker{listErr: errors.New("connection refused")}}

	_, err := rt.ListHealthSnapshot(context.Background())
	assert.ErrorContains(t, err, "list containers")
}

func TestListHealthSnapshot_InspectError(t *testing.T) {
	cli := &fakeDocker{
		containers: []container.Summary{{ID: "c1", Names: []string{"/web"}}},
		inspectErr: errors.New("no such container"),
	}
	rt := &DockerRuntime{cli: cli}

	_, err := rt.ListHealthSnapshot(context.Background())
	assert.ErrorContains(t, err, "inspect container c1")
}

func TestRestart(t *testing.T) {
	cli := &fakeDocker{}
	rt := &DockerRuntime{cli: cli}

	require.NoError(t, rt.Restart(context.Background(), "c1"))
	assert.Equal(t, []string{"c1"}, cli.restarted)

	cli.restartErr = errors.New("daemon busy")
	err := rt.Restart(context.Background(), "c1")
	assert.ErrorContains(t, err, "restart container c1")
}

func TestHealthState(t *testing.T) {
	tests := []struct {
		name   string
		info   container.InspectResponse
		expect dwtypes.HealthState
	}{
		{"healthy", inspectWithHealth(container.Healthy), dwtypes.HealthStateHealthy},
		{"unhealthy", inspectWithHealth(container.Unhealthy), dwtypes.HealthStateUnhealthy},
		{"starting", inspectWithHealth(container.Starting), dwtypes.HealthStateStarting},
		{"none", inspectWithHealth(container.NoHealthcheck), dwtypes.HealthStateNone},
		{"empty status", inspectWithHealth(""), dwtypes.HealthStateNone},
		{"unrecognized status", inspectWithHealth("flourishing"), dwtypes.HealthStateUnknown},
		{
			"nil health",
			container.InspectResponse{ContainerJSONBase: &container.ContainerJSONBase{State: &container.State{}}},
			dwtypes.HealthStateNone,
		},
		{
			"nil state",
			container.InspectResponse{ContainerJSONBase: &container.ContainerJSONBase{}},
			dwtypes.HealthStateNone,
		},
		{"empty response", container.InspectResponse{}, dwtypes.HealthStateNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, healthState(tt.info))
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "", displayName(nil))
	assert.Equal(t, "web", displayName([]string{"/web"}))
	assert.Equal(t, "web", displayName([]string{"web"}))
}

func TestNewDockerRuntime_MutuallyExclusiveOptions(t *testing.T) {
	_, err := NewDockerRuntime(Options{
		UnixSocket: "/var/run/docker.sock",
		URL:        "http://localhost:2375",
	})
	assert.Error(t, err)
}
