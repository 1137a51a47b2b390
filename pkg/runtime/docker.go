package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"

	dwtypes "github.com/dockwatch/dockwatch/pkg/types"
)

// dockerAPI is the subset of the Docker client used by the adapter. Tests
// substitute a fake implementation.
type dockerAPI interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error)
	ContainerRestart(ctx context.Context, containerID string, options container.StopOptions) error
	Ping(ctx context.Context) (types.Ping, error)
	Close() error
}

// DockerRuntime adapts the Docker Engine API to the snapshot/restart
// operations the supervisor needs.
type DockerRuntime struct {
	cli dockerAPI
}

// Options selects how to reach the Docker daemon. At most one of UnixSocket
// and URL may be set; with neither, the standard Docker environment
// variables (DOCKER_HOST and friends) apply.
type Options struct {
	UnixSocket string
	URL        string
}

// NewDockerRuntime creates a Docker runtime adapter.
func NewDockerRuntime(opts Options) (*DockerRuntime, error) {
	clientOpts := []client.Opt{client.WithAPIVersionNegotiation()}
	switch {
	case opts.UnixSocket != "" && opts.URL != "":
		return nil, fmt.Errorf("unix socket and url are mutually exclusive")
	case opts.UnixSocket != "":
		clientOpts = append(clientOpts, client.WithHost("unix://"+opts.UnixSocket))
	case opts.URL != "":
		clientOpts = append(clientOpts, client.WithHost(opts.URL))
	default:
		clientOpts = append(clientOpts, client.FromEnv)
	}

	cli, err := client.NewClientWithOpts(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}

	return &DockerRuntime{cli: cli}, nil
}

// Ping verifies that the Docker daemon is reachable.
func (r *DockerRuntime) Ping(ctx context.Context) error {
	if _, err := r.cli.Ping(ctx); err != nil {
		return fmt.Errorf("ping docker daemon: %w", err)
	}
	return nil
}

// ListHealthSnapshot returns the id, name, and health phase of every
// container the daemon knows about, running or not.
func (r *DockerRuntime) ListHealthSnapshot(ctx context.Context) ([]dwtypes.ContainerStatus, error) {
	containers, err := r.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}

	snapshot := make([]dwtypes.ContainerStatus, 0, len(containers))
	for _, c := range containers {
		if c.ID == "" {
			return nil, fmt.Errorf("container listing entry has no id")
		}

		info, err := r.cli.ContainerInspect(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("inspect container %s: %w", c.ID, err)
		}

		snapshot = append(snapshot, dwtypes.ContainerStatus{
			ID:    c.ID,
			Name:  displayName(c.Names),
			State: healthState(info),
		})
	}
	return snapshot, nil
}

// Restart asks the daemon to restart the given container with its default
// stop timeout.
func (r *DockerRuntime) Restart(ctx context.Context, id string) error {
	if err := r.cli.ContainerRestart(ctx, id, container.StopOptions{}); err != nil {
		return fmt.Errorf("restart container %s: %w", id, err)
	}
	return nil
}

// Close releases the underlying client connection.
func (r *DockerRuntime) Close() error {
	return r.cli.Close()
}

// displayName picks the first runtime-assigned name, without the leading
// slash Docker prepends.
func displayName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return strings.TrimPrefix(names[0], "/")
}

// healthState maps the inspected container state to a HealthState. A nil
// Health struct means no health check is configured.
func healthState(info container.InspectResponse) dwtypes.HealthState {
	if info.ContainerJSONBase == nil || info.State == nil || info.State.Health == nil {
		return dwtypes.HealthStateNone
	}
	switch info.State.Health.Status {
	case container.Starting:
		return dwtypes.HealthStateStarting
	case container.Healthy:
		return dwtypes.HealthStateHealthy
	case container.Unhealthy:
		return dwtypes.HealthStateUnhealthy
	case container.NoHealthcheck, "":
		return dwtypes.HealthStateNone
	default:
		return dwtypes.HealthStateUnknown
	}
}
