package types

import "time"

// HealthState mirrors the health-check phase reported by the container
// runtime for a single container.
type HealthState string

const (
	// HealthStateStarting covers the grace period before the first
	// conclusive health-check result.
	HealthStateStarting HealthState = "starting"

	// HealthStateHealthy means the last health check passed.
	HealthStateHealthy HealthState = "healthy"

	// HealthStateUnhealthy means the container failed its health check
	// enough times to be marked unhealthy by the runtime.
	HealthStateUnhealthy HealthState = "unhealthy"

	// HealthStateNone marks containers without a configured health check.
	// They are reported on metrics but never eligible for restart.
	HealthStateNone HealthState = "none"

	// HealthStateUnknown covers any status the runtime reports that we
	// cannot classify. Treated conservatively: reported, never restarted.
	HealthStateUnknown HealthState = "unknown"
)

// Code returns the stable numeric encoding of the state used as the gauge
// value on the metrics endpoint. These values must not change between
// releases; dashboards depend on them.
func (s HealthState) Code() int {
	switch s {
	case HealthStateNone:
		return 0
	case HealthStateStarting:
		return 1
	case HealthStateHealthy:
		return 2
	case HealthStateUnhealthy:
		return 3
	default:
		return 4
	}
}

// ContainerStatus is one entry of a runtime snapshot: the id, name, and
// health phase of a container as observed in a single listing.
type ContainerStatus struct {
	ID    string
	Name  string
	State HealthState
}

// ContainerRecord tracks the supervision state of one container across
// reconciliation passes. Records live in the registry, keyed by ID, and are
// mutated only by the supervisor loop.
type ContainerRecord struct {
	// ID is the runtime-assigned container id; immutable for the record's
	// lifetime.
	ID string

	// Name is the runtime-assigned display name used on metric labels. It
	// may change between observations without changing record identity.
	Name string

	// State is the last observed health state.
	State HealthState

	// StateSince is when the record last transitioned into State.
	// Re-observing the same state does not move it.
	StateSince time.Time

	// RestartPendingSince marks when the current unhealthy streak began.
	// Set exactly when State == HealthStateUnhealthy, zero otherwise.
	RestartPendingSince time.Time

	// LastRestartAt is when the supervisor last issued a restart during the
	// current unhealthy streak. Zero if no restart has been issued for this
	// streak. Once set it suppresses further restarts until the container
	// leaves and re-enters the unhealthy state.
	LastRestartAt time.Time
}
