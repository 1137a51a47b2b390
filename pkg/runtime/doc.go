/*
Package runtime adapts the Docker Engine API to the two operations the
supervisor needs: listing containers with their health-check phases and
restarting a container by id.

# Snapshot semantics

ListHealthSnapshot lists all containers (running or not) and inspects each
one for its health state. The result is a consistent-enough snapshot for
one reconciliation pass; any listing or inspect error fails the whole
snapshot so the supervisor never acts on partial data.

Docker health phases map onto dockwatch states as follows:

	"healthy"    -> HealthStateHealthy
	"unhealthy"  -> HealthStateUnhealthy
	"starting"   -> HealthStateStarting
	"none" / no health struct -> HealthStateNone
	anything else -> HealthStateUnknown

# Connection selection

The daemon is reached through exactly one of: an explicit unix socket path,
an explicit HTTP(S) URL, or the standard Docker environment variables
(DOCKER_HOST, DOCKER_TLS_VERIFY, ...). API version negotiation is always
enabled so the adapter works across daemon versions.
*/
package runtime
