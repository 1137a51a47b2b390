/*
Package metrics implements the Prometheus-backed metric sink for dockwatch.

The sink owns its prometheus registry rather than using the package global,
so the supervisor and the HTTP scrape handler share one explicit object and
tests can scrape it without a live server.

# Exported series

	dockwatch_container_health{id,name}        current health code
	dockwatch_restarts_total{id,name}          restarts issued
	dockwatch_restart_failures_total{id,name}  restart commands that failed
	dockwatch_passes_total                     completed reconciliation passes
	dockwatch_errors_total                     passes aborted by runtime errors

Health codes: 0 none, 1 starting, 2 healthy, 3 unhealthy, 4 unknown. The
container id and name ride as labels, never as part of the metric name.

When a container disappears, Remove drops every series carrying its id so
decommissioned containers do not accumulate on the scrape endpoint.
*/
package metrics
