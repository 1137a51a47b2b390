/*
Package api serves the dockwatch HTTP surface: the Prometheus scrape
endpoint at /metrics plus JSON liveness (/health) and readiness (/ready)
checks.

The server reads only the metric sink and the engine's status snapshot; it
never blocks on, or waits for, a reconciliation pass. Scrapes during a
runtime outage return the last successfully published values rather than
erroring, so metrics degrade by going stale.
*/
package api
