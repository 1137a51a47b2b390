/*
Package supervisor implements the health supervision engine at the core of
dockwatch.

The engine periodically reconciles the live set of containers and their
health-check states against an in-memory registry, publishes each state to
the metric sink, and restarts containers that stay unhealthy longer than a
configurable grace period.

# Architecture

One goroutine drives the loop; every pass runs the same four steps in
order:

	┌───────────────────────────────────────────────────────┐
	│                Reconciliation Pass                     │
	│                  (every tick)                          │
	└───────────────┬───────────────────────────────────────┘
	                │
	                ▼
	     1. Fetch health snapshot ──── error? abort pass,
	        from the runtime adapter    retry next tick
	                │
	                ▼
	     2. Apply transitions to the registry,
	        set one health gauge per container
	                │
	                ▼
	     3. Prune registry records and metric series
	        for containers absent from the snapshot
	                │
	                ▼
	     4. Evaluate the restart policy
	        (skipped in observe-only mode)

Step ordering matters: pruning never deletes a record before its transition
was applied, and restart evaluation only sees post-transition state. Passes
are strictly sequential; a new tick never starts a pass while a previous
one (including its restart calls) is still running.

# Restart policy

Each container carries a restart-pending timestamp marking the start of its
current unhealthy streak, and a last-restart timestamp marking the single
restart issued for that streak:

	Healthy/Starting/None/Unknown  -> not eligible, markers cleared
	Unhealthy, elapsed < interval  -> waiting
	Unhealthy, elapsed >= interval -> restart, record last-restart
	Unhealthy, already restarted   -> suppressed until the container
	                                  leaves and re-enters unhealthy

A failed restart call still records the last-restart timestamp, so a
container that refuses to restart is not hammered every tick; the failure
is visible on the dockwatch_restart_failures_total counter instead.

With no restart interval configured the engine runs observe-only and never
issues a restart, regardless of how long a container stays unhealthy.

# Concurrency

The registry is owned exclusively by the loop goroutine. The metric sink is
the only shared surface: the loop writes it, the scrape path reads it, and
the prometheus client synchronizes the two. Status() exposes a mutex-guarded
snapshot of the last pass for the readiness endpoint.

# Usage

	engine := supervisor.New(runtimeAdapter, sink, supervisor.Config{
		TickInterval:    10 * time.Second,
		RestartInterval: time.Minute, // 0 = observe-only
	})
	if err := engine.Run(ctx); err != nil {
		// the first pass failed; treat as a startup error
	}
*/
package supervisor
