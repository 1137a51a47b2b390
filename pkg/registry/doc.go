/*
Package registry holds the in-memory table of per-container supervision
records.

The registry is process-scoped: created empty at startup, rebuilt from the
first runtime snapshot, discarded at shutdown. It is owned and mutated by
the supervisor loop alone, which is why it carries no locks and why none of
its operations can fail.
*/
package registry
