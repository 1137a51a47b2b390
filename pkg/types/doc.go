/*
Package types defines the core data structures of dockwatch: the health
state enumeration with its stable metric encoding, snapshot entries as
reported by the container runtime, and the per-container record the
supervisor maintains across reconciliation passes.
*/
package types
