package registry

import (
	"github.com/dockwatch/dockwatch/pkg/types"
)

// Registry is the in-memory table of container supervision records, keyed
// by container id. It is created empty at startup, rebuilt from the first
// snapshot, and never persisted.
//
// The registry is owned exclusively by the supervisor loop: a single
// goroutine performs every read and write, so no internal locking is
// needed. None of its operations can fail.
type Registry struct {
	records map[string]*types.ContainerRecord
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		records: make(map[string]*types.ContainerRecord),
	}
}

// Get returns the record for the given container id, or nil if unknown.
func (r *Registry) Get(id string) *types.ContainerRecord {
	return r.records[id]
}

// Put inserts or replaces the record under its id.
func (r *Registry) Put(rec *types.ContainerRecord) {
	r.records[rec.ID] = rec
}

// Delete removes the record for the given container id. Deleting an
// unknown id is a no-op.
func (r *Registry) Delete(id string) {
	delete(r.records, id)
}

// List returns all records in unspecified order.
func (r *Registry) List() []*types.ContainerRecord {
	out := make([]*types.ContainerRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out
}

// Len returns the number of tracked containers.
func (r *Registry) Len() int {
	return len(r.records)
}
