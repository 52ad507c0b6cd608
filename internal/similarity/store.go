// internal/similarity/store.go

package similarity

import (
	"sync/atomic"
	"time"
)

// SnapshotStore holds the currently published epoch. Readers always see a
// complete snapshot; publication is a single atomic pointer swap with no
// locking on the read path.
type SnapshotStore struct {
	current atomic.Value
}

// NewSnapshotStore starts with an empty epoch so readers never observe nil.
func NewSnapshotStore() *SnapshotStore {
	s := &SnapshotStore{}
	s.current.Store(NewSnapshot("bootstrap", time.Now().UTC(), nil, nil, 0))
	return s
}

// Current returns the latest committed snapshot.
func (s *SnapshotStore) Current() *Snapshot {
	return s.current.Load().(*Snapshot)
}

// Publish commits a new epoch. A nil snapshot is ignored so a failed
// recompute can never unpublish the last good epoch.
func (s *SnapshotStore) Publish(snap *Snapshot) {
	if snap == nil {
		return
	}
	s.current.Store(snap)
}
