package index

import (
	"errors"
	"sync/atomic"
)

// ErrNotReady is returned while no index generation has been loaded yet.
var ErrNotReady = errors.New("resolution index is not loaded")

// Index holds the current Snapshot. Readers always see one complete
// generation; refreshes build a new Snapshot and swap it in.
type Index struct {
	current atomic.Pointer[Snapshot]
}

func New() *Index {
	return &Index{}
}

// NewWithSnapshot returns an index already serving snap.
func NewWithSnapshot(snap *Snapshot) *Index {
	idx := &Index{}
	idx.Swap(snap)
	return idx
}

// Current returns the live generation or ErrNotReady.
func (i *Index) Current() (*Snapshot, error) {
	snap := i.current.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap, nil
}

// Swap publishes snap and returns the generation it replaced.
func (i *Index) Swap(snap *Snapshot) *Snapshot {
	return i.current.Swap(snap)
}

func (i *Index) Ready() bool {
	return i.current.Load() != nil
}
