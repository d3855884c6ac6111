package nla

import (
	"github.com/go-lp/lpcore/basis"
	"github.com/go-lp/lpcore/errs"
	"github.com/go-lp/lpcore/lu"
)

// snapshotEntry is one frozen basis: a deep copy of the basis and the
// eta list pending at freeze time, doubly linked into freeze history by
// id.
type snapshotEntry struct {
	id   int64
	prev int64 // -1 if head
	next int64 // -1 if tail

	basis *basis.Basis
	etas  lu.EtaSnapshot
}

// snapshotArena is the arena of snapshots keyed by monotonically
// increasing id, doubly linked by freeze order. Unfreezing an interior id
// discards every later snapshot; exceeding limit ages out the oldest
// snapshot LRU-style.
type snapshotArena struct {
	entries map[int64]*snapshotEntry
	headID  int64 // oldest; -1 if empty
	tailID  int64 // newest; -1 if empty
	nextID  int64
	limit   int
}

func newSnapshotArena(limit int) *snapshotArena {
	if limit <= 0 {
		limit = 64
	}
	return &snapshotArena{
		entries: make(map[int64]*snapshotEntry),
		headID:  -1,
		tailID:  -1,
		limit:   limit,
	}
}

// Freeze takes a deep-copied snapshot of b and the facade's pending etas,
// appends it to the tail of the freeze history, and returns its id.
func (f *Facade) Freeze(b *basis.Basis) int64 {
	a := f.arena
	id := a.nextID
	a.nextID++

	entry := &snapshotEntry{
		id:   id,
		prev: a.tailID,
		next: -1,
		basis: b.Clone(),
	}
	if f.fact != nil {
		entry.etas = f.fact.SnapshotEtas()
	}

	if a.tailID != -1 {
		a.entries[a.tailID].next = id
	} else {
		a.headID = id
	}
	a.tailID = id
	a.entries[id] = entry

	for len(a.entries) > a.limit {
		a.evictHead()
	}
	f.logger.Debugf("nla: froze basis snapshot id=%d", id)
	return id
}

// Unfreeze restores the basis and eta list of snapshot id, discarding
// every later snapshot. The returned basis is the facade's new live
// basis; the caller must still Invert against it since L/U itself is not
// part of the snapshot (only the pending etas on top of whatever
// factorization was live at freeze time).
func (f *Facade) Unfreeze(id int64) (*basis.Basis, error) {
	a := f.arena
	entry, ok := a.entries[id]
	if !ok {
		return nil, errs.Newf(errs.InvalidInput, "nla: unknown snapshot id %d", id)
	}

	// Discard every snapshot after id, newest first.
	for a.tailID != id {
		if a.tailID == -1 {
			break
		}
		a.evictTail()
	}

	restored := entry.basis.Clone()
	f.basis = restored
	if f.fact != nil {
		f.fact.RestoreEtas(entry.etas)
	}
	f.logger.Debugf("nla: unfroze basis snapshot id=%d", id)
	return restored, nil
}

// evictHead drops the oldest snapshot, used by Freeze's LRU cap.
func (a *snapshotArena) evictHead() {
	if a.headID == -1 {
		return
	}
	old := a.entries[a.headID]
	delete(a.entries, old.id)
	if old.next == -1 {
		a.headID, a.tailID = -1, -1
		return
	}
	a.entries[old.next].prev = -1
	a.headID = old.next
}

// evictTail drops the newest snapshot.
func (a *snapshotArena) evictTail() {
	if a.tailID == -1 {
		return
	}
	old := a.entries[a.tailID]
	delete(a.entries, old.id)
	if old.prev == -1 {
		a.headID, a.tailID = -1, -1
		return
	}
	a.entries[old.prev].next = -1
	a.tailID = old.prev
}
