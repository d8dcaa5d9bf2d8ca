// Package reconcile overlays in-flight client mutations on the last confirmed
// server snapshot.
//
// Each entity key holds the confirmed value, at most one pending overlay and
// the generation of the request that produced it. A newer Begin for the same
// key supersedes the older overlay; Settle drops the overlay only when the
// settling request is still the newest one for that key. Settle is called on
// success and on failure alike: a failed edit shows server truth again once the
// next snapshot is confirmed.
package reconcile

import (
	"sync"

	"github.com/google/uuid"
)

type Key string

func CardKey(id uuid.UUID) Key   { return Key("card:" + id.String()) }
func ColumnKey(id uuid.UUID) Key { return Key("column:" + id.String()) }

type Overlay[T any] struct {
	Value  T
	Delete bool
}

type Entry[T any] struct {
	Confirmed    T
	HasConfirmed bool
	Pending      *Overlay[T]
	Generation   uint64
}

// Reconcile is the pure merge: pending overlays win over confirmed values,
// pending deletes hide the entity.
func Reconcile[T any](entries map[Key]Entry[T]) map[Key]T {
	out := make(map[Key]T, len(entries))
	for key, e := range entries {
		switch {
		case e.Pending != nil && e.Pending.Delete:
		case e.Pending != nil:
			out[key] = e.Pending.Value
		case e.HasConfirmed:
			out[key] = e.Confirmed
		}
	}
	return out
}

// Table is safe for concurrent use.
type Table[T any] struct {
	mu      sync.Mutex
	entries map[Key]Entry[T]
	gen     uint64
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{entries: make(map[Key]Entry[T])}
}

// Begin registers an in-flight mutation and returns its generation.
func (t *Table[T]) Begin(key Key, intended T) uint64 {
	return t.begin(key, Overlay[T]{Value: intended})
}

// BeginDelete registers an in-flight delete.
func (t *Table[T]) BeginDelete(key Key) uint64 {
	var zero T
	return t.begin(key, Overlay[T]{Value: zero, Delete: true})
}

func (t *Table[T]) begin(key Key, o Overlay[T]) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	e := t.entries[key]
	e.Pending = &o
	e.Generation = t.gen
	t.entries[key] = e
	return t.gen
}

// Settle reports whether the overlay was dropped. A superseded generation is
// ignored so a slow older response cannot erase a newer drag.
func (t *Table[T]) Settle(key Key, gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[key]
	if !ok || e.Pending == nil || e.Generation != gen {
		return false
	}
	e.Pending = nil
	if !e.HasConfirmed {
		delete(t.entries, key)
		return true
	}
	t.entries[key] = e
	return true
}

// Confirm records the server value for one key.
func (t *Table[T]) Confirm(key Key, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.entries[key]
	e.Confirmed = v
	e.HasConfirmed = true
	t.entries[key] = e
}

// ConfirmAll replaces the confirmed snapshot. Keys missing from snapshot lose
// their confirmed value; their pending overlays stay until settled.
func (t *Table[T]) ConfirmAll(snapshot map[Key]T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, e := range t.entries {
		if _, ok := snapshot[key]; ok {
			continue
		}
		if e.Pending == nil {
			delete(t.entries, key)
			continue
		}
		var zero T
		e.Confirmed = zero
		e.HasConfirmed = false
		t.entries[key] = e
	}
	for key, v := range snapshot {
		e := t.entries[key]
		e.Confirmed = v
		e.HasConfirmed = true
		t.entries[key] = e
	}
}

// Entries copies the table for Reconcile.
func (t *Table[T]) Entries() map[Key]Entry[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[Key]Entry[T], len(t.entries))
	for k, e := range t.entries {
		out[k] = e
	}
	return out
}

// View is Reconcile over the current entries.
func (t *Table[T]) View() map[Key]T {
	return Reconcile(t.Entries())
}

// Pending reports whether key has an unsettled overlay.
func (t *Table[T]) Pending(key Key) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entries[key].Pending != nil
}
