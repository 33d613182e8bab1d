package entity

import (
	"fmt"
	"sort"
	"sync/atomic"

	"golang.org/x/xerrors"

	"xdpwall/domain/valueobject"
)

// ErrCapacityExceeded is returned when a new address is upserted into a full table.
var ErrCapacityExceeded = xerrors.New("policy table capacity exceeded")

// PolicyReader is the read side of the policy table used by the classifier.
type PolicyReader interface {
	Lookup(addr valueobject.Address) (valueobject.Action, bool)
}

// PolicyEntry is one row of the table.
type PolicyEntry struct {
	Address valueobject.Address
	Action  valueobject.Action
}

func (e PolicyEntry) String() string {
	return fmt.Sprintf("{Address: %s Action: %s}", e.Address, e.Action)
}

// PolicyTable maps source addresses to actions.
//
// Readers load an immutable snapshot and never block or allocate.
// Mutation goes through the single PolicyWriter handed out by NewPolicyTable,
// which publishes a new snapshot per change.
type PolicyTable struct {
	capacity int
	snapshot atomic.Pointer[map[valueobject.Address]valueobject.Action]
}

// PolicyWriter is the only handle that can change a PolicyTable.
type PolicyWriter struct {
	table *PolicyTable
}

func NewPolicyTable(capacity int) (*PolicyTable, *PolicyWriter) {
	t := &PolicyTable{capacity: capacity}
	empty := make(map[valueobject.Address]valueobject.Action)
	t.snapshot.Store(&empty)
	return t, &PolicyWriter{table: t}
}

func (t *PolicyTable) Lookup(addr valueobject.Address) (valueobject.Action, bool) {
	action, ok := (*t.snapshot.Load())[addr]
	return action, ok
}

func (t *PolicyTable) Len() int {
	return len(*t.snapshot.Load())
}

func (t *PolicyTable) Capacity() int {
	return t.capacity
}

// Entries returns a copy of the table ordered by address.
func (t *PolicyTable) Entries() []PolicyEntry {
	current := *t.snapshot.Load()
	entries := make([]PolicyEntry, 0, len(current))
	for addr, action := range current {
		entries = append(entries, PolicyEntry{Address: addr, Action: action})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Address < entries[j].Address
	})
	return entries
}

func (w *PolicyWriter) Lookup(addr valueobject.Address) (valueobject.Action, bool) {
	return w.table.Lookup(addr)
}

// Upsert sets the action of addr. An existing entry is overwritten.
// A new entry is rejected with ErrCapacityExceeded when the table is full, and the table is left unchanged.
func (w *PolicyWriter) Upsert(addr valueobject.Address, action valueobject.Action) error {
	current := *w.table.snapshot.Load()
	old, exists := current[addr]
	if exists && old == action {
		return nil
	}
	if !exists && len(current) >= w.table.capacity {
		return xerrors.Errorf("failed to insert %s: %w", addr, ErrCapacityExceeded)
	}

	next := make(map[valueobject.Address]valueobject.Action, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	next[addr] = action
	w.table.snapshot.Store(&next)
	return nil
}
