// Package mover batches document moves into single gateway requests and
// tracks the ephemeral selection feeding them.
package mover

import (
	"context"
	"sort"
	"sync"

	"github.com/dalemusser/docuvault/internal/library"
)

// SelectionSet is the ephemeral set of document ids chosen for a bulk
// move. It is never persisted; callers clear it after a successful move
// or on navigation.
type SelectionSet struct {
	ids map[string]struct{}
}

func NewSelection() *SelectionSet {
	return &SelectionSet{ids: map[string]struct{}{}}
}

func (s *SelectionSet) Add(id string) {
	s.ids[id] = struct{}{}
}

func (s *SelectionSet) Remove(id string) {
	delete(s.ids, id)
}

// Toggle flips membership and reports whether the id is now selected.
func (s *SelectionSet) Toggle(id string) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *SelectionSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *SelectionSet) Len() int {
	return len(s.ids)
}

func (s *SelectionSet) Clear() {
	s.ids = map[string]struct{}{}
}

// IDs returns the selected ids in sorted order so move payloads are
// deterministic.
func (s *SelectionSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Mover issues batch moves through a Gateway. One move at a time; a
// second Move while one is running returns ErrBusy.
type Mover struct {
	gw library.Gateway

	mu   sync.Mutex
	busy bool
}

func New(gw library.Gateway) *Mover {
	return &Mover{gw: gw}
}

// Move sends one batch request moving every id to targetFolder ("" is
// the root) and returns the gateway-reported moved count. The count may
// be less than the number of ids when some were stale or already
// deleted; callers must not assume equality.
//
// An empty id set returns ErrNoSelection without touching the gateway.
func (m *Mover) Move(ctx context.Context, documentIDs []string, targetFolder string) (int64, error) {
	if len(documentIDs) == 0 {
		return 0, library.ErrNoSelection
	}

	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return 0, library.ErrBusy
	}
	m.busy = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.busy = false
		m.mu.Unlock()
	}()

	return m.gw.Move(ctx, documentIDs, targetFolder)
}

// MoveSelection moves the current selection in one batch request.
func (m *Mover) MoveSelection(ctx context.Context, sel *SelectionSet, targetFolder string) (int64, error) {
	return m.Move(ctx, sel.IDs(), targetFolder)
}
