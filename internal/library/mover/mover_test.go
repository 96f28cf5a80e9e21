package mover

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/dalemusser/docuvault/internal/library"
	"github.com/dalemusser/docuvault/internal/library/memgateway"
)

func TestSelectionSet(t *testing.T) {
	s := NewSelection()

	s.Add("a")
	s.Add("b")
	s.Add("a") // duplicate add is a no-op
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if !s.Has("a") || !s.Has("b") {
		t.Error("expected a and b to be selected")
	}

	if got := s.Toggle("b"); got {
		t.Error("Toggle() of a selected id should report false")
	}
	if got := s.Toggle("c"); !got {
		t.Error("Toggle() of an unselected id should report true")
	}

	want := []string{"a", "c"}
	if got := s.IDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", s.Len())
	}
}

func TestMover_Move(t *testing.T) {
	gw := memgateway.New()
	d1 := gw.SeedDocument(library.Document{Name: "a.pdf", FolderPath: "inbox"})
	d2 := gw.SeedDocument(library.Document{Name: "b.pdf", FolderPath: "inbox"})
	m := New(gw)

	moved, err := m.Move(context.Background(), []string{d1.ID, d2.ID}, "archive")
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if moved != 2 {
		t.Errorf("Move() moved = %d, want 2", moved)
	}

	// One batch request, not one per document.
	if len(gw.MoveCalls) != 1 {
		t.Fatalf("gateway saw %d move calls, want 1", len(gw.MoveCalls))
	}
	if gw.MoveCalls[0].TargetFolder != "archive" {
		t.Errorf("target folder = %q, want %q", gw.MoveCalls[0].TargetFolder, "archive")
	}
	if len(gw.MoveCalls[0].DocumentIDs) != 2 {
		t.Errorf("move payload carried %d ids, want 2", len(gw.MoveCalls[0].DocumentIDs))
	}

	if doc, _ := gw.Document(d1.ID); doc.FolderPath != "archive" {
		t.Errorf("document folder = %q, want %q", doc.FolderPath, "archive")
	}
}

func TestMover_StaleIDs(t *testing.T) {
	gw := memgateway.New()
	d1 := gw.SeedDocument(library.Document{Name: "a.pdf"})
	m := New(gw)

	moved, err := m.Move(context.Background(), []string{d1.ID, "stale-id"}, "archive")
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if moved != 1 {
		t.Errorf("Move() moved = %d, want 1", moved)
	}
}

func TestMover_EmptySelection(t *testing.T) {
	gw := memgateway.New()
	m := New(gw)

	_, err := m.Move(context.Background(), nil, "archive")
	if !errors.Is(err, library.ErrNoSelection) {
		t.Errorf("Move() error = %v, want ErrNoSelection", err)
	}
	if len(gw.MoveCalls) != 0 {
		t.Error("gateway should not be called for an empty selection")
	}
}

func TestMover_MoveSelection(t *testing.T) {
	gw := memgateway.New()
	d1 := gw.SeedDocument(library.Document{Name: "a.pdf"})
	m := New(gw)

	sel := NewSelection()
	sel.Add(d1.ID)

	moved, err := m.MoveSelection(context.Background(), sel, "legal")
	if err != nil {
		t.Fatalf("MoveSelection() error = %v", err)
	}
	if moved != 1 {
		t.Errorf("MoveSelection() moved = %d, want 1", moved)
	}
}

func TestMover_MoveToRoot(t *testing.T) {
	gw := memgateway.New()
	d1 := gw.SeedDocument(library.Document{Name: "a.pdf", FolderPath: "inbox"})
	m := New(gw)

	moved, err := m.Move(context.Background(), []string{d1.ID}, "")
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if moved != 1 {
		t.Errorf("Move() moved = %d, want 1", moved)
	}
	if doc, _ := gw.Document(d1.ID); doc.FolderPath != "" {
		t.Errorf("document folder = %q, want root", doc.FolderPath)
	}
}
