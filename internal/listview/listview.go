package listview

import (
	"fmt"
	"strings"

	"github.com/satchel-tui/satchel/internal/api"
)

// Model tracks one page's view of a remote collection. The id function
// projects an item to its server-assigned identifier.
type Model[T any] struct {
	id    func(T) int
	items []T

	selectedID   int
	hasSelection bool

	Loading  bool
	Creating bool
	Updating bool
	Deleting bool

	LoadErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
}

// New creates an empty model for items identified by id.
func New[T any](id func(T) int) *Model[T] {
	return &Model[T]{id: id}
}

// Items returns the current collection in order.
func (m *Model[T]) Items() []T { return m.items }

// Len returns the collection size.
func (m *Model[T]) Len() int { return len(m.items) }

// Select marks the item with the given id as selected.
func (m *Model[T]) Select(id int) {
	m.selectedID = id
	m.hasSelection = true
}

// ClearSelection drops the selection.
func (m *Model[T]) ClearSelection() {
	m.selectedID = 0
	m.hasSelection = false
}

// Selected returns the selected item, resolving the id against the current
// collection each call so stale selections read as none.
func (m *Model[T]) Selected() (T, bool) {
	var zero T
	if !m.hasSelection {
		return zero, false
	}
	for _, item := range m.items {
		if m.id(item) == m.selectedID {
			return item, true
		}
	}
	return zero, false
}

// SelectedID returns the selected id, if any.
func (m *Model[T]) SelectedID() (int, bool) {
	return m.selectedID, m.hasSelection
}

// BeginLoad flags a load in flight and clears the previous load error.
func (m *Model[T]) BeginLoad() {
	m.Loading = true
	m.LoadErr = nil
}

// FinishLoad applies a completed load. A canceled load clears the busy flag
// and changes nothing else.
func (m *Model[T]) FinishLoad(items []T, err error) {
	m.Loading = false
	if api.IsCanceled(err) {
		return
	}
	if err != nil {
		m.LoadErr = err
		return
	}
	m.items = items
}

// BeginCreate flags a create in flight and clears the previous create error.
func (m *Model[T]) BeginCreate() {
	m.Creating = true
	m.CreateErr = nil
}

// FinishCreate applies a completed create: the server-returned record is
// prepended and selected. On failure the form stays open with the scoped
// error set. A canceled create only clears the busy flag.
func (m *Model[T]) FinishCreate(item T, err error) {
	m.Creating = false
	if api.IsCanceled(err) {
		return
	}
	if err != nil {
		m.CreateErr = err
		return
	}
	m.items = append([]T{item}, m.items...)
	m.Select(m.id(item))
}

// BeginUpdate flags an update in flight and clears the previous update error.
func (m *Model[T]) BeginUpdate() {
	m.Updating = true
	m.UpdateErr = nil
}

// FinishUpdate splices the server-returned record into the list by id. A
// canceled update only clears the busy flag.
func (m *Model[T]) FinishUpdate(item T, err error) {
	m.Updating = false
	if api.IsCanceled(err) {
		return
	}
	if err != nil {
		m.UpdateErr = err
		return
	}
	id := m.id(item)
	for i := range m.items {
		if m.id(m.items[i]) == id {
			m.items[i] = item
			return
		}
	}
	// Updated item no longer listed (filtered reload raced it): keep as-is.
}

// BeginDelete flags a delete in flight and clears the previous delete error.
func (m *Model[T]) BeginDelete() {
	m.Deleting = true
	m.DeleteErr = nil
}

// FinishDelete removes the item after server confirmation and reselects a
// neighbor from the visible (filtered) ordering: the item now at the deleted
// item's index, else the previous index, else the first item, else none. A
// canceled delete only clears the busy flag.
func (m *Model[T]) FinishDelete(id int, visible []T, err error) {
	m.Deleting = false
	if api.IsCanceled(err) {
		return
	}
	if err != nil {
		m.DeleteErr = err
		return
	}

	idx := -1
	for i, item := range visible {
		if m.id(item) == id {
			idx = i
			break
		}
	}

	next := make([]T, 0, len(m.items))
	for _, item := range m.items {
		if m.id(item) != id {
			next = append(next, item)
		}
	}
	m.items = next

	remaining := make([]T, 0, len(visible))
	for _, item := range visible {
		if m.id(item) != id {
			remaining = append(remaining, item)
		}
	}

	switch {
	case idx >= 0 && idx < len(remaining):
		m.Select(m.id(remaining[idx]))
	case idx-1 >= 0 && idx-1 < len(remaining):
		m.Select(m.id(remaining[idx-1]))
	case len(remaining) > 0:
		m.Select(m.id(remaining[0]))
	default:
		m.ClearSelection()
	}
}

// Visible filters the collection without mutating it.
func (m *Model[T]) Visible(match func(T) bool) []T {
	if match == nil {
		return m.items
	}
	out := make([]T, 0, len(m.items))
	for _, item := range m.items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out
}

// Field is one mandatory form input.
type Field struct {
	Name  string
	Value string
}

// CheckRequired validates mandatory fields locally. The first blank field
// produces an error; nothing is sent over the network when it fails.
func CheckRequired(fields ...Field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			return fmt.Errorf("%s is required", f.Name)
		}
	}
	return nil
}
