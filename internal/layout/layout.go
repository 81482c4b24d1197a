// Package layout tracks per-page display state: rotation, deleted flag and
// display order. It applies mutations unconditionally; policy guards (such
// as never deleting the last visible page) live in the session.
package layout

import (
	"github.com/kpauljoseph/pagemark/internal/transform"
	"github.com/kpauljoseph/pagemark/pkg/models"
)

type Model struct {
	entries map[int]*models.PageLayoutEntry
	order   []int
}

// New creates one entry per source page (1-based) with identity order.
// Entries are never destroyed afterwards; deletion only flips a flag.
func New(pageCount int) *Model {
	m := &Model{
		entries: make(map[int]*models.PageLayoutEntry, pageCount),
		order:   make([]int, 0, pageCount),
	}
	for page := 1; page <= pageCount; page++ {
		m.entries[page] = &models.PageLayoutEntry{Page: page}
		m.order = append(m.order, page)
	}
	return m
}

func (m *Model) PageCount() int {
	return len(m.entries)
}

// Rotate adds delta (±90° increments) to the page's rotation, mod 360.
func (m *Model) Rotate(page, delta int) bool {
	e, ok := m.entries[page]
	if !ok {
		return false
	}
	e.Rotation = transform.Normalize(e.Rotation + delta)
	return true
}

func (m *Model) Delete(page int) bool {
	e, ok := m.entries[page]
	if !ok {
		return false
	}
	e.Deleted = true
	return true
}

func (m *Model) Restore(page int) bool {
	e, ok := m.entries[page]
	if !ok {
		return false
	}
	e.Deleted = false
	return true
}

func (m *Model) IsDeleted(page int) bool {
	e, ok := m.entries[page]
	return ok && e.Deleted
}

func (m *Model) Rotation(page int) int {
	e, ok := m.entries[page]
	if !ok {
		return 0
	}
	return e.Rotation
}

// EffectiveRotation is the page's total display rotation.
func (m *Model) EffectiveRotation(page, globalRotation int) int {
	return transform.Normalize(globalRotation + m.Rotation(page))
}

// Reorder moves the entry at display position from to position to.
// Positions index the full order sequence, deleted pages included.
func (m *Model) Reorder(from, to int) bool {
	if from < 0 || from >= len(m.order) || to < 0 || to >= len(m.order) || from == to {
		return false
	}
	page := m.order[from]
	m.order = append(m.order[:from], m.order[from+1:]...)

	rest := make([]int, 0, len(m.order)+1)
	rest = append(rest, m.order[:to]...)
	rest = append(rest, page)
	rest = append(rest, m.order[to:]...)
	m.order = rest
	return true
}

// VisibleOrder filters deleted pages out of the display order, preserving
// the relative order of survivors.
func (m *Model) VisibleOrder() []int {
	var out []int
	for _, page := range m.order {
		if !m.entries[page].Deleted {
			out = append(out, page)
		}
	}
	return out
}

func (m *Model) VisibleCount() int {
	return len(m.VisibleOrder())
}

// Snapshot accessors: each returns a copy safe to park in a history entry.

func (m *Model) Rotations() map[int]int {
	out := make(map[int]int, len(m.entries))
	for page, e := range m.entries {
		out[page] = e.Rotation
	}
	return out
}

func (m *Model) DeletedSet() map[int]bool {
	out := make(map[int]bool, len(m.entries))
	for page, e := range m.entries {
		out[page] = e.Deleted
	}
	return out
}

func (m *Model) Order() []int {
	out := make([]int, len(m.order))
	copy(out, m.order)
	return out
}

// Partial restore counterparts, driven by history snapshots.

func (m *Model) RestoreRotations(rotations map[int]int) {
	for page, rot := range rotations {
		if e, ok := m.entries[page]; ok {
			e.Rotation = rot
		}
	}
}

func (m *Model) RestoreDeletedSet(deleted map[int]bool) {
	for page, flag := range deleted {
		if e, ok := m.entries[page]; ok {
			e.Deleted = flag
		}
	}
}

func (m *Model) RestoreOrder(order []int) {
	m.order = make([]int, len(order))
	copy(m.order, order)
}
