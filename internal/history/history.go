// Package history keeps a bounded linear undo/redo log. Entries carry
// partial snapshots; applying one merges only the touched state slices.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/kpauljoseph/pagemark/pkg/models"
)

const DefaultCapacity = 50

// Restorer merges a partial snapshot back into live session state.
type Restorer interface {
	ApplySnapshot(snap models.Snapshot)
}

// Manager is a linear log plus a cursor. cursor == -1 means pristine: no
// applied entries. Entries above the cursor form the redo branch.
type Manager struct {
	restorer Restorer
	entries  []models.HistoryEntry
	cursor   int
	capacity int
}

func NewManager(restorer Restorer, capacity int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Manager{
		restorer: restorer,
		cursor:   -1,
		capacity: capacity,
	}
}

// Record truncates the stale redo branch, appends the entry and advances
// the cursor. Beyond capacity the oldest entry is evicted and the cursor
// shifted down so it keeps pointing at the same logical entry.
func (m *Manager) Record(kind models.ActionKind, description string, undo, redo models.Snapshot) models.HistoryEntry {
	entry := models.HistoryEntry{
		ID:          uuid.NewString(),
		Kind:        kind,
		Description: description,
		Timestamp:   time.Now(),
		Undo:        undo.Clone(),
		Redo:        redo.Clone(),
	}

	m.entries = append(m.entries[:m.cursor+1], entry)
	m.cursor++

	if len(m.entries) > m.capacity {
		m.entries = m.entries[1:]
		m.cursor--
	}

	return entry
}

// Undo applies the current entry's undo snapshot and steps back. Undoing
// past the beginning is a silent no-op.
func (m *Manager) Undo() bool {
	if !m.CanUndo() {
		return false
	}
	m.restorer.ApplySnapshot(m.entries[m.cursor].Undo)
	m.cursor--
	return true
}

// Redo steps forward and applies that entry's redo snapshot. Redoing past
// the tail is a silent no-op.
func (m *Manager) Redo() bool {
	if !m.CanRedo() {
		return false
	}
	m.cursor++
	m.restorer.ApplySnapshot(m.entries[m.cursor].Redo)
	return true
}

func (m *Manager) CanUndo() bool {
	return m.cursor >= 0
}

func (m *Manager) CanRedo() bool {
	return m.cursor < len(m.entries)-1
}

func (m *Manager) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the log, oldest first.
func (m *Manager) Entries() []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(m.entries))
	copy(out, m.entries)
	return out
}
