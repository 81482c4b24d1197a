package models

import "time"

type ActionKind string

const (
	ActionAddAnnotation    ActionKind = "add-annotation"
	ActionUpdateAnnotation ActionKind = "update-annotation"
	ActionDeleteAnnotation ActionKind = "delete-annotation"
	ActionRotatePage       ActionKind = "rotate-page"
	ActionDeletePage       ActionKind = "delete-page"
	ActionRestorePage      ActionKind = "restore-page"
	ActionReorderPages     ActionKind = "reorder-pages"
	ActionRotateAll        ActionKind = "rotate-all"
)

// StateSlice marks which parts of session state a snapshot captured.
type StateSlice uint8

const (
	SliceAnnotations StateSlice = 1 << iota
	SliceRotations
	SliceDeleted
	SliceOrder
	SliceGlobal
)

func (s StateSlice) Has(flag StateSlice) bool {
	return s&flag != 0
}

// Snapshot is a partial capture: only the fields whose bit is set in Slices
// are meaningful, and only those are merged back on undo/redo.
type Snapshot struct {
	Slices      StateSlice
	Annotations []Annotation
	Rotations   map[int]int
	Deleted     map[int]bool
	Order       []int
	Global      int
}

// Clone deep-copies the captured collections so later mutations of live
// state cannot reach into a recorded snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Slices: s.Slices, Global: s.Global}
	if s.Slices.Has(SliceAnnotations) {
		out.Annotations = CloneAnnotations(s.Annotations)
	}
	if s.Slices.Has(SliceRotations) {
		out.Rotations = make(map[int]int, len(s.Rotations))
		for k, v := range s.Rotations {
			out.Rotations[k] = v
		}
	}
	if s.Slices.Has(SliceDeleted) {
		out.Deleted = make(map[int]bool, len(s.Deleted))
		for k, v := range s.Deleted {
			out.Deleted[k] = v
		}
	}
	if s.Slices.Has(SliceOrder) {
		out.Order = make([]int, len(s.Order))
		copy(out.Order, s.Order)
	}
	return out
}

type HistoryEntry struct {
	ID          string
	Kind        ActionKind
	Description string
	Timestamp   time.Time
	Undo        Snapshot
	Redo        Snapshot
}
