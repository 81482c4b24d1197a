// Package session is the composition root of the editing core. Every
// mutation flows caller -> Session -> store/layout -> history.Record, and
// either fully succeeds with exactly one history entry or does nothing.
package session

import (
	"fmt"

	"github.com/kpauljoseph/pagemark/internal/history"
	"github.com/kpauljoseph/pagemark/internal/layout"
	"github.com/kpauljoseph/pagemark/internal/store"
	"github.com/kpauljoseph/pagemark/internal/transform"
	"github.com/kpauljoseph/pagemark/pkg/logger"
	"github.com/kpauljoseph/pagemark/pkg/models"
)

const DefaultMinAnnotationSize = 4.0

type Session struct {
	store  *store.Store
	layout *layout.Model
	hist   *history.Manager
	log    *logger.Logger

	pageDims       []models.PageDimensions
	globalRotation int
	currentPage    int
	zoom           float64
	minSize        float64
}

type Option func(*Session)

func WithLogger(log *logger.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

func WithHistoryCapacity(capacity int) Option {
	return func(s *Session) {
		s.hist = history.NewManager(s, capacity)
	}
}

func WithHitThreshold(thresholdPx float64) Option {
	return func(s *Session) {
		s.store.SetHitThreshold(thresholdPx)
	}
}

func WithMinAnnotationSize(size float64) Option {
	return func(s *Session) {
		if size > 0 {
			s.minSize = size
		}
	}
}

func WithTextBoxDefaults(width, height float64) Option {
	return func(s *Session) {
		s.store.SetTextBoxDefaults(width, height)
	}
}

// New builds a session for a document whose pages have the given canonical
// dimensions; pageDims[0] describes source page 1.
func New(pageDims []models.PageDimensions, options ...Option) (*Session, error) {
	if len(pageDims) == 0 {
		return nil, fmt.Errorf("session: document has no pages")
	}

	s := &Session{
		store:       store.New(),
		layout:      layout.New(len(pageDims)),
		log:         logger.New(logger.WithPrefix("[session] ")),
		pageDims:    append([]models.PageDimensions(nil), pageDims...),
		currentPage: 1,
		zoom:        1.0,
		minSize:     DefaultMinAnnotationSize,
	}
	s.hist = history.NewManager(s, history.DefaultCapacity)

	for _, opt := range options {
		opt(s)
	}

	return s, nil
}

func (s *Session) PageCount() int {
	return len(s.pageDims)
}

func (s *Session) PageSize(page int) (models.PageDimensions, bool) {
	if page < 1 || page > len(s.pageDims) {
		return models.PageDimensions{}, false
	}
	return s.pageDims[page-1], true
}

// --- annotation mutations ---

// AddAnnotation commits a gesture draft. Drafts below the minimum-size
// threshold are discarded without touching state or history.
func (s *Session) AddAnnotation(draft models.Annotation) (models.Annotation, bool) {
	if draft.Page < 1 || draft.Page > len(s.pageDims) {
		s.log.Debug("add rejected: unknown page %d", draft.Page)
		return models.Annotation{}, false
	}
	if !s.meetsMinimumSize(draft) {
		s.log.Debug("add rejected: %s draft below minimum size", draft.Kind)
		return models.Annotation{}, false
	}

	pre := s.capture(models.SliceAnnotations)
	created := s.store.Add(draft)
	post := s.capture(models.SliceAnnotations)

	s.hist.Record(models.ActionAddAnnotation,
		fmt.Sprintf("Add %s on page %d", created.Kind, created.Page), pre, post)
	return created, true
}

// UpdateAnnotation merges fields into an existing annotation. Unknown ids
// are a quiet no-op with no history entry.
func (s *Session) UpdateAnnotation(id string, fields models.AnnotationUpdate) bool {
	pre := s.capture(models.SliceAnnotations)
	if !s.store.Update(id, fields) {
		return false
	}
	post := s.capture(models.SliceAnnotations)

	s.hist.Record(models.ActionUpdateAnnotation,
		fmt.Sprintf("Update annotation %s", id), pre, post)
	return true
}

func (s *Session) DeleteAnnotation(id string) bool {
	pre := s.capture(models.SliceAnnotations)
	if !s.store.Remove(id) {
		return false
	}
	post := s.capture(models.SliceAnnotations)

	s.hist.Record(models.ActionDeleteAnnotation,
		fmt.Sprintf("Delete annotation %s", id), pre, post)
	return true
}

// --- page mutations ---

// RotatePage adds a ±90° delta to the page's own rotation.
func (s *Session) RotatePage(page, delta int) bool {
	if delta%90 != 0 {
		s.log.Debug("rotate rejected: delta %d is not a 90-degree step", delta)
		return false
	}

	pre := s.capture(models.SliceRotations)
	if !s.layout.Rotate(page, delta) {
		return false
	}
	post := s.capture(models.SliceRotations)

	s.hist.Record(models.ActionRotatePage,
		fmt.Sprintf("Rotate page %d by %d°", page, delta), pre, post)
	return true
}

// DeletePage flags a page as deleted. Deleting the last visible page is
// rejected with no mutation and no history entry.
func (s *Session) DeletePage(page int) bool {
	if s.layout.IsDeleted(page) {
		return false
	}
	if s.layout.VisibleCount() <= 1 {
		s.log.Warn("delete rejected: page %d is the last visible page", page)
		return false
	}

	pre := s.capture(models.SliceDeleted)
	if !s.layout.Delete(page) {
		return false
	}
	post := s.capture(models.SliceDeleted)

	s.hist.Record(models.ActionDeletePage,
		fmt.Sprintf("Delete page %d", page), pre, post)
	return true
}

func (s *Session) RestorePage(page int) bool {
	if !s.layout.IsDeleted(page) {
		return false
	}

	pre := s.capture(models.SliceDeleted)
	if !s.layout.Restore(page) {
		return false
	}
	post := s.capture(models.SliceDeleted)

	s.hist.Record(models.ActionRestorePage,
		fmt.Sprintf("Restore page %d", page), pre, post)
	return true
}

// ReorderPages moves the entry at display position from to position to.
// Undo restores the captured order verbatim; no algebraic inverse of the
// move is ever computed.
func (s *Session) ReorderPages(from, to int) bool {
	pre := s.capture(models.SliceOrder)
	if !s.layout.Reorder(from, to) {
		return false
	}
	post := s.capture(models.SliceOrder)

	s.hist.Record(models.ActionReorderPages,
		fmt.Sprintf("Move page from position %d to %d", from, to), pre, post)
	return true
}

// SetGlobalRotation replaces the document-wide rotation, normalized mod 360.
func (s *Session) SetGlobalRotation(deg int) bool {
	if deg%90 != 0 {
		s.log.Debug("global rotation rejected: %d is not a 90-degree step", deg)
		return false
	}
	deg = transform.Normalize(deg)
	if deg == s.globalRotation {
		return false
	}

	pre := s.capture(models.SliceGlobal)
	s.globalRotation = deg
	post := s.capture(models.SliceGlobal)

	s.hist.Record(models.ActionRotateAll,
		fmt.Sprintf("Set global rotation to %d°", deg), pre, post)
	return true
}

// --- history ---

func (s *Session) Undo() bool    { return s.hist.Undo() }
func (s *Session) Redo() bool    { return s.hist.Redo() }
func (s *Session) CanUndo() bool { return s.hist.CanUndo() }
func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

func (s *Session) History() []models.HistoryEntry {
	return s.hist.Entries()
}

// ApplySnapshot merges a partial snapshot back into live state. Slices the
// snapshot did not capture are left untouched.
func (s *Session) ApplySnapshot(snap models.Snapshot) {
	if snap.Slices.Has(models.SliceAnnotations) {
		s.store.Restore(snap.Annotations)
	}
	if snap.Slices.Has(models.SliceRotations) {
		s.layout.RestoreRotations(snap.Rotations)
	}
	if snap.Slices.Has(models.SliceDeleted) {
		s.layout.RestoreDeletedSet(snap.Deleted)
	}
	if snap.Slices.Has(models.SliceOrder) {
		s.layout.RestoreOrder(snap.Order)
	}
	if snap.Slices.Has(models.SliceGlobal) {
		s.globalRotation = snap.Global
	}
}

// --- derived read-only views ---

func (s *Session) VisibleOrder() []int {
	return s.layout.VisibleOrder()
}

func (s *Session) EffectiveRotation(page int) int {
	return s.layout.EffectiveRotation(page, s.globalRotation)
}

func (s *Session) GlobalRotation() int {
	return s.globalRotation
}

func (s *Session) Annotations(page int) []models.Annotation {
	return s.store.Query(page)
}

func (s *Session) AnnotationCount() int {
	return s.store.Len()
}

func (s *Session) HitTest(p models.Point, page int) (models.Annotation, bool) {
	return s.store.HitTest(p, page, s.zoom)
}

// ViewBox returns the annotation's bounding box in view space under the
// page's current effective rotation.
func (s *Session) ViewBox(id string) (models.Rect, bool) {
	a, ok := s.store.Get(id)
	if !ok {
		return models.Rect{}, false
	}
	dims, ok := s.PageSize(a.Page)
	if !ok {
		return models.Rect{}, false
	}

	box := models.Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
	rotation := s.EffectiveRotation(a.Page)
	return transform.BoundingBoxToView(box, rotation, dims.Width, dims.Height), true
}

// --- viewport (not history-recorded) ---

func (s *Session) SetZoom(zoom float64) {
	if zoom > 0 {
		s.zoom = zoom
	}
}

func (s *Session) Zoom() float64 {
	return s.zoom
}

func (s *Session) GoToPage(page int) bool {
	if page < 1 || page > len(s.pageDims) || s.layout.IsDeleted(page) {
		return false
	}
	s.currentPage = page
	return true
}

func (s *Session) CurrentPage() int {
	return s.currentPage
}

// --- save hand-off ---

// SaveBundle is the hand-off for the document-mutation collaborator:
// visible pages in display order, effective rotation per visible page, and
// the full annotation list in canonical coordinates.
func (s *Session) SaveBundle() models.SaveBundle {
	order := s.layout.VisibleOrder()
	rotations := make(map[int]int, len(order))
	for _, page := range order {
		rotations[page] = s.EffectiveRotation(page)
	}
	return models.SaveBundle{
		PageOrder:   order,
		Rotations:   rotations,
		Annotations: s.store.Snapshot(),
	}
}

// --- internals ---

func (s *Session) capture(slices models.StateSlice) models.Snapshot {
	snap := models.Snapshot{Slices: slices}
	if slices.Has(models.SliceAnnotations) {
		snap.Annotations = s.store.Snapshot()
	}
	if slices.Has(models.SliceRotations) {
		snap.Rotations = s.layout.Rotations()
	}
	if slices.Has(models.SliceDeleted) {
		snap.Deleted = s.layout.DeletedSet()
	}
	if slices.Has(models.SliceOrder) {
		snap.Order = s.layout.Order()
	}
	if slices.Has(models.SliceGlobal) {
		snap.Global = s.globalRotation
	}
	return snap
}

func (s *Session) meetsMinimumSize(draft models.Annotation) bool {
	if draft.Kind.IsPath() {
		return len(draft.Points) >= 2
	}
	if draft.Width <= 0 || draft.Height <= 0 {
		// Sizeless drafts are legal for text-like kinds; hit-testing
		// falls back to the documented default box.
		return draft.Kind.IsTextLike() || draft.Kind == models.KindSignature
	}
	return draft.Width >= s.minSize || draft.Height >= s.minSize
}
