// Package store holds the in-memory annotation collection. It never writes
// history; recording is the session's job.
package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/kpauljoseph/pagemark/pkg/models"
	"github.com/kpauljoseph/pagemark/pkg/utils"
)

const (
	// Fallback box for text-like annotations created without dimensions,
	// so hit-testing stays well-defined for sizeless drafts.
	DefaultTextWidth  = 100.0
	DefaultTextHeight = 30.0

	// DefaultHitThresholdPx is the screen-pixel tolerance for path and
	// arrow hit tests; divide by zoom before comparing canonical distances.
	DefaultHitThresholdPx = 10.0
)

// Store keeps annotations in insertion order; insertion order doubles as
// render/z-order, so the last slice element is the topmost annotation.
type Store struct {
	annotations []models.Annotation
	thresholdPx float64
	textWidth   float64
	textHeight  float64
}

func New() *Store {
	return &Store{
		thresholdPx: DefaultHitThresholdPx,
		textWidth:   DefaultTextWidth,
		textHeight:  DefaultTextHeight,
	}
}

func NewWithThreshold(thresholdPx float64) *Store {
	s := New()
	s.SetHitThreshold(thresholdPx)
	return s
}

// SetHitThreshold overrides the screen-pixel tolerance for path hit tests.
func (s *Store) SetHitThreshold(thresholdPx float64) {
	if thresholdPx > 0 {
		s.thresholdPx = thresholdPx
	}
}

// SetTextBoxDefaults overrides the fallback box for sizeless text drafts.
func (s *Store) SetTextBoxDefaults(width, height float64) {
	if width > 0 && height > 0 {
		s.textWidth = width
		s.textHeight = height
	}
}

// Add assigns an id, stamps signature payloads with their content hash,
// appends the draft and returns the stored annotation.
func (s *Store) Add(draft models.Annotation) models.Annotation {
	draft.ID = uuid.NewString()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now()
	}
	if draft.Kind == models.KindSignature && draft.Image != nil && draft.Image.Hash == "" {
		draft.Image.Hash = utils.PayloadHash(draft.Image.Data)
	}

	s.annotations = append(s.annotations, draft.Clone())
	return draft
}

// Update merges the non-nil fields into the annotation with the given id.
// Unknown ids are a no-op; the bool reports whether anything changed.
func (s *Store) Update(id string, fields models.AnnotationUpdate) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}

	a := &s.annotations[idx]
	if fields.X != nil {
		a.X = *fields.X
	}
	if fields.Y != nil {
		a.Y = *fields.Y
	}
	if fields.Width != nil {
		a.Width = *fields.Width
	}
	if fields.Height != nil {
		a.Height = *fields.Height
	}
	if fields.Points != nil {
		a.Points = make([]models.Point, len(fields.Points))
		copy(a.Points, fields.Points)
	}
	if fields.Text != nil {
		a.Text = *fields.Text
	}
	if fields.Style != nil {
		a.Style = *fields.Style
	}
	return true
}

// Remove deletes the annotation with the given id. Unknown ids are a no-op.
func (s *Store) Remove(id string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.annotations = append(s.annotations[:idx], s.annotations[idx+1:]...)
	return true
}

func (s *Store) Get(id string) (models.Annotation, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return models.Annotation{}, false
	}
	return s.annotations[idx].Clone(), true
}

// Query returns the page's annotations in insertion (z) order.
func (s *Store) Query(page int) []models.Annotation {
	var out []models.Annotation
	for _, a := range s.annotations {
		if a.Page == page {
			out = append(out, a.Clone())
		}
	}
	return out
}

func (s *Store) Len() int {
	return len(s.annotations)
}

// HitTest returns the topmost annotation on the page containing the
// canonical-space point. Path kinds match by point-to-segment distance
// within a zoom-independent pixel threshold; box kinds by containment.
func (s *Store) HitTest(p models.Point, page int, zoom float64) (models.Annotation, bool) {
	if zoom <= 0 {
		zoom = 1
	}
	threshold := s.thresholdPx / zoom

	for i := len(s.annotations) - 1; i >= 0; i-- {
		a := s.annotations[i]
		if a.Page != page {
			continue
		}
		if s.hits(a, p, threshold) {
			return a.Clone(), true
		}
	}
	return models.Annotation{}, false
}

func (s *Store) hits(a models.Annotation, p models.Point, threshold float64) bool {
	if a.Kind.IsPath() {
		return pathHit(a.Points, p, threshold)
	}
	return s.boundsOf(a, threshold).Contains(p)
}

func pathHit(points []models.Point, p models.Point, threshold float64) bool {
	if len(points) == 0 {
		return false
	}
	if len(points) == 1 {
		return p.Distance(points[0]) <= threshold
	}
	for i := 0; i < len(points)-1; i++ {
		if p.DistanceToSegment(points[i], points[i+1]) <= threshold {
			return true
		}
	}
	return false
}

// boundsOf is the hit-test box for non-path kinds, with documented
// fallbacks so sizeless drafts remain targetable.
func (s *Store) boundsOf(a models.Annotation, threshold float64) models.Rect {
	w, h := a.Width, a.Height
	if w <= 0 || h <= 0 {
		if a.Kind.IsTextLike() {
			w, h = s.textWidth, s.textHeight
		} else {
			// Bare point: give it a threshold-sized box around the origin.
			return models.Rect{
				X:      a.X - threshold,
				Y:      a.Y - threshold,
				Width:  2 * threshold,
				Height: 2 * threshold,
			}
		}
	}
	return models.Rect{X: a.X, Y: a.Y, Width: w, Height: h}
}

// Snapshot deep-copies the full list for history capture.
func (s *Store) Snapshot() []models.Annotation {
	return models.CloneAnnotations(s.annotations)
}

// Restore replaces the list wholesale from a history snapshot.
func (s *Store) Restore(list []models.Annotation) {
	s.annotations = models.CloneAnnotations(list)
}

func (s *Store) indexOf(id string) int {
	for i, a := range s.annotations {
		if a.ID == id {
			return i
		}
	}
	return -1
}
