package models

import "time"

type AnnotationKind string

const (
	KindHighlight AnnotationKind = "highlight"
	KindFreeText  AnnotationKind = "freetext"
	KindFreehand  AnnotationKind = "freehand"
	KindRectangle AnnotationKind = "rectangle"
	KindEllipse   AnnotationKind = "ellipse"
	KindArrow     AnnotationKind = "arrow"
	KindSignature AnnotationKind = "signature"
)

// IsPath reports whether the kind is stored as an ordered point sequence
// rather than an origin plus dimensions.
func (k AnnotationKind) IsPath() bool {
	return k == KindFreehand || k == KindArrow
}

// IsTextLike reports whether the kind renders text and may be created
// without explicit dimensions.
func (k AnnotationKind) IsTextLike() bool {
	return k == KindFreeText
}

type Style struct {
	Color    string  `json:"color,omitempty"`
	Opacity  float64 `json:"opacity,omitempty"`
	FontSize float64 `json:"font_size,omitempty"`
	FontName string  `json:"font_name,omitempty"`
}

// ImagePayload carries the raster for signature annotations. Bounds is the
// canonical-space box the raster is drawn into.
type ImagePayload struct {
	Data   []byte `json:"data,omitempty"`
	Hash   string `json:"hash,omitempty"`
	Bounds Rect   `json:"bounds"`
}

// Annotation geometry is always canonical page space (0° rotation, scale 1).
// Page is the stable source page number, not the display index.
type Annotation struct {
	ID        string         `json:"id"`
	Kind      AnnotationKind `json:"kind"`
	Page      int            `json:"page"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Width     float64        `json:"width,omitempty"`
	Height    float64        `json:"height,omitempty"`
	Points    []Point        `json:"points,omitempty"`
	Text      string         `json:"text,omitempty"`
	Style     Style          `json:"style"`
	Image     *ImagePayload  `json:"image,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func (a Annotation) Clone() Annotation {
	clone := a
	if a.Points != nil {
		clone.Points = make([]Point, len(a.Points))
		copy(clone.Points, a.Points)
	}
	if a.Image != nil {
		img := *a.Image
		if a.Image.Data != nil {
			img.Data = make([]byte, len(a.Image.Data))
			copy(img.Data, a.Image.Data)
		}
		clone.Image = &img
	}
	return clone
}

func CloneAnnotations(list []Annotation) []Annotation {
	out := make([]Annotation, len(list))
	for i, a := range list {
		out[i] = a.Clone()
	}
	return out
}

// AnnotationUpdate is a partial field merge; nil fields are left untouched.
type AnnotationUpdate struct {
	X      *float64
	Y      *float64
	Width  *float64
	Height *float64
	Points []Point
	Text   *string
	Style  *Style
}
