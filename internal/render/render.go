// Package render is the rendering collaborator: page number + effective
// rotation + zoom in, rasterized surface out. Annotation geometry never
// passes through here; the transform package is the only translator
// between surface pixels and stored coordinates.
package render

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"

	"github.com/kpauljoseph/pagemark/internal/transform"
	"github.com/kpauljoseph/pagemark/pkg/logger"
	"github.com/kpauljoseph/pagemark/pkg/models"
)

const baseDPI = 72.0

type Document struct {
	doc  *fitz.Document
	path string
	log  *logger.Logger
}

func Open(path string, log *logger.Logger) (*Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &Document{doc: doc, path: path, log: log}, nil
}

func (d *Document) Path() string {
	return d.path
}

func (d *Document) PageCount() int {
	return d.doc.NumPage()
}

// PageSize returns the canonical (0° rotation) dimensions of a source page
// in points. Pages are 1-based here; fitz indexes from zero.
func (d *Document) PageSize(page int) (models.PageDimensions, error) {
	bounds, err := d.doc.Bound(page - 1)
	if err != nil {
		return models.PageDimensions{}, fmt.Errorf("failed to get bounds for page %d: %w", page, err)
	}
	return models.PageDimensions{
		Width:  float64(bounds.Dx()),
		Height: float64(bounds.Dy()),
	}, nil
}

// PageSizes returns dimensions for every page, ready to seed a session.
func (d *Document) PageSizes() ([]models.PageDimensions, error) {
	dims := make([]models.PageDimensions, 0, d.doc.NumPage())
	for page := 1; page <= d.doc.NumPage(); page++ {
		dim, err := d.PageSize(page)
		if err != nil {
			return nil, err
		}
		dims = append(dims, dim)
	}
	return dims, nil
}

// RenderPage rasterizes a page at the given zoom, then applies the
// effective rotation as a quarter-turn pixel rotation.
func (d *Document) RenderPage(ctx context.Context, page, rotation int, zoom float64) (*image.RGBA, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if zoom <= 0 {
		zoom = 1
	}

	img, err := d.doc.ImageDPI(page-1, baseDPI*zoom)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", page, err)
	}

	d.log.Trace("rendered page %d at zoom %.2f, rotation %d", page, zoom, rotation)
	return RotateImage(img, rotation), nil
}

// Text extracts the page's searchable text.
func (d *Document) Text(page int) (string, error) {
	text, err := d.doc.Text(page - 1)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", page, err)
	}
	return text, nil
}

func (d *Document) Close() error {
	return d.doc.Close()
}

// RotateImage rotates an RGBA image by a quarter-turn multiple, clockwise.
func RotateImage(src *image.RGBA, rotation int) *image.RGBA {
	rotation = transform.Normalize(rotation)
	if rotation == 0 {
		return src
	}

	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	var dst *image.RGBA
	switch rotation {
	case 90:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		for y := 0; y < w; y++ {
			for x := 0; x < h; x++ {
				dst.Set(x, y, src.At(bounds.Min.X+y, bounds.Min.Y+h-1-x))
			}
		}
	case 180:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.Set(x, y, src.At(bounds.Min.X+w-1-x, bounds.Min.Y+h-1-y))
			}
		}
	case 270:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		for y := 0; y < w; y++ {
			for x := 0; x < h; x++ {
				dst.Set(x, y, src.At(bounds.Min.X+w-1-y, bounds.Min.Y+x))
			}
		}
	}
	return dst
}
