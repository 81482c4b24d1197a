package models_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/pagemark/pkg/models"
)

var _ = Describe("Models", func() {
	Context("geometry", func() {
		It("measures point distance", func() {
			a := models.Point{X: 0, Y: 0}
			b := models.Point{X: 3, Y: 4}
			Expect(a.Distance(b)).To(Equal(5.0))
		})

		DescribeTable("point-to-segment distance",
			func(p, segA, segB models.Point, want float64) {
				Expect(p.DistanceToSegment(segA, segB)).To(BeNumerically("~", want, 1e-9))
			},
			Entry("perpendicular drop onto the segment",
				models.Point{X: 5, Y: 3}, models.Point{X: 0, Y: 0}, models.Point{X: 10, Y: 0}, 3.0),
			Entry("past the end clamps to the endpoint",
				models.Point{X: 13, Y: 4}, models.Point{X: 0, Y: 0}, models.Point{X: 10, Y: 0}, 5.0),
			Entry("degenerate zero-length segment",
				models.Point{X: 3, Y: 4}, models.Point{X: 0, Y: 0}, models.Point{X: 0, Y: 0}, 5.0),
			Entry("point on the segment",
				models.Point{X: 5, Y: 0}, models.Point{X: 0, Y: 0}, models.Point{X: 10, Y: 0}, 0.0),
		)

		It("computes rect center and containment", func() {
			r := models.Rect{X: 10, Y: 20, Width: 30, Height: 5}
			Expect(r.Center()).To(Equal(models.Point{X: 25, Y: 22.5}))
			Expect(r.Contains(models.Point{X: 10, Y: 20})).To(BeTrue())
			Expect(r.Contains(models.Point{X: 40, Y: 25})).To(BeTrue())
			Expect(r.Contains(models.Point{X: 41, Y: 22})).To(BeFalse())
		})
	})

	Context("annotation cloning", func() {
		It("deep-copies points and image payloads", func() {
			original := models.Annotation{
				ID:     "a1",
				Kind:   models.KindSignature,
				Page:   1,
				Points: []models.Point{{X: 1, Y: 2}},
				Image: &models.ImagePayload{
					Data:   []byte{1, 2, 3},
					Bounds: models.Rect{Width: 80, Height: 40},
				},
			}

			clone := original.Clone()
			clone.Points[0].X = 99
			clone.Image.Data[0] = 77

			Expect(original.Points[0].X).To(Equal(1.0))
			Expect(original.Image.Data[0]).To(Equal(byte(1)))
		})
	})

	Context("snapshots", func() {
		It("only clones the slices it captured", func() {
			snap := models.Snapshot{
				Slices:    models.SliceRotations,
				Rotations: map[int]int{1: 90},
				// Order set but not captured; Clone must not copy it.
				Order: []int{3, 2, 1},
			}

			clone := snap.Clone()
			Expect(clone.Rotations).To(Equal(map[int]int{1: 90}))
			Expect(clone.Order).To(BeNil())
		})

		It("isolates cloned maps from the source", func() {
			snap := models.Snapshot{
				Slices:  models.SliceDeleted,
				Deleted: map[int]bool{2: true},
			}

			clone := snap.Clone()
			snap.Deleted[2] = false
			Expect(clone.Deleted[2]).To(BeTrue())
		})

		It("reports slice membership", func() {
			slices := models.SliceAnnotations | models.SliceOrder
			Expect(slices.Has(models.SliceAnnotations)).To(BeTrue())
			Expect(slices.Has(models.SliceOrder)).To(BeTrue())
			Expect(slices.Has(models.SliceGlobal)).To(BeFalse())
		})
	})
})
