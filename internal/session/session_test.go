package session_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/pagemark/internal/session"
	"github.com/kpauljoseph/pagemark/pkg/logger"
	"github.com/kpauljoseph/pagemark/pkg/models"
)

func sessionTestLogger() *logger.Logger {
	log := logger.New(
		logger.WithOutput(GinkgoWriter),
		logger.WithPrefix("[session-test] "),
		logger.WithFlags(0),
	)
	log.SetVerbose(true)
	return log
}

func threePageSession() *session.Session {
	dims := []models.PageDimensions{
		{Width: 595.28, Height: 841.89},
		{Width: 595.28, Height: 841.89},
		{Width: 595.28, Height: 841.89},
	}
	sess, err := session.New(dims, session.WithLogger(sessionTestLogger()))
	Expect(err).NotTo(HaveOccurred())
	return sess
}

var _ = Describe("Editing Session", func() {
	var sess *session.Session

	BeforeEach(func() {
		sess = threePageSession()
	})

	Context("construction", func() {
		It("rejects empty documents", func() {
			_, err := session.New(nil)
			Expect(err).To(HaveOccurred())
		})

		It("starts pristine", func() {
			Expect(sess.PageCount()).To(Equal(3))
			Expect(sess.VisibleOrder()).To(Equal([]int{1, 2, 3}))
			Expect(sess.CanUndo()).To(BeFalse())
			Expect(sess.CanRedo()).To(BeFalse())
		})
	})

	Context("annotation mutations", func() {
		It("records one history entry per committed mutation", func() {
			a, ok := sess.AddAnnotation(models.Annotation{
				Kind: models.KindHighlight, Page: 2,
				X: 10, Y: 20, Width: 30, Height: 5,
			})
			Expect(ok).To(BeTrue())
			Expect(sess.History()).To(HaveLen(1))

			w := 40.0
			Expect(sess.UpdateAnnotation(a.ID, models.AnnotationUpdate{Width: &w})).To(BeTrue())
			Expect(sess.DeleteAnnotation(a.ID)).To(BeTrue())
			Expect(sess.History()).To(HaveLen(3))
		})

		It("discards drafts below the minimum-size threshold without history", func() {
			_, ok := sess.AddAnnotation(models.Annotation{
				Kind: models.KindRectangle, Page: 1,
				X: 10, Y: 10, Width: 1, Height: 1,
			})
			Expect(ok).To(BeFalse())
			Expect(sess.History()).To(BeEmpty())

			_, ok = sess.AddAnnotation(models.Annotation{
				Kind: models.KindFreehand, Page: 1,
				Points: []models.Point{{X: 1, Y: 1}},
			})
			Expect(ok).To(BeFalse())
			Expect(sess.History()).To(BeEmpty())
		})

		It("treats unknown ids as quiet no-ops with no history entry", func() {
			x := 5.0
			Expect(sess.UpdateAnnotation("missing", models.AnnotationUpdate{X: &x})).To(BeFalse())
			Expect(sess.DeleteAnnotation("missing")).To(BeFalse())
			Expect(sess.History()).To(BeEmpty())
		})

		It("allows sizeless text drafts", func() {
			_, ok := sess.AddAnnotation(models.Annotation{
				Kind: models.KindFreeText, Page: 1, X: 50, Y: 60, Text: "note",
			})
			Expect(ok).To(BeTrue())
		})
	})

	Context("page mutation guards", func() {
		It("rejects deleting the last visible page with no state change", func() {
			Expect(sess.DeletePage(1)).To(BeTrue())
			Expect(sess.DeletePage(2)).To(BeTrue())

			Expect(sess.DeletePage(3)).To(BeFalse())
			Expect(sess.VisibleOrder()).To(Equal([]int{3}))
			Expect(sess.History()).To(HaveLen(2))
		})

		It("rejects non-quarter-turn rotation deltas", func() {
			Expect(sess.RotatePage(1, 45)).To(BeFalse())
			Expect(sess.SetGlobalRotation(30)).To(BeFalse())
			Expect(sess.History()).To(BeEmpty())
		})

		It("records restore as its own undoable action", func() {
			Expect(sess.DeletePage(2)).To(BeTrue())
			Expect(sess.RestorePage(2)).To(BeTrue())
			Expect(sess.VisibleOrder()).To(Equal([]int{1, 2, 3}))
			Expect(sess.History()).To(HaveLen(2))

			Expect(sess.Undo()).To(BeTrue())
			Expect(sess.VisibleOrder()).To(Equal([]int{1, 3}))
		})

		It("ignores deleting an already-deleted page and restoring a visible one", func() {
			Expect(sess.DeletePage(2)).To(BeTrue())
			Expect(sess.DeletePage(2)).To(BeFalse())
			Expect(sess.RestorePage(1)).To(BeFalse())
			Expect(sess.History()).To(HaveLen(1))
		})
	})

	Context("rotation views", func() {
		It("combines global and per-page rotation per page", func() {
			Expect(sess.RotatePage(2, 90)).To(BeTrue())
			Expect(sess.SetGlobalRotation(180)).To(BeTrue())

			Expect(sess.EffectiveRotation(1)).To(Equal(180))
			Expect(sess.EffectiveRotation(2)).To(Equal(270))
		})

		It("normalizes global rotation mod 360", func() {
			Expect(sess.SetGlobalRotation(450)).To(BeTrue())
			Expect(sess.GlobalRotation()).To(Equal(90))
		})
	})

	Context("undo and redo across heterogeneous edits", func() {
		It("restores only the slices each action touched", func() {
			a, _ := sess.AddAnnotation(models.Annotation{
				Kind: models.KindHighlight, Page: 2, X: 10, Y: 20, Width: 30, Height: 5,
			})
			Expect(sess.RotatePage(2, 90)).To(BeTrue())

			// Undo the rotation: the annotation must survive untouched.
			Expect(sess.Undo()).To(BeTrue())
			Expect(sess.EffectiveRotation(2)).To(Equal(0))
			Expect(sess.Annotations(2)).To(HaveLen(1))
			Expect(sess.Annotations(2)[0].ID).To(Equal(a.ID))

			// Undo the add: rotation state stays reverted.
			Expect(sess.Undo()).To(BeTrue())
			Expect(sess.Annotations(2)).To(BeEmpty())
			Expect(sess.CanUndo()).To(BeFalse())

			// Redo both.
			Expect(sess.Redo()).To(BeTrue())
			Expect(sess.Redo()).To(BeTrue())
			Expect(sess.Annotations(2)).To(HaveLen(1))
			Expect(sess.EffectiveRotation(2)).To(Equal(90))
		})

		It("restores a deleted annotation from snapshot with its original id", func() {
			a, _ := sess.AddAnnotation(models.Annotation{
				Kind: models.KindHighlight, Page: 1, X: 1, Y: 2, Width: 30, Height: 5,
			})
			Expect(sess.DeleteAnnotation(a.ID)).To(BeTrue())

			Expect(sess.Undo()).To(BeTrue())
			got := sess.Annotations(1)
			Expect(got).To(HaveLen(1))
			Expect(got[0].ID).To(Equal(a.ID))
		})

		It("restores a reorder from snapshot, not by algebraic inverse", func() {
			Expect(sess.ReorderPages(2, 0)).To(BeTrue())
			Expect(sess.VisibleOrder()).To(Equal([]int{3, 1, 2}))

			Expect(sess.Undo()).To(BeTrue())
			Expect(sess.VisibleOrder()).To(Equal([]int{1, 2, 3}))

			Expect(sess.Redo()).To(BeTrue())
			Expect(sess.VisibleOrder()).To(Equal([]int{3, 1, 2}))
		})
	})

	Context("end-to-end scenario", func() {
		It("runs the three-page editing walkthrough", func() {
			_, ok := sess.AddAnnotation(models.Annotation{
				Kind: models.KindHighlight, Page: 2,
				X: 10, Y: 20, Width: 30, Height: 5,
			})
			Expect(ok).To(BeTrue())
			Expect(sess.History()).To(HaveLen(1))

			Expect(sess.RotatePage(2, 90)).To(BeTrue())
			Expect(sess.EffectiveRotation(2)).To(Equal(90))

			highlight := sess.Annotations(2)[0]
			box, found := sess.ViewBox(highlight.ID)
			Expect(found).To(BeTrue())
			Expect(box.Width).To(Equal(5.0))
			Expect(box.Height).To(Equal(30.0))

			Expect(sess.Undo()).To(BeTrue())
			Expect(sess.EffectiveRotation(2)).To(Equal(0))
			box, _ = sess.ViewBox(highlight.ID)
			Expect(box.Width).To(Equal(30.0))
			Expect(box.Height).To(Equal(5.0))

			Expect(sess.DeletePage(1)).To(BeTrue())
			Expect(sess.VisibleOrder()).To(Equal([]int{2, 3}))

			Expect(sess.Undo()).To(BeTrue())
			Expect(sess.VisibleOrder()).To(Equal([]int{1, 2, 3}))
		})
	})

	Context("hit testing through the session", func() {
		It("applies the session zoom to the path threshold", func() {
			_, ok := sess.AddAnnotation(models.Annotation{
				Kind: models.KindArrow, Page: 1,
				Points: []models.Point{{X: 0, Y: 0}, {X: 100, Y: 0}},
			})
			Expect(ok).To(BeTrue())

			_, hit := sess.HitTest(models.Point{X: 50, Y: 8}, 1)
			Expect(hit).To(BeTrue())

			sess.SetZoom(2.0)
			_, hit = sess.HitTest(models.Point{X: 50, Y: 8}, 1)
			Expect(hit).To(BeFalse())
		})
	})

	Context("viewport state", func() {
		It("is not recorded in history", func() {
			sess.SetZoom(1.5)
			Expect(sess.GoToPage(3)).To(BeTrue())
			Expect(sess.History()).To(BeEmpty())
		})

		It("refuses navigating to deleted pages", func() {
			Expect(sess.DeletePage(3)).To(BeTrue())
			Expect(sess.GoToPage(3)).To(BeFalse())
			Expect(sess.CurrentPage()).To(Equal(1))
		})
	})

	Context("save bundle", func() {
		It("excludes deleted pages and reports effective rotations", func() {
			_, ok := sess.AddAnnotation(models.Annotation{
				Kind: models.KindRectangle, Page: 2, X: 5, Y: 5, Width: 50, Height: 20,
			})
			Expect(ok).To(BeTrue())
			Expect(sess.RotatePage(2, 90)).To(BeTrue())
			Expect(sess.SetGlobalRotation(90)).To(BeTrue())
			Expect(sess.DeletePage(1)).To(BeTrue())
			Expect(sess.ReorderPages(2, 1)).To(BeTrue())

			bundle := sess.SaveBundle()
			Expect(bundle.PageOrder).To(Equal([]int{3, 2}))
			Expect(bundle.Rotations).To(Equal(map[int]int{2: 180, 3: 90}))
			Expect(bundle.Annotations).To(HaveLen(1))
			Expect(bundle.Annotations[0].X).To(Equal(5.0))
		})
	})
})
