package view_test

import (
	"math"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/trisolaris/internal/dynamo"
	"github.com/san-kum/trisolaris/internal/view"
)

var _ = Describe("Camera", func() {
	var cam view.Camera

	BeforeEach(func() {
		cam = view.NewCamera()
	})

	Describe("dragging", func() {
		It("pans by the pointer delta since the last sample", func() {
			cam.BeginDrag(dynamo.Vec2{X: 10, Y: 10})
			cam.Drag(dynamo.Vec2{X: 15, Y: 7})
			cam.Drag(dynamo.Vec2{X: 20, Y: 9})
			Expect(cam.Pan).To(Equal(dynamo.Vec2{X: 10, Y: -1}))
			Expect(cam.LastPointer).To(Equal(dynamo.Vec2{X: 20, Y: 9}))
		})

		It("ignores motion after the drag ends", func() {
			cam.BeginDrag(dynamo.Vec2{})
			cam.Drag(dynamo.Vec2{X: 4, Y: 4})
			cam.EndDrag()
			cam.Drag(dynamo.Vec2{X: 100, Y: 100})
			Expect(cam.Dragging).To(BeFalse())
			Expect(cam.Pan).To(Equal(dynamo.Vec2{X: 4, Y: 4}))
		})
	})

	Describe("ZoomBy", func() {
		It("scales multiplicatively", func() {
			cam.ZoomBy(100)
			Expect(cam.Zoom).To(BeNumerically("~", 0.9, 1e-12))
			cam.ZoomBy(-100)
			Expect(cam.Zoom).To(BeNumerically("~", 0.99, 1e-12))
		})

		It("stays within bounds under extreme input", func() {
			deltas := []float64{1e308, -1e308, math.Inf(1), math.Inf(-1), math.NaN(), 999, -999, 0}
			for _, d := range deltas {
				cam.ZoomBy(d)
				Expect(cam.Zoom).To(BeNumerically(">=", view.MinZoom))
				Expect(cam.Zoom).To(BeNumerically("<=", view.MaxZoom))
			}
		})

		It("stays within bounds under random sequences", func() {
			rng := rand.New(rand.NewSource(5))
			for i := 0; i < 10000; i++ {
				cam.ZoomBy((rng.Float64() - 0.5) * 4000)
				Expect(cam.Zoom).To(And(
					BeNumerically(">=", view.MinZoom),
					BeNumerically("<=", view.MaxZoom),
				))
			}
		})
	})

	Describe("Rotate", func() {
		It("turns yaw in both directions without bound", func() {
			for i := 0; i < 1000; i++ {
				cam.Rotate(view.KeySet{RotateLeft: true})
			}
			Expect(cam.Yaw).To(BeNumerically("~", 30, 1e-9))
			cam.Rotate(view.KeySet{RotateRight: true})
			Expect(cam.Yaw).To(BeNumerically("~", 29.97, 1e-9))
		})

		It("clamps pitch", func() {
			for i := 0; i < 200; i++ {
				cam.Rotate(view.KeySet{TiltUp: true})
				Expect(cam.Pitch).To(BeNumerically("<=", view.MaxPitch))
			}
			Expect(cam.Pitch).To(Equal(view.MaxPitch))

			for i := 0; i < 200; i++ {
				cam.Rotate(view.KeySet{TiltDown: true})
				Expect(cam.Pitch).To(BeNumerically(">=", -view.MaxPitch))
			}
			Expect(cam.Pitch).To(Equal(-view.MaxPitch))
		})

		It("keeps pitch bounded under random key sequences", func() {
			rng := rand.New(rand.NewSource(8))
			for i := 0; i < 5000; i++ {
				cam.Rotate(view.KeySet{
					RotateLeft: rng.Intn(2) == 0,
					TiltUp:     rng.Intn(3) == 0,
					TiltDown:   rng.Intn(3) == 0,
				})
				Expect(math.Abs(cam.Pitch)).To(BeNumerically("<=", view.MaxPitch))
			}
		})

		It("does nothing without keys", func() {
			cam.Rotate(view.KeySet{})
			Expect(cam).To(Equal(view.NewCamera()))
		})
	})

	It("resets pan, zoom, yaw and pitch", func() {
		cam.BeginDrag(dynamo.Vec2{})
		cam.Drag(dynamo.Vec2{X: 3, Y: 3})
		cam.EndDrag()
		cam.ZoomBy(-500)
		cam.Rotate(view.KeySet{RotateLeft: true, TiltUp: true})

		cam.Reset()
		Expect(cam.Pan).To(Equal(dynamo.Vec2{}))
		Expect(cam.Zoom).To(Equal(1.0))
		Expect(cam.Yaw).To(BeZero())
		Expect(cam.Pitch).To(BeZero())
	})
})

var _ = Describe("HeldKeys", func() {
	It("treats a press as held until the hold window passes", func() {
		var h view.HeldKeys
		t0 := time.Unix(100, 0)
		h.Press(view.KeyTiltUp, t0)

		Expect(h.Keys(t0.Add(50 * time.Millisecond)).TiltUp).To(BeTrue())
		Expect(h.Keys(t0.Add(view.HoldWindow + time.Millisecond)).TiltUp).To(BeFalse())
	})

	It("extends the hold on repeat and clears on release", func() {
		var h view.HeldKeys
		t0 := time.Unix(100, 0)
		h.Press(view.KeyRotateLeft, t0)
		h.Press(view.KeyRotateLeft, t0.Add(150*time.Millisecond))
		Expect(h.Keys(t0.Add(300 * time.Millisecond)).RotateLeft).To(BeTrue())

		h.Release(view.KeyRotateLeft)
		Expect(h.Keys(t0.Add(300 * time.Millisecond)).Any()).To(BeFalse())
	})

	DescribeTable("maps terminal keys",
		func(s string, want view.Key) {
			k, ok := view.KeyFor(s)
			Expect(ok).To(BeTrue())
			Expect(k).To(Equal(want))
		},
		Entry("a", "a", view.KeyRotateLeft),
		Entry("d", "d", view.KeyRotateRight),
		Entry("w", "w", view.KeyTiltUp),
		Entry("s", "s", view.KeyTiltDown),
		Entry("left arrow", "left", view.KeyRotateLeft),
	)

	It("rejects unrelated keys", func() {
		_, ok := view.KeyFor("q")
		Expect(ok).To(BeFalse())
	})
})
