package view_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/trisolaris/internal/dynamo"
	"github.com/san-kum/trisolaris/internal/scenario"
	"github.com/san-kum/trisolaris/internal/view"
)

var _ = Describe("Project", func() {
	It("is a pure translation at the default view", func() {
		cam := view.NewCamera()
		for _, p := range []dynamo.Vec2{{X: 0, Y: 0}, {X: 123.5, Y: -7.25}, {X: -600, Y: 400}} {
			got := view.Project(cam, 600, 400, p.X, p.Y)
			Expect(got.X).To(Equal(600 + p.X))
			Expect(got.Y).To(Equal(400 + p.Y))
		}
	})

	It("applies pan after rotation and zoom", func() {
		cam := view.NewCamera()
		cam.Zoom = 2
		cam.Pan = dynamo.Vec2{X: 5, Y: -5}
		got := view.Project(cam, 100, 100, 10, 20)
		Expect(got.X).To(Equal(100 + 5 + 20.0))
		Expect(got.Y).To(Equal(100 - 5 + 40.0))
	})

	It("rotates by yaw", func() {
		cam := view.NewCamera()
		cam.Yaw = math.Pi / 2
		got := view.Project(cam, 0, 0, 10, 0)
		Expect(got.X).To(BeNumerically("~", 0, 1e-9))
		Expect(got.Y).To(BeNumerically("~", 10, 1e-9))
	})

	It("foreshortens y and produces depth under pitch", func() {
		cam := view.NewCamera()
		cam.Pitch = 1.0
		got := view.Project(cam, 0, 0, 0, 10)
		Expect(got.Y).To(BeNumerically("~", 10*math.Cos(1.0), 1e-12))
		Expect(got.Depth).To(BeNumerically("~", 10*math.Sin(1.0), 1e-12))
	})

	It("keeps size independent of depth", func() {
		cam := view.NewCamera()
		cam.Pitch = 1.2
		cam.Zoom = 3
		bodies := dynamo.Bodies{
			{ID: "near", Position: dynamo.Vec2{Y: -100}, Radius: 4},
			{ID: "far", Position: dynamo.Vec2{Y: 100}, Radius: 4},
		}
		items := view.BuildFrame(cam, bodies, 200, 200)
		Expect(items).To(HaveLen(2))
		Expect(items[0].Radius).To(Equal(items[1].Radius))
		Expect(items[0].Radius).To(Equal(12.0))
	})
})

var _ = Describe("BuildFrame", func() {
	var bodies dynamo.Bodies

	BeforeEach(func() {
		bodies = scenario.Generate(scenario.StableFigure8, 1200, 800, nil)
		for i := range bodies {
			p := bodies[i].Position
			bodies[i].Trail = dynamo.Trail{p.Sub(dynamo.Vec2{X: 2}), p.Sub(dynamo.Vec2{X: 1}), p}
		}
	})

	It("sorts back to front by depth", func() {
		cam := view.NewCamera()
		cam.Pitch = 0.8
		cam.Yaw = 0.3
		items := view.BuildFrame(cam, bodies, 1200, 800)
		Expect(items).To(HaveLen(4))
		for i := 1; i < len(items); i++ {
			Expect(items[i-1].Center.Depth).To(BeNumerically("<=", items[i].Center.Depth))
		}
	})

	It("gives the same order on repeated passes", func() {
		cam := view.NewCamera()
		cam.Pitch = -0.6
		first := view.BuildFrame(cam, bodies, 1200, 800)
		for n := 0; n < 20; n++ {
			again := view.BuildFrame(cam, bodies, 1200, 800)
			Expect(ids(again)).To(Equal(ids(first)))
		}
	})

	It("offsets already-centered world positions by the screen center again", func() {
		items := view.BuildFrame(view.NewCamera(), bodies, 1200, 800)
		Expect(items[2].ID).To(Equal("sun3"))
		Expect(items[2].Center.X).To(BeNumerically("~", 1200, 1e-9))
		Expect(items[2].Center.Y).To(BeNumerically("~", 800, 1e-9))
	})

	It("keeps input order for equal depths", func() {
		items := view.BuildFrame(view.NewCamera(), bodies, 1200, 800)
		Expect(ids(items)).To(Equal([]string{"sun1", "sun2", "sun3", "trisolaris"}))
	})

	It("styles planets and suns differently", func() {
		cam := view.NewCamera()
		cam.Zoom = 2
		items := view.BuildFrame(cam, bodies, 1200, 800)
		for _, it := range items {
			if it.IsPlanet {
				Expect(it.Glow).To(Equal(5.0))
				Expect(it.TrailAlpha).To(Equal(0.5))
				Expect(it.TrailWidth).To(BeNumerically("~", 1/math.Pow(2, 0.2), 1e-12))
				Expect(it.Label).To(BeEmpty())
				Expect(it.Radius).To(Equal(10.0))
			} else {
				Expect(it.Glow).To(Equal(30.0))
				Expect(it.TrailAlpha).To(Equal(0.3))
				Expect(it.TrailWidth).To(BeNumerically("~", 2/math.Pow(2, 0.2), 1e-12))
				Expect(it.Label).To(Equal(it.ID))
			}
			Expect(it.Trail).To(HaveLen(3))
		}
	})

	It("hides labels when zoomed far out", func() {
		cam := view.NewCamera()
		cam.Zoom = 0.15
		for _, it := range view.BuildFrame(cam, bodies, 1200, 800) {
			Expect(it.Label).To(BeEmpty())
		}
	})

	It("omits trails with fewer than two points", func() {
		bodies[0].Trail = dynamo.Trail{bodies[0].Position}
		items := view.BuildFrame(view.NewCamera(), bodies, 1200, 800)
		Expect(items[0].ID).To(Equal("sun1"))
		Expect(items[0].Trail).To(BeNil())
	})

	It("skips bodies with non-finite positions", func() {
		bodies[1].Position.X = math.NaN()
		items := view.BuildFrame(view.NewCamera(), bodies, 1200, 800)
		Expect(ids(items)).NotTo(ContainElement("sun2"))
		Expect(items).To(HaveLen(3))
	})
})

var _ = Describe("Starfield", func() {
	It("is deterministic with a fixed count", func() {
		a := view.Starfield(view.StarCount, 800, 600, 0)
		b := view.Starfield(view.StarCount, 800, 600, 0)
		Expect(a).To(HaveLen(80))
		Expect(a).To(Equal(b))
		for _, s := range a {
			Expect(s.X).To(And(BeNumerically(">=", 0), BeNumerically("<", 800)))
			Expect(s.Y).To(And(BeNumerically(">=", 0), BeNumerically("<", 600)))
			Expect(s.Brightness).To(And(BeNumerically(">=", 0.1), BeNumerically("<=", 0.6)))
		}
	})

	It("counter-rotates with a tenth of the yaw", func() {
		still := view.Starfield(10, 800, 600, 0)
		turned := view.Starfield(10, 800, 600, math.Pi)
		for i := range still {
			dx0, dy0 := still[i].X-400, still[i].Y-300
			dx1, dy1 := turned[i].X-400, turned[i].Y-300
			Expect(math.Hypot(dx1, dy1)).To(BeNumerically("~", math.Hypot(dx0, dy0), 1e-9))
			angle := math.Atan2(dy1, dx1) - math.Atan2(dy0, dx0)
			Expect(math.Cos(angle)).To(BeNumerically("~", math.Cos(math.Pi/10), 1e-9))
		}
	})
})

var _ = Describe("HUD", func() {
	It("formats the camera readout", func() {
		cam := view.NewCamera()
		cam.Pitch = math.Pi / 4
		cam.Pan = dynamo.Vec2{X: 12.4, Y: -3}
		lines := view.HUD(cam, 59.6)
		Expect(lines[0]).To(Equal("Zoom: 1.00x | Pitch: 45° | Yaw: 0°"))
		Expect(lines[1]).To(Equal("Pan: 12, -3 | FPS: 60"))
	})
})

func ids(items []view.DrawItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
