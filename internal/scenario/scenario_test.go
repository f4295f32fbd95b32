package scenario

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/san-kum/trisolaris/internal/dynamo"
)

func TestGenerate_FigureEightMomentum(t *testing.T) {
	bodies := Generate(StableFigure8, 1200, 800, nil)
	p := bodies.Suns().Momentum()
	if math.Abs(p.X) > 1e-9 || math.Abs(p.Y) > 1e-9 {
		t.Errorf("expected zero sun momentum, got %v", p)
	}
}

func TestGenerate_FigureEightConstants(t *testing.T) {
	bodies := Generate(StableFigure8, 1200, 800, nil)
	want := []dynamo.Vec2{
		{X: 600 + 97.000436, Y: 400 - 24.308753},
		{X: 600 - 97.000436, Y: 400 + 24.308753},
		{X: 600, Y: 400},
		{X: 650, Y: 450},
	}
	for i, w := range want {
		if bodies[i].Position != w {
			t.Errorf("%s position = %v, want %v", bodies[i].ID, bodies[i].Position, w)
		}
	}
	if v := bodies[2].Velocity; v.X != -2*0.4662036850 || v.Y != -2*0.4323657300 {
		t.Errorf("sun3 velocity = %v", v)
	}
}

func TestGenerate_HierarchicalCenter(t *testing.T) {
	bodies := Generate(Hierarchical, 1200, 800, nil)
	sun1 := bodies[0]
	if sun1.ID != "sun1" {
		t.Fatalf("expected sun1 first, got %s", sun1.ID)
	}
	if sun1.Position != (dynamo.Vec2{X: 600, Y: 400}) {
		t.Errorf("sun1 position = %v, want (600,400)", sun1.Position)
	}
	if sun1.Velocity != (dynamo.Vec2{}) {
		t.Errorf("sun1 velocity = %v, want (0,0)", sun1.Velocity)
	}
	if sun1.Mass != 5000 {
		t.Errorf("sun1 mass = %v, want 5000", sun1.Mass)
	}
}

func TestGenerate_Shape(t *testing.T) {
	for _, p := range All() {
		t.Run(string(p), func(t *testing.T) {
			bodies := Generate(p, 1000, 1000, rand.New(rand.NewSource(1)))
			if len(bodies) != 4 {
				t.Fatalf("expected 4 bodies, got %d", len(bodies))
			}
			planets := 0
			for _, b := range bodies {
				if len(b.Trail) != 0 {
					t.Errorf("%s: expected empty trail", b.ID)
				}
				if b.IsPlanet {
					planets++
					if b.Mass != PlanetMass || b.Radius != PlanetRadius {
						t.Errorf("planet mass/radius = %v/%v", b.Mass, b.Radius)
					}
					continue
				}
				if want := math.Sqrt(b.Mass) * 2; b.Radius != want {
					t.Errorf("%s radius = %v, want %v", b.ID, b.Radius, want)
				}
			}
			if planets != 1 {
				t.Errorf("expected exactly one planet, got %d", planets)
			}
		})
	}
}

func TestGenerate_ChaoticRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 50; n++ {
		bodies := Generate(ChaoticRandom, 1200, 800, rng)
		for _, b := range bodies.Suns() {
			if d := b.Position.Sub(dynamo.Vec2{X: 600, Y: 400}); math.Abs(d.X) > 150 || math.Abs(d.Y) > 150 {
				t.Fatalf("%s offset out of range: %v", b.ID, d)
			}
			if b.Mass < 800 || b.Mass > 1200 {
				t.Fatalf("%s mass out of range: %v", b.ID, b.Mass)
			}
			if math.Abs(b.Velocity.X) > 0.5 || math.Abs(b.Velocity.Y) > 0.5 {
				t.Fatalf("%s velocity out of range: %v", b.ID, b.Velocity)
			}
		}
		p, _ := bodies.Planet()
		if p.Position != (dynamo.Vec2{X: 600, Y: 400}) {
			t.Fatalf("planet not centered: %v", p.Position)
		}
		if math.Abs(p.Velocity.X) > 1 || math.Abs(p.Velocity.Y) > 1 {
			t.Fatalf("planet velocity out of range: %v", p.Velocity)
		}
	}
}

func TestGenerate_ChaoticSeeded(t *testing.T) {
	a := Generate(ChaoticRandom, 1200, 800, rand.New(rand.NewSource(42)))
	b := Generate(ChaoticRandom, 1200, 800, rand.New(rand.NewSource(42)))
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed should give the same scenario")
	}
}

func TestGenerate_UnknownFallsBackToChaotic(t *testing.T) {
	a := Generate(Preset("nope"), 1200, 800, rand.New(rand.NewSource(3)))
	b := Generate(ChaoticRandom, 1200, 800, rand.New(rand.NewSource(3)))
	if !reflect.DeepEqual(a, b) {
		t.Error("unknown preset should fall back to Chaotic Random")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Preset
	}{
		{"figure8", StableFigure8},
		{"Stable Figure-8", StableFigure8},
		{"RANDOM", ChaoticRandom},
		{" hierarchical ", Hierarchical},
		{"collision course", CollisionCourse},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := Parse("binary"); !errors.Is(err, dynamo.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestSlugRoundTrip(t *testing.T) {
	for _, p := range All() {
		got, err := Parse(p.Slug())
		if err != nil || got != p {
			t.Errorf("Parse(%q) = %q, %v", p.Slug(), got, err)
		}
	}
}
