package physics

import (
	"reflect"
	"testing"

	"github.com/san-kum/trisolaris/internal/dynamo"
	"github.com/san-kum/trisolaris/internal/scenario"
)

func TestAccelPool_GetReturnsZeroedBuffer(t *testing.T) {
	p := NewAccelPool()

	buf := p.Get(3)
	if len(*buf) != 3 {
		t.Fatalf("expected length 3, got %d", len(*buf))
	}
	for i := range *buf {
		(*buf)[i] = dynamo.Vec2{X: 7, Y: 7}
	}
	p.Put(buf)

	for _, n := range []int{2, 3, 20} {
		got := p.Get(n)
		if len(*got) != n {
			t.Errorf("expected length %d, got %d", n, len(*got))
		}
		for i, v := range *got {
			if v != (dynamo.Vec2{}) {
				t.Errorf("n=%d: entry %d not zeroed: %+v", n, i, v)
			}
		}
		p.Put(got)
	}
}

func TestStep_ReusedBuffersAcrossSetSizes(t *testing.T) {
	four := scenario.Generate(scenario.StableFigure8, 1200, 800, nil)
	two := dynamo.Bodies{
		{ID: "a", Mass: 100, Position: dynamo.Vec2{X: 0, Y: 0}},
		{ID: "b", Mass: 100, Position: dynamo.Vec2{X: 100, Y: 0}},
	}

	wantFour := Step(four, defaultG, defaultSoftening, defaultDt, Never)
	wantTwo := Step(two, defaultG, defaultSoftening, defaultDt, Never)
	for i := 0; i < 5; i++ {
		if got := Step(two, defaultG, defaultSoftening, defaultDt, Never); !reflect.DeepEqual(got, wantTwo) {
			t.Fatalf("two-body step changed on pass %d", i)
		}
		if got := Step(four, defaultG, defaultSoftening, defaultDt, Never); !reflect.DeepEqual(got, wantFour) {
			t.Fatalf("four-body step changed on pass %d", i)
		}
	}
}
