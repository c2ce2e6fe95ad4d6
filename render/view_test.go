package render

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

func TestToScreen(t *testing.T) {
	v := View{Scale: 40, Height: 720}
	cases := []struct {
		name   string
		in     cp.Vector
		wx, wy float32
	}{
		{"origin", cp.Vector{}, 0, 720},
		{"top_right", cp.Vector{X: 32, Y: 18}, 1280, 0},
		{"middle", cp.Vector{X: 16, Y: 9}, 640, 360},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			x, y := v.ToScreen(c.in)
			if x != c.wx || y != c.wy {
				t.Fatalf("ToScreen(%v) = (%v, %v), want (%v, %v)", c.in, x, y, c.wx, c.wy)
			}
		})
	}
}

func TestPlace(t *testing.T) {
	got := Place(cp.Vector{X: 1}, cp.Vector{X: 2, Y: 3}, math.Pi/2)
	if got.Distance(cp.Vector{X: 2, Y: 4}) > 1e-9 {
		t.Fatalf("Place rotated to %v, want (2, 4)", got)
	}
}

func TestStatsString(t *testing.T) {
	s := Stats{FPS: 59.6, Bodies: 11, Bullets: 2, Ground: true}
	want := "FPS 60  bodies 11  bullets 2  grounded true  debug false"
	if s.String() != want {
		t.Fatalf("stats %q, want %q", s.String(), want)
	}
}
