package render

import (
	"math"

	"github.com/jakecoffman/cp"
)

// View maps physics units (y up) to screen pixels (y down).
type View struct {
	Scale  float64
	Height float64
}

func (v View) ToScreen(p cp.Vector) (float32, float32) {
	return float32(p.X * v.Scale), float32(v.Height - p.Y*v.Scale)
}

// Place moves a body-local point into world space.
func Place(local, pos cp.Vector, angle float64) cp.Vector {
	sin, cos := math.Sincos(angle)
	return cp.Vector{
		X: pos.X + local.X*cos - local.Y*sin,
		Y: pos.Y + local.X*sin + local.Y*cos,
	}
}
