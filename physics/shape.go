package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

const collisionTypeFixture cp.CollisionType = 1

// capsuleSegment returns the core segment and radius of a capsule. A capsule
// shorter than it is wide degenerates into a circle.
func capsuleSegment(s ShapeDef) (cp.Vector, cp.Vector, float64) {
	r := s.Width / 2
	half := math.Max(0, s.Height/2-r)
	a := cp.Vector{X: s.Center.X, Y: s.Center.Y - half}
	b := cp.Vector{X: s.Center.X, Y: s.Center.Y + half}
	return a, b, r
}

// polygonArea is the absolute shoelace area.
func polygonArea(pts []cp.Vector) float64 {
	sum := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(sum) / 2
}

func shapeArea(s ShapeDef) float64 {
	switch s.Kind {
	case ShapeBox:
		return s.Width * s.Height
	case ShapeCircle:
		return math.Pi * s.Radius * s.Radius
	case ShapeCapsule:
		a, b, r := capsuleSegment(s)
		return 2*r*a.Distance(b) + math.Pi*r*r
	case ShapePolygon:
		return polygonArea(s.Points)
	}
	return 0
}

func shapeMoment(s ShapeDef, mass float64) float64 {
	if mass <= 0 {
		return 0
	}
	switch s.Kind {
	case ShapeBox:
		return cp.MomentForBox(mass, s.Width, s.Height) + mass*s.Center.LengthSq()
	case ShapeCircle:
		return cp.MomentForCircle(mass, 0, s.Radius, s.Center)
	case ShapeCapsule:
		a, b, r := capsuleSegment(s)
		return cp.MomentForSegment(mass, a, b, r)
	case ShapePolygon:
		return cp.MomentForPoly(mass, len(s.Points), s.Points, cp.Vector{}, 0)
	}
	return 0
}

// massProperties sums the fixtures the way Box2D does: density times area.
// A dynamic body without mass gets unit mass so the solver stays stable.
func massProperties(def BodyDef) (float64, float64) {
	mass, moment := 0.0, 0.0
	for _, f := range def.Fixtures {
		m := f.Density * shapeArea(f.Shape)
		mass += m
		moment += shapeMoment(f.Shape, m)
	}
	if mass <= 0 {
		mass = 1
		moment = 0
		if len(def.Fixtures) > 0 {
			moment = shapeMoment(def.Fixtures[0].Shape, mass)
		}
	}
	if moment <= 0 {
		moment = mass
	}
	if def.FixedRotation {
		moment = math.Inf(1)
	}
	return mass, moment
}

func newShapes(body *cp.Body, def FixtureDef) []*cp.Shape {
	s := def.Shape
	var shapes []*cp.Shape
	switch s.Kind {
	case ShapeBox:
		if s.Center.X == 0 && s.Center.Y == 0 {
			shapes = append(shapes, cp.NewBox(body, s.Width, s.Height, 0))
		} else {
			bb := cp.BB{
				L: s.Center.X - s.Width/2,
				B: s.Center.Y - s.Height/2,
				R: s.Center.X + s.Width/2,
				T: s.Center.Y + s.Height/2,
			}
			shapes = append(shapes, cp.NewBox2(body, bb, 0))
		}
	case ShapeCircle:
		shapes = append(shapes, cp.NewCircle(body, s.Radius, s.Center))
	case ShapeCapsule:
		a, b, r := capsuleSegment(s)
		shapes = append(shapes, cp.NewSegment(body, a, b, r))
	case ShapePolygon:
		shapes = append(shapes, cp.NewPolyShape(body, len(s.Points), s.Points, cp.NewTransformIdentity(), 0))
	case ShapeLoop:
		n := len(s.Points)
		for i := 0; i < n; i++ {
			a := s.Points[i]
			b := s.Points[(i+1)%n]
			if n == 2 && i == 1 {
				break
			}
			shapes = append(shapes, cp.NewSegment(body, a, b, s.Radius))
		}
	}
	for _, shape := range shapes {
		shape.SetFriction(def.Friction)
		shape.SetElasticity(def.Restitution)
		shape.SetSensor(def.Sensor)
		shape.SetCollisionType(collisionTypeFixture)
	}
	return shapes
}
