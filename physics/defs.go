package physics

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

type BodyType int

const (
	Dynamic BodyType = iota
	Static
	Kinematic
)

func (t BodyType) String() string {
	switch t {
	case Static:
		return "static"
	case Kinematic:
		return "kinematic"
	default:
		return "dynamic"
	}
}

type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeCircle
	// ShapeCapsule is a vertical stadium: a box of Width x Height whose top
	// and bottom are rounded with radius Width/2.
	ShapeCapsule
	// ShapePolygon is a convex polygon; concave input is wrapped in its hull.
	ShapePolygon
	// ShapeLoop is a closed chain of segments. It has no area and is meant
	// for static terrain.
	ShapeLoop
)

// ShapeDef describes a shape in body-local coordinates.
type ShapeDef struct {
	Kind   ShapeKind
	Width  float64
	Height float64
	Radius float64
	Center cp.Vector
	Points []cp.Vector
}

// FixtureDef attaches a shape and its material to a body.
type FixtureDef struct {
	Shape       ShapeDef
	Density     float64
	Friction    float64
	Restitution float64
	Sensor      bool
	// Name is the fixture's tag, e.g. the avatar's ground sensor name.
	Name string
}

// BodyDef is everything needed to create a body.
type BodyDef struct {
	Type          BodyType
	Position      cp.Vector
	Angle         float64
	Velocity      cp.Vector
	FixedRotation bool
	// NoGravity makes the body ignore world gravity.
	NoGravity bool
	Tag       Tag
	Fixtures  []FixtureDef
}

// JointDef describes a pivot (revolute) joint between two bodies. Anchors
// are in each body's local frame.
type JointDef struct {
	BodyA            *Body
	BodyB            *Body
	LocalAnchorA     cp.Vector
	LocalAnchorB     cp.Vector
	CollideConnected bool
	Name             string
}

func finite(v ...float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func (d BodyDef) validate() error {
	if !finite(d.Position.X, d.Position.Y, d.Angle, d.Velocity.X, d.Velocity.Y) {
		return fmt.Errorf("%w: body %q has non-finite transform", ErrInvalidDef, d.Tag.Name)
	}
	for i, f := range d.Fixtures {
		if err := f.validate(); err != nil {
			return fmt.Errorf("body %q fixture %d: %w", d.Tag.Name, i, err)
		}
	}
	return nil
}

func (f FixtureDef) validate() error {
	if f.Density < 0 || !finite(f.Density, f.Friction, f.Restitution) {
		return fmt.Errorf("%w: bad material", ErrInvalidDef)
	}
	s := f.Shape
	if !finite(s.Width, s.Height, s.Radius, s.Center.X, s.Center.Y) {
		return fmt.Errorf("%w: non-finite shape", ErrInvalidDef)
	}
	switch s.Kind {
	case ShapeBox, ShapeCapsule:
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("%w: size %gx%g", ErrInvalidDef, s.Width, s.Height)
		}
	case ShapeCircle:
		if s.Radius <= 0 {
			return fmt.Errorf("%w: radius %g", ErrInvalidDef, s.Radius)
		}
	case ShapePolygon:
		if len(s.Points) < 3 {
			return fmt.Errorf("%w: polygon needs 3 points, got %d", ErrInvalidDef, len(s.Points))
		}
	case ShapeLoop:
		if len(s.Points) < 2 {
			return fmt.Errorf("%w: loop needs 2 points, got %d", ErrInvalidDef, len(s.Points))
		}
	default:
		return fmt.Errorf("%w: unknown shape kind %d", ErrInvalidDef, s.Kind)
	}
	return nil
}
