package physics

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

type FixtureID uint64

// Fixture is one shape attached to a body. Loop fixtures own several
// Chipmunk segments but report contacts as a single fixture.
type Fixture struct {
	id     FixtureID
	name   string
	sensor bool
	body   *Body
	shapes []*cp.Shape
}

func (f *Fixture) ID() FixtureID  { return f.id }
func (f *Fixture) Name() string   { return f.name }
func (f *Fixture) IsSensor() bool { return f.sensor }
func (f *Fixture) Body() *Body    { return f.body }

// Body is a handle to a simulated body. It stays readable after it has been
// destroyed, but every mutation becomes a no-op.
type Body struct {
	id       uint64
	tag      Tag
	typ      BodyType
	body     *cp.Body
	fixtures []*Fixture
	space    *Space
}

func (b *Body) ID() uint64     { return b.id }
func (b *Body) Tag() Tag       { return b.tag }
func (b *Body) Type() BodyType { return b.typ }

// Active reports whether the body is still in a world.
func (b *Body) Active() bool {
	return b != nil && b.space != nil
}

func (b *Body) Fixtures() []*Fixture {
	return b.fixtures
}

// Fixture returns the first fixture with the given name.
func (b *Body) Fixture(name string) (*Fixture, bool) {
	for _, f := range b.fixtures {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}

func (b *Body) Position() cp.Vector {
	return b.body.Position()
}

// SetPosition teleports a dynamic or kinematic body. Static bodies stay put.
func (b *Body) SetPosition(p cp.Vector) {
	if !b.Active() || b.typ == Static {
		return
	}
	b.body.SetPosition(p)
}

func (b *Body) Angle() float64 {
	return b.body.Angle()
}

func (b *Body) Velocity() cp.Vector {
	return b.body.Velocity()
}

func (b *Body) SetVelocity(x, y float64) {
	if !b.Active() || b.typ == Static {
		return
	}
	b.body.SetVelocity(x, y)
}

// VX is the horizontal velocity.
func (b *Body) VX() float64 {
	return b.body.Velocity().X
}

func (b *Body) SetVX(vx float64) {
	v := b.body.Velocity()
	b.SetVelocity(vx, v.Y)
}

// ApplyForce pushes on the center of mass for the next step.
func (b *Body) ApplyForce(f cp.Vector) {
	if !b.Active() || b.typ != Dynamic {
		return
	}
	b.body.ApplyForceAtWorldPoint(f, b.body.Position())
}

// ApplyImpulse changes velocity immediately through the center of mass.
func (b *Body) ApplyImpulse(i cp.Vector) {
	if !b.Active() || b.typ != Dynamic {
		return
	}
	b.body.ApplyImpulseAtWorldPoint(i, b.body.Position())
}

func (b *Body) WorldToLocal(p cp.Vector) cp.Vector {
	return b.body.WorldToLocal(p)
}

func (b *Body) LocalToWorld(p cp.Vector) cp.Vector {
	return b.body.LocalToWorld(p)
}

// CreateFixture adds a fixture to a live body. Mass is fixed when the body is
// created, so fixtures added later (sensors, mostly) do not change it.
func (b *Body) CreateFixture(def FixtureDef) (*Fixture, error) {
	if !b.Active() {
		return nil, fmt.Errorf("%w: create fixture on inactive body %q", ErrInvalidBody, b.tag.Name)
	}
	if b.space.stepping {
		return nil, ErrWorldLocked
	}
	if err := def.validate(); err != nil {
		return nil, err
	}
	return b.space.attachFixture(b, def), nil
}

func (b *Body) String() string {
	return fmt.Sprintf("%s#%d(%s)", b.tag.Name, b.id, b.tag.Kind)
}
