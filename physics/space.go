package physics

import (
	"fmt"
	"log"
	"sort"

	"github.com/jakecoffman/cp"
)

type fixturePair struct {
	a, b FixtureID
}

type touch struct {
	a, b  *Fixture
	count int
}

func makePair(a, b FixtureID) fixturePair {
	if a > b {
		a, b = b, a
	}
	return fixturePair{a: a, b: b}
}

// Space is a World backed by a Chipmunk space.
type Space struct {
	space    *cp.Space
	listener ContactListener
	stepping bool

	bodies   map[*Body]struct{}
	joints   map[*Joint]struct{}
	fixtures map[*cp.Shape]*Fixture
	// touching counts live shape contacts per fixture pair so that loop
	// fixtures made of several segments report one begin and one end.
	touching map[fixturePair]*touch

	nextBody    uint64
	nextFixture FixtureID
	nextJoint   uint64
}

var _ World = (*Space)(nil)

// CollisionSlop is the allowed penetration between resting shapes.
const CollisionSlop = 0.005

// NewSpace creates an empty world with the given gravity.
func NewSpace(gravity cp.Vector) *Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(gravity)
	// Resting bodies may overlap terrain by at most this much, which keeps
	// thin ground sensors poking out of what they stand on.
	space.SetCollisionSlop(CollisionSlop)

	s := &Space{
		space:    space,
		bodies:   make(map[*Body]struct{}),
		joints:   make(map[*Joint]struct{}),
		fixtures: make(map[*cp.Shape]*Fixture),
		touching: make(map[fixturePair]*touch),
	}
	s.setupHandlers()
	return s
}

// Chipmunk returns the underlying Chipmunk space.
func (s *Space) Chipmunk() *cp.Space {
	if s == nil {
		return nil
	}
	return s.space
}

// Locked reports whether the space is inside Step.
func (s *Space) Locked() bool {
	return s.stepping
}

func (s *Space) SetGravity(g cp.Vector) {
	s.space.SetGravity(g)
}

func (s *Space) SetContactListener(l ContactListener) {
	s.listener = l
}

// Step advances the simulation. Contact callbacks run before it returns.
func (s *Space) Step(dt float64) {
	if s == nil || s.space == nil || dt <= 0 {
		return
	}
	s.stepping = true
	defer func() { s.stepping = false }()
	s.space.Step(dt)
}

func (s *Space) CreateBody(def BodyDef) (*Body, error) {
	if s.stepping {
		return nil, ErrWorldLocked
	}
	if err := def.validate(); err != nil {
		return nil, err
	}

	var cb *cp.Body
	switch def.Type {
	case Static:
		cb = cp.NewStaticBody()
	case Kinematic:
		cb = cp.NewKinematicBody()
	default:
		mass, moment := massProperties(def)
		cb = cp.NewBody(mass, moment)
	}
	cb.SetPosition(def.Position)
	cb.SetAngle(def.Angle)
	if def.Type != Static {
		cb.SetVelocityVector(def.Velocity)
	}
	if def.NoGravity {
		cb.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
			cp.BodyUpdateVelocity(body, cp.Vector{}, damping, dt)
		})
	}

	s.nextBody++
	b := &Body{id: s.nextBody, tag: def.Tag, typ: def.Type, body: cb, space: s}
	s.space.AddBody(cb)
	for _, f := range def.Fixtures {
		s.attachFixture(b, f)
	}
	s.bodies[b] = struct{}{}
	return b, nil
}

func (s *Space) attachFixture(b *Body, def FixtureDef) *Fixture {
	s.nextFixture++
	f := &Fixture{id: s.nextFixture, name: def.Name, sensor: def.Sensor, body: b}
	f.shapes = newShapes(b.body, def)
	for _, shape := range f.shapes {
		s.space.AddShape(shape)
		s.fixtures[shape] = f
	}
	b.fixtures = append(b.fixtures, f)
	return f
}

// DestroyBody removes a body and any joint still attached to it.
func (s *Space) DestroyBody(b *Body) {
	if b == nil || b.space != s {
		return
	}
	if s.stepping {
		log.Printf("physics: refusing to destroy %s while stepping", b)
		return
	}
	for j := range s.joints {
		if j.def.BodyA == b || j.def.BodyB == b {
			log.Printf("physics: destroying joint %q still attached to %s", j.def.Name, b)
			s.DestroyJoint(j)
		}
	}
	for _, f := range b.fixtures {
		for _, shape := range f.shapes {
			// Chipmunk runs separate callbacks for live arbiters here.
			s.space.RemoveShape(shape)
			delete(s.fixtures, shape)
		}
	}
	s.space.RemoveBody(b.body)
	s.flushTouching(b)
	delete(s.bodies, b)
	b.space = nil
}

// flushTouching ends any contact Chipmunk did not separate on removal.
func (s *Space) flushTouching(b *Body) {
	var ended []*touch
	for pair, t := range s.touching {
		if t.a.body == b || t.b.body == b {
			ended = append(ended, t)
			delete(s.touching, pair)
		}
	}
	sort.Slice(ended, func(i, j int) bool {
		pi, pj := makePair(ended[i].a.id, ended[i].b.id), makePair(ended[j].a.id, ended[j].b.id)
		if pi.a != pj.a {
			return pi.a < pj.a
		}
		return pi.b < pj.b
	})
	if s.listener == nil {
		return
	}
	for _, t := range ended {
		s.listener.EndContact(Contact{A: t.a, B: t.b})
	}
}

func (s *Space) CreateJoint(def JointDef) (*Joint, error) {
	if s.stepping {
		return nil, ErrWorldLocked
	}
	if !s.Contains(def.BodyA) || !s.Contains(def.BodyB) {
		return nil, fmt.Errorf("%w: joint %q references a body outside this world", ErrInvalidBody, def.Name)
	}
	if def.BodyA == def.BodyB {
		return nil, fmt.Errorf("%w: joint %q binds a body to itself", ErrInvalidDef, def.Name)
	}
	if def.BodyA.typ == Static && def.BodyB.typ == Static {
		return nil, fmt.Errorf("%w: joint %q binds two static bodies", ErrInvalidDef, def.Name)
	}
	if !finite(def.LocalAnchorA.X, def.LocalAnchorA.Y, def.LocalAnchorB.X, def.LocalAnchorB.Y) {
		return nil, fmt.Errorf("%w: joint %q has non-finite anchors", ErrInvalidDef, def.Name)
	}

	c := cp.NewPivotJoint2(def.BodyA.body, def.BodyB.body, def.LocalAnchorA, def.LocalAnchorB)
	c.SetCollideBodies(def.CollideConnected)
	s.space.AddConstraint(c)

	s.nextJoint++
	j := &Joint{id: s.nextJoint, def: def, constraint: c, space: s}
	s.joints[j] = struct{}{}
	return j, nil
}

func (s *Space) DestroyJoint(j *Joint) {
	if j == nil || j.space != s {
		return
	}
	if s.stepping {
		log.Printf("physics: refusing to destroy joint %q while stepping", j.def.Name)
		return
	}
	s.space.RemoveConstraint(j.constraint)
	delete(s.joints, j)
	j.space = nil
}

// Contains reports whether b is a live body of this world.
func (s *Space) Contains(b *Body) bool {
	if b == nil || b.space != s {
		return false
	}
	_, ok := s.bodies[b]
	return ok
}

// HasJoint reports whether j is a live joint of this world.
func (s *Space) HasJoint(j *Joint) bool {
	if j == nil || j.space != s {
		return false
	}
	_, ok := s.joints[j]
	return ok
}

// Bodies returns the live bodies in creation order.
func (s *Space) Bodies() []*Body {
	out := make([]*Body, 0, len(s.bodies))
	for b := range s.bodies {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (s *Space) BodyCount() int {
	return len(s.bodies)
}

func (s *Space) JointCount() int {
	return len(s.joints)
}

func (s *Space) setupHandlers() {
	handler := s.space.NewCollisionHandler(collisionTypeFixture, collisionTypeFixture)
	handler.UserData = s
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*Space)
		if !ok || world == nil {
			return true
		}
		a, b, ok := world.lookup(arb)
		if !ok {
			return true
		}
		// Two sensors never touch, as in Box2D.
		if a.sensor && b.sensor {
			return false
		}
		pair := makePair(a.id, b.id)
		if t, ok := world.touching[pair]; ok {
			t.count++
			return true
		}
		world.touching[pair] = &touch{a: a, b: b, count: 1}
		if world.listener != nil {
			world.listener.BeginContact(Contact{A: a, B: b})
		}
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		world, ok := userData.(*Space)
		if !ok || world == nil {
			return
		}
		a, b, ok := world.lookup(arb)
		if !ok || (a.sensor && b.sensor) {
			return
		}
		pair := makePair(a.id, b.id)
		t, ok := world.touching[pair]
		if !ok {
			return
		}
		if t.count > 1 {
			t.count--
			return
		}
		delete(world.touching, pair)
		if world.listener != nil {
			world.listener.EndContact(Contact{A: a, B: b})
		}
	}
}

func (s *Space) lookup(arb *cp.Arbiter) (*Fixture, *Fixture, bool) {
	shapeA, shapeB := arb.Shapes()
	a, okA := s.fixtures[shapeA]
	b, okB := s.fixtures[shapeB]
	if !okA || !okB {
		log.Printf("physics: contact between untracked shapes, skipping")
		return nil, nil, false
	}
	return a, b, true
}
