package physics

import "errors"

var (
	ErrWorldLocked = errors.New("physics: world is stepping")
	ErrInvalidBody = errors.New("physics: invalid body")
	ErrInvalidDef  = errors.New("physics: invalid definition")
)

// World is the slice of the simulator the gameplay layer talks to. Creation
// failures are reported as errors; nothing here panics on bad input.
type World interface {
	CreateBody(def BodyDef) (*Body, error)
	DestroyBody(b *Body)
	CreateJoint(def JointDef) (*Joint, error)
	DestroyJoint(j *Joint)
	Step(dt float64)
	SetContactListener(l ContactListener)
}

// Contact is one begin or end touch between two fixtures.
type Contact struct {
	A *Fixture
	B *Fixture
}

// ContactListener receives contact events synchronously from Step. Handlers
// must not create or destroy bodies or joints.
type ContactListener interface {
	BeginContact(c Contact)
	EndContact(c Contact)
}
