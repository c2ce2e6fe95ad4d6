package actor

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/obstacle"
	"github.com/milk9111/platformer/physics"
	"github.com/milk9111/platformer/sound"
	"golang.org/x/image/colornames"
)

const (
	Name       = "traci"
	SensorName = "traci_sensor"
)

// Spec is the avatar's tuning. Size scales Inner into the capsule extents.
type Spec struct {
	Position    cp.Vector
	Size        float64
	Inner       cp.Vector
	Density     float64
	Friction    float64
	Restitution float64

	Force     float64
	Damping   float64
	MaxSpeed  float64
	JumpForce float64
	JumpCool  int
	ShotCool  int

	SensorShrink float64
	SensorHeight float64
}

// Avatar turns movement, jump and shoot intent into forces on a capsule body.
// Jump and shoot are gated by cooldowns counted in ticks.
type Avatar struct {
	spec   Spec
	body   *obstacle.Obstacle
	sensor *physics.Fixture

	sounds sound.Sink
	volume float64

	movement  float64
	faceRight bool
	grounded  bool

	jumping      bool
	jumpCooldown int
	shooting     bool
	shotCooldown int

	// set by ApplyForce so Update resets the cooldown of what actually fired
	latched   bool
	jumpFired bool
	shotFired bool
}

func New(spec Spec, entity ecs.Entity, sounds sound.Sink, volume float64) *Avatar {
	if sounds == nil {
		sounds = sound.Nop{}
	}
	w, h := spec.Size*spec.Inner.X, spec.Size*spec.Inner.Y
	o := obstacle.NewCapsule(spec.Position.X, spec.Position.Y, w, h)
	o.SetName(Name)
	o.SetKind(physics.KindAvatar)
	o.SetEntity(entity)
	o.SetDensity(spec.Density)
	o.SetFriction(spec.Friction)
	o.SetRestitution(spec.Restitution)
	o.SetFixedRotation(true)
	o.SetColor(colornames.Orange)

	return &Avatar{
		spec:      spec,
		body:      o,
		sounds:    sounds,
		volume:    volume,
		faceRight: true,
	}
}

func (a *Avatar) Obstacle() *obstacle.Obstacle { return a.body }
func (a *Avatar) Entity() ecs.Entity           { return a.body.Entity() }
func (a *Avatar) SensorName() string           { return SensorName }
func (a *Avatar) Sensor() *physics.Fixture     { return a.sensor }
func (a *Avatar) Position() cp.Vector          { return a.body.Position() }
func (a *Avatar) Force() float64               { return a.spec.Force }
func (a *Avatar) Movement() float64            { return a.movement }
func (a *Avatar) FacingRight() bool            { return a.faceRight }
func (a *Avatar) IsGrounded() bool             { return a.grounded }
func (a *Avatar) SetGrounded(grounded bool)    { a.grounded = grounded }
func (a *Avatar) JumpCooldown() int            { return a.jumpCooldown }
func (a *Avatar) ShotCooldown() int            { return a.shotCooldown }
func (a *Avatar) SetJumping(jumping bool)      { a.jumping = jumping }
func (a *Avatar) SetShooting(shooting bool)    { a.shooting = shooting }

// SetMovement stores the horizontal intent and turns to face it.
func (a *Avatar) SetMovement(v float64) {
	a.movement = v
	if v < 0 {
		a.faceRight = false
	} else if v > 0 {
		a.faceRight = true
	}
}

// IsJumping reports whether a jump fires this tick.
func (a *Avatar) IsJumping() bool {
	return a.jumping && a.grounded && a.jumpCooldown <= 0
}

// IsShooting reports whether a shot fires this tick.
func (a *Avatar) IsShooting() bool {
	return a.shooting && a.shotCooldown <= 0
}

// Activate creates the capsule and then the ground sensor on it.
func (a *Avatar) Activate(w physics.World) error {
	if err := a.body.Activate(w); err != nil {
		return err
	}
	if err := a.CreateSensor(); err != nil {
		a.body.Deactivate(w)
		return err
	}
	return nil
}

func (a *Avatar) Deactivate(w physics.World) {
	a.body.Deactivate(w)
	a.sensor = nil
}

// CreateSensor attaches the ground sensor under the capsule. The body must
// already exist.
func (a *Avatar) CreateSensor() error {
	b := a.body.Body()
	if !a.body.Active() {
		return fmt.Errorf("actor: create sensor: %w", physics.ErrInvalidBody)
	}
	width := a.spec.SensorShrink * a.body.Width()
	height := 2 * a.spec.SensorHeight
	f, err := b.CreateFixture(physics.FixtureDef{
		Shape: physics.ShapeDef{
			Kind:   physics.ShapeBox,
			Width:  width,
			Height: height,
			Center: cp.Vector{Y: -a.body.Height() / 2},
		},
		Density: a.spec.Density,
		Sensor:  true,
		Name:    SensorName,
	})
	if err != nil {
		return fmt.Errorf("actor: create sensor: %w", err)
	}
	a.sensor = f
	return nil
}

// ApplyForce pushes the body for the coming step. With no intent it only
// brakes; at top speed it clamps instead of pushing harder. A firing jump adds
// an upward impulse and one jump sound.
func (a *Avatar) ApplyForce() {
	a.latched = true
	a.jumpFired = a.IsJumping()
	a.shotFired = a.IsShooting()

	if !a.body.Active() {
		return
	}
	b := a.body.Body()
	vx := b.VX()

	switch {
	case a.movement == 0:
		b.ApplyForce(cp.Vector{X: -a.spec.Damping * vx})
	case math.Abs(vx) >= a.spec.MaxSpeed:
		b.SetVX(common.Sign(vx) * a.spec.MaxSpeed)
	default:
		b.ApplyForce(cp.Vector{X: a.movement})
	}

	if a.jumpFired {
		b.ApplyImpulse(cp.Vector{Y: a.spec.JumpForce})
		a.sounds.Play(sound.Jump, a.volume)
	}
}

// Update advances the cooldowns by one tick. It runs after the forces for the
// tick have been applied.
func (a *Avatar) Update() {
	jumped, shot := a.IsJumping(), a.IsShooting()
	if a.latched {
		jumped, shot = a.jumpFired, a.shotFired
		a.latched = false
	}

	if jumped {
		a.jumpCooldown = a.spec.JumpCool
	} else {
		a.jumpCooldown = max(0, a.jumpCooldown-1)
	}
	if shot {
		a.shotCooldown = a.spec.ShotCool
	} else {
		a.shotCooldown = max(0, a.shotCooldown-1)
	}
}
