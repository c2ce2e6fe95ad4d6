package scene

import (
	"errors"
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/actor"
	"github.com/milk9111/platformer/collision"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/group"
	"github.com/milk9111/platformer/obstacle"
	"github.com/milk9111/platformer/physics"
	"github.com/milk9111/platformer/sound"
)

var ErrNoLevel = errors.New("scene: no level")

// stepEpsilon absorbs rounding when frame times are summed.
const stepEpsilon = 1e-9

// Input is the per-tick intent the scene reads.
type Input interface {
	// Horizontal is in [-1, 1]; negative is left.
	Horizontal() float64
	DidPrimary() bool
	DidSecondary() bool
}

// Scene owns the physics world and everything simulated in it. All structural
// changes to the world happen outside Step: bullets are queued for adding and
// marked for removal, then applied around the step.
type Scene struct {
	level  *config.Level
	world  *physics.Space
	reg    *ecs.Registry
	sounds sound.Sink
	volume float64

	sprites  []*obstacle.Obstacle
	byEntity ecs.SparseSet[*obstacle.Obstacle]
	groups   []*group.Group
	addQueue ecs.Queue[*obstacle.Obstacle]

	avatar   *actor.Avatar
	goal     *obstacle.Obstacle
	resolver *collision.Resolver

	complete  bool
	failure   bool
	countdown int
	paused    bool
	debug     bool
	accum     float64
}

var _ collision.Remover = (*Scene)(nil)

// New builds the world described by level and populates it.
func New(level *config.Level, sounds sound.Sink) (*Scene, error) {
	if level == nil {
		return nil, ErrNoLevel
	}
	if sounds == nil {
		sounds = sound.Nop{}
	}
	s := &Scene{
		level:     level,
		world:     physics.NewSpace(cp.Vector{}),
		sounds:    sounds,
		countdown: -1,
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) World() *physics.Space         { return s.world }
func (s *Scene) Level() *config.Level          { return s.level }
func (s *Scene) Avatar() *actor.Avatar         { return s.avatar }
func (s *Scene) Goal() *obstacle.Obstacle      { return s.goal }
func (s *Scene) Groups() []*group.Group        { return s.groups }
func (s *Scene) Resolver() *collision.Resolver { return s.resolver }
func (s *Scene) IsComplete() bool              { return s.complete }
func (s *Scene) IsFailure() bool               { return s.failure }
func (s *Scene) Countdown() int                { return s.countdown }
func (s *Scene) Paused() bool                  { return s.paused }
func (s *Scene) Debug() bool                   { return s.debug }
func (s *Scene) ToggleDebug()                  { s.debug = !s.debug }
func (s *Scene) Pending() int                  { return s.addQueue.Len() }
func (s *Scene) Sprites() []*obstacle.Obstacle { return s.sprites }

// Scale is the number of pixels per physics unit.
func (s *Scene) Scale() float64 { return s.level.World.Scale }

// Message is the banner shown once the level has been decided.
func (s *Scene) Message() string {
	switch {
	case s.complete:
		return "VICTORY!"
	case s.failure:
		return "FAILURE!"
	default:
		return ""
	}
}

// Drawables lists every obstacle with a body, including the avatar, group
// members and chain pins.
func (s *Scene) Drawables() []*obstacle.Obstacle {
	out := append([]*obstacle.Obstacle(nil), s.sprites...)
	for _, g := range s.groups {
		out = append(out, g.Members()...)
		if c, ok := g.Builder().(*group.Chain); ok {
			start, finish := c.Pins()
			out = append(out, start, finish)
		}
	}
	if s.avatar != nil {
		out = append(out, s.avatar.Obstacle())
	}
	kept := out[:0]
	for _, o := range out {
		if o.Active() {
			kept = append(kept, o)
		}
	}
	return kept
}

// Bullets counts the live bullets in the world.
func (s *Scene) Bullets() int {
	n := 0
	for _, o := range s.sprites {
		if o.Kind() == physics.KindBullet {
			n++
		}
	}
	return n
}

// SetComplete records a win and starts the countdown to the next reset.
func (s *Scene) SetComplete(value bool) {
	if value && !s.complete {
		s.countdown = s.level.World.ExitCount
	}
	s.complete = value
}

// SetFailure records a loss and starts the countdown to the next reset.
func (s *Scene) SetFailure(value bool) {
	if value && !s.failure {
		s.countdown = s.level.World.ExitCount
	}
	s.failure = value
}

// SetLevel swaps in a new level and rebuilds. When the new level cannot be
// built the previous one is restored.
func (s *Scene) SetLevel(level *config.Level) error {
	if level == nil {
		return ErrNoLevel
	}
	prev := s.level
	s.level = level
	if err := s.Reset(); err != nil {
		s.level = prev
		if rerr := s.Reset(); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	return nil
}

// Reset tears everything down and populates the level again.
func (s *Scene) Reset() error {
	if s.avatar != nil {
		s.avatar.Deactivate(s.world)
	}
	for _, o := range s.sprites {
		o.Deactivate(s.world)
	}
	for _, g := range s.groups {
		g.Deactivate(s.world)
	}
	for _, b := range s.world.Bodies() {
		s.world.DestroyBody(b)
	}
	s.sprites = nil
	s.groups = nil
	s.byEntity.Clear()
	s.addQueue.Clear()
	s.reg = ecs.NewRegistry()
	s.avatar = nil
	s.goal = nil
	s.accum = 0

	s.complete = false
	s.failure = false
	s.countdown = -1

	s.volume = config.Value(s.level.World.Volume, 1)
	s.world.SetGravity(cp.Vector{Y: config.Value(s.level.World.Gravity, 0)})
	if err := s.populate(); err != nil {
		return fmt.Errorf("scene: reset: %w", err)
	}
	return nil
}

// Pause silences the effects that might still be ringing.
func (s *Scene) Pause() {
	s.paused = true
	s.sounds.Stop(sound.Pop)
	s.sounds.Stop(sound.Fire)
	s.sounds.Stop(sound.Jump)
}

func (s *Scene) Resume() { s.paused = false }

// RemoveBullet marks a bullet for the garbage pass after the step. It reports
// whether the bullet was newly marked.
func (s *Scene) RemoveBullet(e ecs.Entity) bool {
	o, ok := s.byEntity.Get(e)
	if !ok || o.Kind() != physics.KindBullet {
		return false
	}
	return o.MarkRemoved()
}

// Update advances one frame of dt seconds. Gameplay only ticks on frames
// that step the world, so cooldowns and forces follow world steps.
func (s *Scene) Update(dt float64, in Input) {
	if s.paused {
		return
	}
	steps := s.advance(dt)
	if steps == 0 {
		return
	}
	if !s.preUpdate() {
		return
	}
	s.update(in)
	s.postUpdate(steps)
}

// preUpdate runs the reset countdown and the fall-out check. It reports
// whether the rest of the frame should run.
func (s *Scene) preUpdate() bool {
	if s.countdown > 0 {
		s.countdown--
	} else if s.countdown == 0 {
		if err := s.Reset(); err != nil {
			log.Printf("scene: %v", err)
		}
		return false
	}

	if s.avatar != nil && !s.failure && !s.complete {
		if s.avatar.Position().Y < config.Value(s.level.World.FailY, -1) {
			log.Printf("scene: avatar fell out of the level")
			s.SetFailure(true)
			return false
		}
	}
	return true
}

// update turns input into avatar intent and forces.
func (s *Scene) update(in Input) {
	if s.avatar == nil || in == nil {
		return
	}
	s.avatar.SetMovement(common.Clamp(in.Horizontal(), -1, 1) * s.avatar.Force())
	s.avatar.SetJumping(in.DidPrimary())
	s.avatar.SetShooting(in.DidSecondary())

	if s.avatar.IsShooting() {
		s.createBullet()
	}
	s.avatar.ApplyForce()
}

// postUpdate adds queued objects, steps the world, then collects garbage.
func (s *Scene) postUpdate(steps int) {
	for _, o := range s.addQueue.Drain() {
		if err := s.addSprite(o); err != nil {
			log.Printf("scene: add %s: %v", o, err)
		}
	}

	for i := 0; i < steps; i++ {
		s.world.Step(s.level.World.Step)
	}

	kept := s.sprites[:0]
	for _, o := range s.sprites {
		if o.IsRemoved() {
			o.Deactivate(s.world)
			s.byEntity.Remove(o.Entity())
			s.reg.Destroy(o.Entity())
			continue
		}
		kept = append(kept, o)
	}
	for i := len(kept); i < len(s.sprites); i++ {
		s.sprites[i] = nil
	}
	s.sprites = kept

	if s.avatar != nil {
		s.avatar.Update()
	}
}

// advance adds dt to the accumulator and returns how many fixed steps are due,
// dropping time beyond the catch-up limit.
func (s *Scene) advance(dt float64) int {
	step := s.level.World.Step
	s.accum += dt
	steps := 0
	for s.accum+stepEpsilon >= step && steps < s.level.World.MaxSteps {
		s.accum -= step
		steps++
	}
	if s.accum+stepEpsilon >= step || s.accum < 0 {
		s.accum = 0
	}
	return steps
}

func (s *Scene) createBullet() {
	spec := s.level.Bullet
	facing := 1.0
	if !s.avatar.FacingRight() {
		facing = -1
	}
	pos := s.avatar.Position()
	radius := config.Value(spec.Size, 0) / 2

	b := obstacle.NewWheel(pos.X+spec.Offset*facing, pos.Y, radius)
	b.SetName("bullet")
	b.SetKind(physics.KindBullet)
	b.SetDensity(spec.Density)
	b.SetGravityScale(0)
	b.SetVelocity(spec.Speed*facing, 0)
	b.SetColor(spec.Debug.Or(b.Color()))
	s.addQueue.Push(b)

	s.sounds.Play(sound.Fire, s.volume)
}

// addSprite activates o and takes ownership of it.
func (s *Scene) addSprite(o *obstacle.Obstacle) error {
	if !o.Entity().Valid() {
		o.SetEntity(s.reg.Create())
	}
	if err := o.Activate(s.world); err != nil {
		s.reg.Destroy(o.Entity())
		return err
	}
	s.sprites = append(s.sprites, o)
	s.byEntity.Set(o.Entity(), o)
	return nil
}

// addGroup activates g. A group that fails to activate has already rolled
// back and is left out of the level.
func (s *Scene) addGroup(g *group.Group) {
	for _, m := range g.Members() {
		if !m.Entity().Valid() {
			m.SetEntity(s.reg.Create())
		}
	}
	if err := g.Activate(s.world); err != nil {
		log.Printf("scene: %s left out: %v", g.Name(), err)
		return
	}
	s.groups = append(s.groups, g)
}
