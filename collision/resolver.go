package collision

import (
	"log"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/physics"
	"github.com/milk9111/platformer/sensor"
	"github.com/milk9111/platformer/sound"
)

// Remover defers bullet removal until the world has finished stepping. It
// reports whether the bullet was newly queued.
type Remover interface {
	RemoveBullet(e ecs.Entity) bool
}

type Config struct {
	Avatar     ecs.Entity
	SensorName string
	Tracker    *sensor.Tracker
	// Grounded is told the tracker state after every ground sensor event.
	Grounded   func(grounded bool)
	Remover    Remover
	Sounds     sound.Sink
	Volume     float64
	OnComplete func()
}

// Resolver turns contact events into gameplay state: bullet removal, ground
// tracking and the win condition. It never mutates the world directly.
type Resolver struct {
	cfg      Config
	complete bool
}

var _ physics.ContactListener = (*Resolver)(nil)

func New(cfg Config) *Resolver {
	if cfg.Tracker == nil {
		cfg.Tracker = sensor.NewTracker()
	}
	if cfg.Sounds == nil {
		cfg.Sounds = sound.Nop{}
	}
	return &Resolver{cfg: cfg}
}

func (r *Resolver) Tracker() *sensor.Tracker { return r.cfg.Tracker }

// Complete reports whether the avatar has reached the goal.
func (r *Resolver) Complete() bool { return r.complete }

// Reset clears the win flag and the ground contacts.
func (r *Resolver) Reset() {
	r.complete = false
	r.cfg.Tracker.Clear()
	r.notifyGrounded()
}

func (r *Resolver) BeginContact(c physics.Contact) {
	defer r.skipMalformed("begin")
	ta, tb := c.A.Body().Tag(), c.B.Body().Tag()

	r.hitBullet(ta, tb)
	r.hitBullet(tb, ta)

	if other, ok := sensor.Matches(c, r.cfg.SensorName, r.cfg.Avatar); ok {
		r.cfg.Tracker.BeginTouch(other.ID())
		r.notifyGrounded()
	}

	if (r.isAvatar(ta) && tb.Kind == physics.KindGoal) || (r.isAvatar(tb) && ta.Kind == physics.KindGoal) {
		r.setComplete()
	}
}

func (r *Resolver) EndContact(c physics.Contact) {
	defer r.skipMalformed("end")
	if other, ok := sensor.Matches(c, r.cfg.SensorName, r.cfg.Avatar); ok {
		r.cfg.Tracker.EndTouch(other.ID())
		r.notifyGrounded()
	}
}

func (r *Resolver) isAvatar(t physics.Tag) bool {
	return t.Entity.Valid() && t.Entity == r.cfg.Avatar
}

// hitBullet queues bullet for removal unless it touched the avatar or goal.
func (r *Resolver) hitBullet(bullet, other physics.Tag) {
	if bullet.Kind != physics.KindBullet || r.isAvatar(other) || other.Kind == physics.KindGoal {
		return
	}
	if r.cfg.Remover == nil {
		return
	}
	if r.cfg.Remover.RemoveBullet(bullet.Entity) {
		r.cfg.Sounds.Play(sound.Pop, r.cfg.Volume)
	}
}

func (r *Resolver) setComplete() {
	if r.complete {
		return
	}
	r.complete = true
	log.Printf("collision: goal reached")
	if r.cfg.OnComplete != nil {
		r.cfg.OnComplete()
	}
}

func (r *Resolver) notifyGrounded() {
	if r.cfg.Grounded != nil {
		r.cfg.Grounded(r.cfg.Tracker.Grounded())
	}
}

// skipMalformed keeps one malformed contact from aborting the rest of the step.
func (r *Resolver) skipMalformed(phase string) {
	if p := recover(); p != nil {
		log.Printf("collision: skipping malformed %s contact: %v", phase, p)
	}
}
