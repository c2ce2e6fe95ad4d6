package scene

import (
	"errors"
	"strings"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/physics"
	"github.com/milk9111/platformer/sound"
)

const dt = common.DefaultStep

// A floor from x=0 to 30 with its top at y=1, a short wall at x=10 and the
// goal out of reach at x=20.
const testLevel = `
world: {gravity: -10, max_steps: 4, fail_y: -1, exit_count: 5, volume: 0.5}
goal: {pos: [20, 1.6], size: 1}
walls:
  friction: 0.4
  positions:
    - [0, 0, 30, 0, 30, 1, 0, 1]
platforms:
  positions:
    - [10, 1, 11, 1, 11, 4, 10, 4]
traci:
  pos: [2, 2]
  size: 1
  inner: [0.5, 1]
  density: 1
  force: 20
  damping: 10
  maxspeed: 4
  jump_force: 4
  jump_cool: 10
  shot_cool: 5
  sensor: {shrink: 0.6, height: 0.05}
bridge: {pos: [4, 8], size: [1, 0.2], extent: 3, density: 1}
spinner: {pos: [14, 10], size: [3, 0.2], radius: 0.1, high_density: 10, low_density: 1}
bullet: {offset: 0.6, size: 0.2, density: 1, speed: 20}
`

type fakeInput struct {
	h                  float64
	primary, secondary bool
}

func (f fakeInput) Horizontal() float64 { return f.h }
func (f fakeInput) DidPrimary() bool    { return f.primary }
func (f fakeInput) DidSecondary() bool  { return f.secondary }

func mustLevel(t *testing.T, src string) *config.Level {
	t.Helper()
	lvl, err := config.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse level: %v", err)
	}
	return lvl
}

func newScene(t *testing.T) (*Scene, *sound.Recorder) {
	t.Helper()
	rec := &sound.Recorder{}
	s, err := New(mustLevel(t, testLevel), rec)
	if err != nil {
		t.Fatalf("new scene: %v", err)
	}
	return s, rec
}

func run(s *Scene, in Input, ticks int) {
	for i := 0; i < ticks; i++ {
		s.Update(dt, in)
	}
}

func names(s *Scene) []string {
	var out []string
	for _, b := range s.World().Bodies() {
		out = append(out, b.Tag().Name)
	}
	return out
}

func TestPopulateOrder(t *testing.T) {
	s, _ := newScene(t)

	// extent 3 with 1 wide planks gives 3 planks; pins are created with the joints
	want := []string{"goal", "wall0", "platform0", "traci", "plank0", "plank1", "plank2", "pin0", "pin1", "barrier", "pin"}
	got := names(s)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("bodies %v, want %v", got, want)
	}
	if s.World().JointCount() != 4+1 {
		t.Fatalf("expected 5 joints, got %d", s.World().JointCount())
	}
	if len(s.Groups()) != 2 {
		t.Fatalf("expected bridge and spinner, got %d groups", len(s.Groups()))
	}
	if _, ok := s.Avatar().Obstacle().Body().Fixture(s.Avatar().SensorName()); !ok {
		t.Fatalf("avatar has no ground sensor")
	}
	if len(s.Drawables()) != s.World().BodyCount() {
		t.Fatalf("drawables %d, bodies %d", len(s.Drawables()), s.World().BodyCount())
	}
}

func TestAvatarLandsAndJumps(t *testing.T) {
	s, rec := newScene(t)
	run(s, fakeInput{}, 60)
	if !s.Avatar().IsGrounded() {
		t.Fatalf("avatar never landed (y=%v)", s.Avatar().Position().Y)
	}

	s.Update(dt, fakeInput{primary: true})
	if rec.Plays(sound.Jump) != 1 {
		t.Fatalf("expected one jump sound, got %d", rec.Plays(sound.Jump))
	}
	if s.Avatar().JumpCooldown() != 10 {
		t.Fatalf("jump cooldown %d, want 10", s.Avatar().JumpCooldown())
	}
	run(s, fakeInput{primary: true}, 5)
	if rec.Plays(sound.Jump) != 1 {
		t.Fatalf("jump retriggered during cooldown")
	}
	if s.Avatar().Position().Y <= 1.6 {
		t.Fatalf("jump did not lift the avatar: y=%v", s.Avatar().Position().Y)
	}
}

func TestBulletLifecycle(t *testing.T) {
	s, rec := newScene(t)
	run(s, fakeInput{}, 30)
	bodies := s.World().BodyCount()

	s.Update(dt, fakeInput{secondary: true})
	if rec.Plays(sound.Fire) != 1 || s.Bullets() != 1 {
		t.Fatalf("expected one bullet and fire sound, got %d bullets %d fires", s.Bullets(), rec.Plays(sound.Fire))
	}
	if s.World().BodyCount() != bodies+1 {
		t.Fatalf("bullet body not added after the step")
	}

	for i := 0; i < 120 && s.Bullets() > 0; i++ {
		s.Update(dt, fakeInput{})
	}
	if s.Bullets() != 0 {
		t.Fatalf("bullet never hit the wall")
	}
	if rec.Plays(sound.Pop) != 1 {
		t.Fatalf("expected one pop, got %d", rec.Plays(sound.Pop))
	}
	if s.World().BodyCount() != bodies {
		t.Fatalf("bullet body left behind: %d bodies, want %d", s.World().BodyCount(), bodies)
	}
}

func TestShotCooldownLimitsBullets(t *testing.T) {
	s, rec := newScene(t)
	run(s, fakeInput{secondary: true}, 12)
	// fires on ticks 0, 6 with a 5 tick cooldown
	if got := rec.Plays(sound.Fire); got != 2 {
		t.Fatalf("expected 2 shots in 12 ticks, got %d", got)
	}
}

func TestRemoveBullet(t *testing.T) {
	s, _ := newScene(t)
	if s.RemoveBullet(s.Avatar().Entity()) {
		t.Fatalf("avatar accepted as a bullet")
	}
	if s.RemoveBullet(0) {
		t.Fatalf("unknown entity accepted")
	}

	s.Update(dt, fakeInput{secondary: true})
	var bullet physics.Tag
	for _, b := range s.World().Bodies() {
		if b.Tag().Kind == physics.KindBullet {
			bullet = b.Tag()
		}
	}
	if !s.RemoveBullet(bullet.Entity) {
		t.Fatalf("first removal should mark the bullet")
	}
	if s.RemoveBullet(bullet.Entity) {
		t.Fatalf("second removal should be a no-op")
	}
	s.Update(dt, fakeInput{})
	if s.Bullets() != 0 {
		t.Fatalf("marked bullet survived the garbage pass")
	}
}

func TestGoalCompletesThenResets(t *testing.T) {
	s, _ := newScene(t)
	start := s.Avatar().Position()
	s.Avatar().Obstacle().SetPosition(20, 1.6)

	s.Update(dt, fakeInput{})
	if !s.IsComplete() || s.Message() != "VICTORY!" {
		t.Fatalf("touching the goal did not complete the level")
	}
	if s.Countdown() != 5 {
		t.Fatalf("countdown %d, want 5", s.Countdown())
	}

	for i := 0; i < 10 && s.IsComplete(); i++ {
		s.Update(dt, fakeInput{})
	}
	if s.IsComplete() {
		t.Fatalf("level never reset after completion")
	}
	if got := s.Avatar().Position(); got.Distance(start) > 0.01 {
		t.Fatalf("avatar at %v after reset, want %v", got, start)
	}
}

func TestFallingOutFails(t *testing.T) {
	s, _ := newScene(t)
	s.Avatar().Obstacle().SetPosition(2, -3)
	s.Update(dt, fakeInput{})
	if !s.IsFailure() || s.Message() != "FAILURE!" {
		t.Fatalf("expected failure below fail_y")
	}
	if s.IsComplete() {
		t.Fatalf("failure must not complete")
	}
}

func TestResetClearsState(t *testing.T) {
	s, _ := newScene(t)
	bodies, joints := s.World().BodyCount(), s.World().JointCount()

	run(s, fakeInput{secondary: true, h: 1}, 20)
	s.SetFailure(true)
	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if s.IsFailure() || s.Countdown() != -1 || s.Pending() != 0 || s.Bullets() != 0 {
		t.Fatalf("reset left state behind: failure=%v countdown=%d pending=%d bullets=%d",
			s.IsFailure(), s.Countdown(), s.Pending(), s.Bullets())
	}
	if s.World().BodyCount() != bodies || s.World().JointCount() != joints {
		t.Fatalf("reset rebuilt %d bodies %d joints, want %d and %d",
			s.World().BodyCount(), s.World().JointCount(), bodies, joints)
	}
	if s.Avatar().IsGrounded() {
		t.Fatalf("new avatar starts grounded")
	}
}

func TestPauseStopsSounds(t *testing.T) {
	s, rec := newScene(t)
	before := s.Avatar().Position()
	s.Pause()
	for _, name := range []string{sound.Pop, sound.Fire, sound.Jump} {
		if rec.Stops(name) != 1 {
			t.Fatalf("pause did not stop %s", name)
		}
	}
	run(s, fakeInput{h: 1, secondary: true}, 10)
	if s.Avatar().Position() != before || rec.Plays(sound.Fire) != 0 {
		t.Fatalf("paused scene kept simulating")
	}
	s.Resume()
	s.Update(dt, fakeInput{})
	// position integrates before velocity, so one step from rest only
	// shows up in the velocity
	if vy := s.Avatar().Obstacle().Body().Velocity().Y; vy >= 0 {
		t.Fatalf("resumed scene did not step: vy=%v", vy)
	}
}

func TestShippedLevelGroundsAndJumps(t *testing.T) {
	lvl, err := config.Load(levels.Default)
	if err != nil {
		t.Fatalf("load %s: %v", levels.Default, err)
	}
	rec := &sound.Recorder{}
	s, err := New(lvl, rec)
	if err != nil {
		t.Fatalf("new scene: %v", err)
	}

	run(s, fakeInput{}, 240)
	if !s.Avatar().IsGrounded() {
		t.Fatalf("avatar resting at %v is not grounded", s.Avatar().Position())
	}
	s.Update(dt, fakeInput{primary: true})
	if got := rec.Plays(sound.Jump); got != 1 {
		t.Fatalf("expected one jump sound, got %d", got)
	}
}

func TestFramesWithoutStepDoNotTick(t *testing.T) {
	s, rec := newScene(t)

	s.Update(dt/2, fakeInput{secondary: true})
	if rec.Plays(sound.Fire) != 0 || s.Pending() != 0 || s.Avatar().ShotCooldown() != 0 {
		t.Fatalf("half frame ticked gameplay: fires=%d pending=%d cooldown=%d",
			rec.Plays(sound.Fire), s.Pending(), s.Avatar().ShotCooldown())
	}

	s.Update(dt/2, fakeInput{secondary: true})
	if rec.Plays(sound.Fire) != 1 || s.Avatar().ShotCooldown() != 5 {
		t.Fatalf("completed frame: fires=%d cooldown=%d, want 1 and 5",
			rec.Plays(sound.Fire), s.Avatar().ShotCooldown())
	}
}

func TestFixedStep(t *testing.T) {
	cases := []struct {
		name  string
		dts   []float64
		steps int
	}{
		{"one_frame", []float64{dt}, 1},
		{"half_frames", []float64{dt / 2, dt / 2}, 1},
		{"slow_frame", []float64{3 * dt}, 3},
		{"clamped", []float64{10 * dt}, 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, _ := newScene(t)
			marker, err := s.World().CreateBody(physics.BodyDef{
				NoGravity: true,
				Position:  cp.Vector{X: 25, Y: 15},
				Velocity:  cp.Vector{X: 1},
				Fixtures:  []physics.FixtureDef{{Shape: physics.ShapeDef{Kind: physics.ShapeCircle, Radius: 0.1}, Density: 1, Sensor: true}},
			})
			if err != nil {
				t.Fatalf("marker: %v", err)
			}
			for _, d := range c.dts {
				s.Update(d, fakeInput{})
			}
			moved := marker.Position().X - 25
			want := float64(c.steps) * s.Level().World.Step
			if d := moved - want; d > 1e-6 || d < -1e-6 {
				t.Fatalf("marker moved %v, want %v (%d steps)", moved, want, c.steps)
			}
		})
	}
}

func TestSetLevelKeepsOldOnError(t *testing.T) {
	s, _ := newScene(t)
	old := s.Level()

	bad := mustLevel(t, strings.Replace(testLevel, "extent: 3", "extent: .inf", 1))
	if err := s.SetLevel(bad); err == nil {
		t.Fatalf("expected an infinite bridge to be rejected")
	}
	if s.Level() != old || s.World().BodyCount() == 0 {
		t.Fatalf("failed reload did not restore the old level")
	}

	moved := mustLevel(t, strings.Replace(testLevel, "pos: [2, 2]", "pos: [3, 2]", 1))
	if err := s.SetLevel(moved); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if s.Avatar().Position().X != 3 {
		t.Fatalf("reload did not move the avatar")
	}
}

func TestNewRejectsNilLevel(t *testing.T) {
	if _, err := New(nil, nil); !errors.Is(err, ErrNoLevel) {
		t.Fatalf("expected ErrNoLevel, got %v", err)
	}
}
