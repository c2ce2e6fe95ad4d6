package physics

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
)

type recordingListener struct {
	begins  []Contact
	ends    []Contact
	onBegin func(c Contact)
}

func (l *recordingListener) BeginContact(c Contact) {
	l.begins = append(l.begins, c)
	if l.onBegin != nil {
		l.onBegin(c)
	}
}

func (l *recordingListener) EndContact(c Contact) {
	l.ends = append(l.ends, c)
}

func boxDef(typ BodyType, x, y, w, h float64, name string) BodyDef {
	return BodyDef{
		Type:     typ,
		Position: cp.Vector{X: x, Y: y},
		Tag:      Tag{Name: name},
		Fixtures: []FixtureDef{{
			Shape:   ShapeDef{Kind: ShapeBox, Width: w, Height: h},
			Density: 1,
		}},
	}
}

func mustBody(t *testing.T, s *Space, def BodyDef) *Body {
	t.Helper()
	b, err := s.CreateBody(def)
	if err != nil {
		t.Fatalf("create body %q: %v", def.Tag.Name, err)
	}
	return b
}

func stepN(s *Space, n int) {
	for i := 0; i < n; i++ {
		s.Step(1.0 / 60.0)
	}
}

func TestCreateBodyValidation(t *testing.T) {
	cases := []struct {
		name    string
		def     BodyDef
		wantErr bool
	}{
		{"box", boxDef(Dynamic, 0, 0, 1, 1, "box"), false},
		{"zero_width", boxDef(Dynamic, 0, 0, 0, 1, "flat"), true},
		{"circle_no_radius", BodyDef{Fixtures: []FixtureDef{{Shape: ShapeDef{Kind: ShapeCircle}}}}, true},
		{"negative_density", BodyDef{Fixtures: []FixtureDef{{Shape: ShapeDef{Kind: ShapeCircle, Radius: 1}, Density: -1}}}, true},
		{"polygon_two_points", BodyDef{Fixtures: []FixtureDef{{Shape: ShapeDef{Kind: ShapePolygon, Points: []cp.Vector{{}, {X: 1}}}}}}, true},
		{"static_loop", BodyDef{Type: Static, Fixtures: []FixtureDef{{Shape: ShapeDef{Kind: ShapeLoop, Points: []cp.Vector{{}, {X: 4}, {X: 4, Y: 1}}}}}}, false},
		{"no_fixtures_static", BodyDef{Type: Static}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewSpace(cp.Vector{Y: -10})
			b, err := s.CreateBody(c.def)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error, got body %v", b)
				}
				if !errors.Is(err, ErrInvalidDef) {
					t.Fatalf("expected ErrInvalidDef, got %v", err)
				}
				if s.BodyCount() != 0 {
					t.Fatalf("failed create left %d bodies", s.BodyCount())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !s.Contains(b) || !b.Active() {
				t.Fatalf("body not registered")
			}
		})
	}
}

func TestDynamicBodyFallsAndReportsContact(t *testing.T) {
	s := NewSpace(cp.Vector{Y: -10})
	l := &recordingListener{}
	s.SetContactListener(l)

	floor := mustBody(t, s, boxDef(Static, 0, 0, 10, 1, "floor"))
	box := mustBody(t, s, boxDef(Dynamic, 0, 2, 1, 1, "box"))

	stepN(s, 120)

	if len(l.begins) == 0 || len(l.begins)-len(l.ends) != 1 {
		t.Fatalf("expected one live contact, got %d begins and %d ends", len(l.begins), len(l.ends))
	}
	c := l.begins[len(l.begins)-1]
	bodies := map[*Body]bool{c.A.Body(): true, c.B.Body(): true}
	if !bodies[floor] || !bodies[box] {
		t.Fatalf("contact between unexpected bodies %v and %v", c.A.Body(), c.B.Body())
	}
	if box.Position().Y > 1.2 {
		t.Fatalf("box should rest on the floor, y=%v", box.Position().Y)
	}

	s.DestroyBody(floor)
	if len(l.ends) != len(l.begins) {
		t.Fatalf("destroying the floor should end the contact, got %d ends", len(l.ends))
	}
	if floor.Active() || s.Contains(floor) {
		t.Fatalf("floor still registered after destroy")
	}
}

func TestNoGravityBodyKeepsVelocity(t *testing.T) {
	s := NewSpace(cp.Vector{Y: -10})
	def := BodyDef{
		Position:  cp.Vector{},
		Velocity:  cp.Vector{X: 5},
		NoGravity: true,
		Fixtures:  []FixtureDef{{Shape: ShapeDef{Kind: ShapeCircle, Radius: 0.1}, Density: 1}},
	}
	b := mustBody(t, s, def)
	stepN(s, 60)

	v := b.Velocity()
	if v.Y != 0 {
		t.Fatalf("expected no vertical velocity, got %v", v.Y)
	}
	if v.X < 4.99 || v.X > 5.01 {
		t.Fatalf("expected vx 5, got %v", v.X)
	}
}

func TestSensorPairsDoNotTouch(t *testing.T) {
	s := NewSpace(cp.Vector{})
	l := &recordingListener{}
	s.SetContactListener(l)

	a := boxDef(Static, 0, 0, 2, 2, "a")
	a.Fixtures[0].Sensor = true
	b := boxDef(Dynamic, 0.5, 0, 2, 2, "b")
	b.Fixtures[0].Sensor = true
	mustBody(t, s, a)
	mustBody(t, s, b)

	stepN(s, 5)
	if len(l.begins) != 0 {
		t.Fatalf("sensor pair produced %d contacts", len(l.begins))
	}
}

func TestLoopFixtureReportsOneContact(t *testing.T) {
	s := NewSpace(cp.Vector{})
	l := &recordingListener{}
	s.SetContactListener(l)

	mustBody(t, s, BodyDef{
		Type: Static,
		Tag:  Tag{Name: "room", Kind: KindWall},
		Fixtures: []FixtureDef{{
			Shape: ShapeDef{Kind: ShapeLoop, Points: []cp.Vector{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}},
		}},
	})
	// Overlaps the bottom and left segments at once.
	mustBody(t, s, boxDef(Dynamic, 0.45, 0.45, 1, 1, "box"))

	s.Step(1.0 / 60.0)
	if len(l.begins) != 1 {
		t.Fatalf("expected a single begin for the loop fixture, got %d", len(l.begins))
	}
}

func TestMutationsRefusedWhileStepping(t *testing.T) {
	s := NewSpace(cp.Vector{Y: -10})
	var createErr error
	l := &recordingListener{}
	l.onBegin = func(c Contact) {
		_, createErr = s.CreateBody(boxDef(Dynamic, 5, 5, 1, 1, "late"))
		s.DestroyBody(c.A.Body())
	}
	s.SetContactListener(l)

	mustBody(t, s, boxDef(Static, 0, 0, 10, 1, "floor"))
	mustBody(t, s, boxDef(Dynamic, 0, 0.9, 1, 1, "box"))
	stepN(s, 10)

	if !errors.Is(createErr, ErrWorldLocked) {
		t.Fatalf("expected ErrWorldLocked, got %v", createErr)
	}
	if s.BodyCount() != 2 {
		t.Fatalf("bodies changed during step: %d", s.BodyCount())
	}
	if s.Locked() {
		t.Fatalf("space still locked after Step")
	}
}

func TestCreateJoint(t *testing.T) {
	s := NewSpace(cp.Vector{Y: -10})
	other := NewSpace(cp.Vector{Y: -10})

	pin := mustBody(t, s, BodyDef{Type: Static, Tag: Tag{Name: "pin"}})
	pin2 := mustBody(t, s, BodyDef{Type: Static, Position: cp.Vector{X: 1}, Tag: Tag{Name: "pin2"}})
	plank := mustBody(t, s, boxDef(Dynamic, 0.5, 0, 1, 0.2, "plank"))
	foreign := mustBody(t, other, boxDef(Dynamic, 0, 0, 1, 1, "foreign"))

	cases := []struct {
		name    string
		def     JointDef
		wantErr error
	}{
		{"ok", JointDef{BodyA: pin, BodyB: plank, LocalAnchorB: cp.Vector{X: -0.5}}, nil},
		{"nil_body", JointDef{BodyA: pin}, ErrInvalidBody},
		{"foreign_body", JointDef{BodyA: pin, BodyB: foreign}, ErrInvalidBody},
		{"self", JointDef{BodyA: plank, BodyB: plank}, ErrInvalidDef},
		{"two_static", JointDef{BodyA: pin, BodyB: pin2}, ErrInvalidDef},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			before := s.JointCount()
			j, err := s.CreateJoint(c.def)
			if c.wantErr != nil {
				if !errors.Is(err, c.wantErr) {
					t.Fatalf("expected %v, got %v", c.wantErr, err)
				}
				if s.JointCount() != before {
					t.Fatalf("failed joint changed joint count")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !s.HasJoint(j) || !j.Active() {
				t.Fatalf("joint not registered")
			}
		})
	}
}

func TestDestroyBodyDropsAttachedJoints(t *testing.T) {
	s := NewSpace(cp.Vector{Y: -10})
	pin := mustBody(t, s, BodyDef{Type: Static, Tag: Tag{Name: "pin"}})
	plank := mustBody(t, s, boxDef(Dynamic, 0.5, 0, 1, 0.2, "plank"))
	j, err := s.CreateJoint(JointDef{BodyA: pin, BodyB: plank, LocalAnchorB: cp.Vector{X: -0.5}})
	if err != nil {
		t.Fatalf("create joint: %v", err)
	}

	s.DestroyBody(plank)
	if s.JointCount() != 0 || j.Active() {
		t.Fatalf("joint survived its body")
	}
	s.DestroyBody(plank)
	s.DestroyJoint(j)
	if s.BodyCount() != 1 {
		t.Fatalf("expected only the pin, got %d bodies", s.BodyCount())
	}
}

func TestPivotJointHoldsAnchor(t *testing.T) {
	s := NewSpace(cp.Vector{Y: -10})
	pin := mustBody(t, s, BodyDef{Type: Static, Tag: Tag{Name: "pin"}})
	plank := mustBody(t, s, boxDef(Dynamic, 0.5, 0, 1, 0.2, "plank"))
	j, err := s.CreateJoint(JointDef{BodyA: pin, BodyB: plank, LocalAnchorB: cp.Vector{X: -0.5}})
	if err != nil {
		t.Fatalf("create joint: %v", err)
	}

	stepN(s, 120)
	a, b := j.WorldAnchors()
	if a.Distance(b) > 0.05 {
		t.Fatalf("anchors drifted apart: %v vs %v", a, b)
	}
	if plank.Position().Distance(cp.Vector{}) > 0.55 {
		t.Fatalf("plank left the pivot radius: %v", plank.Position())
	}
}

func TestCreateFixtureOnLiveBody(t *testing.T) {
	s := NewSpace(cp.Vector{})
	b := mustBody(t, s, boxDef(Dynamic, 0, 0, 1, 1, "avatar"))

	f, err := b.CreateFixture(FixtureDef{
		Shape:  ShapeDef{Kind: ShapeBox, Width: 0.5, Height: 0.1, Center: cp.Vector{Y: -0.5}},
		Sensor: true,
		Name:   "feet",
	})
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	got, ok := b.Fixture("feet")
	if !ok || got != f || !got.IsSensor() {
		t.Fatalf("sensor fixture not found by name")
	}

	s.DestroyBody(b)
	if _, err := b.CreateFixture(FixtureDef{Shape: ShapeDef{Kind: ShapeCircle, Radius: 1}}); !errors.Is(err, ErrInvalidBody) {
		t.Fatalf("expected ErrInvalidBody on destroyed body, got %v", err)
	}
}

func TestSetPositionMovesOnlyDynamicBodies(t *testing.T) {
	s := NewSpace(cp.Vector{})
	wall := mustBody(t, s, boxDef(Static, 0, 0, 1, 1, "wall"))
	box := mustBody(t, s, boxDef(Dynamic, 5, 5, 1, 1, "box"))

	wall.SetPosition(cp.Vector{X: 3, Y: 3})
	box.SetPosition(cp.Vector{X: 2, Y: 2})

	if got := wall.Position(); got != (cp.Vector{}) {
		t.Fatalf("static body moved to %v", got)
	}
	if got := box.Position(); got != (cp.Vector{X: 2, Y: 2}) {
		t.Fatalf("dynamic body at %v, want (2, 2)", got)
	}
}

func TestRestingFeetSensorTouchesGround(t *testing.T) {
	s := NewSpace(cp.Vector{Y: -14.7})
	l := &recordingListener{}
	s.SetContactListener(l)

	mustBody(t, s, BodyDef{
		Type: Static,
		Tag:  Tag{Name: "platform", Kind: KindPlatform},
		Fixtures: []FixtureDef{{
			Shape: ShapeDef{Kind: ShapeLoop, Points: []cp.Vector{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 1}, {X: 0, Y: 1}}},
		}},
	})
	box := mustBody(t, s, boxDef(Dynamic, 5, 2, 1, 1, "avatar"))
	if _, err := box.CreateFixture(FixtureDef{
		Shape:  ShapeDef{Kind: ShapeBox, Width: 0.6, Height: 0.1, Center: cp.Vector{Y: -0.5}},
		Sensor: true,
		Name:   "feet",
	}); err != nil {
		t.Fatalf("create sensor: %v", err)
	}

	stepN(s, 240)

	if sink := 1.5 - box.Position().Y; sink > 4*CollisionSlop {
		t.Fatalf("box sank %.4f into the platform", sink)
	}
	touching := 0
	for _, c := range l.begins {
		if c.A.Name() == "feet" || c.B.Name() == "feet" {
			touching++
		}
	}
	for _, c := range l.ends {
		if c.A.Name() == "feet" || c.B.Name() == "feet" {
			touching--
		}
	}
	if touching != 1 {
		t.Fatalf("feet sensor touching %d fixtures after settling, want 1", touching)
	}
}
