package sensor

import (
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/physics"
)

// Tracker is the set of fixtures currently under the avatar's ground sensor.
// The avatar is grounded while the set is non-empty, so leaving one surface
// while still standing on another keeps it grounded.
type Tracker struct {
	touching map[physics.FixtureID]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{touching: make(map[physics.FixtureID]struct{})}
}

// BeginTouch records a ground fixture. It reports whether the tracker went
// from ungrounded to grounded.
func (t *Tracker) BeginTouch(id physics.FixtureID) bool {
	if t.touching == nil {
		t.touching = make(map[physics.FixtureID]struct{})
	}
	was := len(t.touching) > 0
	t.touching[id] = struct{}{}
	return !was
}

// EndTouch forgets a ground fixture; unknown ids are ignored. It reports
// whether the tracker went from grounded to ungrounded.
func (t *Tracker) EndTouch(id physics.FixtureID) bool {
	if _, ok := t.touching[id]; !ok {
		return false
	}
	delete(t.touching, id)
	return len(t.touching) == 0
}

func (t *Tracker) Grounded() bool {
	return t != nil && len(t.touching) > 0
}

func (t *Tracker) Len() int {
	if t == nil {
		return 0
	}
	return len(t.touching)
}

func (t *Tracker) Touching(id physics.FixtureID) bool {
	_, ok := t.touching[id]
	return ok
}

func (t *Tracker) Clear() {
	clear(t.touching)
}

// Matches reports whether c involves the ground sensor named sensorName on
// exactly one side with a body other than the avatar on the other side. It
// returns the fixture the sensor touched.
func Matches(c physics.Contact, sensorName string, avatar ecs.Entity) (*physics.Fixture, bool) {
	if c.A == nil || c.B == nil || sensorName == "" {
		return nil, false
	}
	aIs := c.A.Name() == sensorName
	bIs := c.B.Name() == sensorName
	switch {
	case aIs && !bIs && c.B.Body().Tag().Entity != avatar:
		return c.B, true
	case bIs && !aIs && c.A.Body().Tag().Entity != avatar:
		return c.A, true
	}
	return nil, false
}
