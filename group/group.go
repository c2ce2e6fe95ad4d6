package group

import (
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/platformer/obstacle"
	"github.com/milk9111/platformer/physics"
)

var ErrInvalidState = errors.New("group: invalid state")

// JointBuilder binds the members of a group once all of their bodies exist.
// BuildJoints must hand every joint it creates to add as soon as it exists, so
// a failure halfway through can still be rolled back. Release destroys any
// helper bodies the builder created for itself.
type JointBuilder interface {
	BuildJoints(w physics.World, members []*obstacle.Obstacle, add func(*physics.Joint)) error
	Release(w physics.World)
}

// Group is a set of obstacles and the joints binding them, activated and
// deactivated as one. It owns both; joints only reference member bodies.
type Group struct {
	name    string
	members []*obstacle.Obstacle
	joints  []*physics.Joint
	builder JointBuilder
	active  bool
}

func New(name string, builder JointBuilder) *Group {
	return &Group{name: name, builder: builder}
}

func (g *Group) Name() string { return g.name }

// Active reports whether every member body and joint exists.
func (g *Group) Active() bool { return g != nil && g.active }

func (g *Group) Builder() JointBuilder { return g.builder }

// Members returns the members in insertion order.
func (g *Group) Members() []*obstacle.Obstacle {
	out := make([]*obstacle.Obstacle, len(g.members))
	copy(out, g.members)
	return out
}

func (g *Group) Joints() []*physics.Joint {
	out := make([]*physics.Joint, len(g.joints))
	copy(out, g.joints)
	return out
}

func (g *Group) JointCount() int { return len(g.joints) }

// AddMember appends o. Members are fixed once the group is active.
func (g *Group) AddMember(o *obstacle.Obstacle) error {
	if o == nil {
		return fmt.Errorf("%w: nil member for %q", ErrInvalidState, g.name)
	}
	if g.active {
		return fmt.Errorf("%w: add %s to active group %q", ErrInvalidState, o, g.name)
	}
	g.members = append(g.members, o)
	return nil
}

// Activate creates every member body in insertion order and then the joints.
// On any failure everything created by this call is torn down again and the
// group stays inactive.
func (g *Group) Activate(w physics.World) error {
	if g.active {
		return nil
	}
	if len(g.members) == 0 {
		return fmt.Errorf("%w: group %q has no members", ErrInvalidState, g.name)
	}

	var err error
	for _, m := range g.members {
		if merr := m.Activate(w); merr != nil {
			err = errors.Join(err, merr)
		}
	}
	if err == nil && g.builder != nil {
		err = g.builder.BuildJoints(w, g.members, func(j *physics.Joint) {
			g.joints = append(g.joints, j)
		})
	}
	if err != nil {
		log.Printf("group: activate %q failed, rolling back: %v", g.name, err)
		g.teardown(w)
		return fmt.Errorf("group: activate %q: %w", g.name, err)
	}

	g.active = true
	return nil
}

// Deactivate destroys the joints, then the member bodies. Calling it on an
// inactive group does nothing.
func (g *Group) Deactivate(w physics.World) {
	if !g.Active() {
		return
	}
	g.teardown(w)
}

func (g *Group) teardown(w physics.World) {
	for _, j := range g.joints {
		w.DestroyJoint(j)
	}
	g.joints = g.joints[:0]
	for _, m := range g.members {
		m.Deactivate(w)
	}
	if g.builder != nil {
		g.builder.Release(w)
	}
	g.active = false
}
