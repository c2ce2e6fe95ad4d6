package group

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/obstacle"
	"github.com/milk9111/platformer/physics"
	"golang.org/x/image/colornames"
)

// Pivot joins two members with one pivot joint at the pin member's position.
// Members are referenced by index.
type Pivot struct {
	Pin     int
	Barrier int
}

func (p Pivot) BuildJoints(w physics.World, members []*obstacle.Obstacle, add func(*physics.Joint)) error {
	if p.Pin < 0 || p.Pin >= len(members) || p.Barrier < 0 || p.Barrier >= len(members) {
		return fmt.Errorf("%w: pivot members %d/%d out of %d", ErrInvalidState, p.Pin, p.Barrier, len(members))
	}
	pin, barrier := members[p.Pin].Body(), members[p.Barrier].Body()
	if pin == nil || barrier == nil {
		return fmt.Errorf("%w: pivot member has no body", physics.ErrInvalidBody)
	}

	anchor := pin.Position()
	j, err := w.CreateJoint(physics.JointDef{
		Name:         "spin",
		BodyA:        pin,
		BodyB:        barrier,
		LocalAnchorA: pin.WorldToLocal(anchor),
		LocalAnchorB: barrier.WorldToLocal(anchor),
	})
	if err != nil {
		return err
	}
	add(j)
	return nil
}

func (Pivot) Release(physics.World) {}

// SpinnerSpec configures a barrier spinning around a static pin.
type SpinnerSpec struct {
	Position    cp.Vector
	Size        cp.Vector
	Radius      float64
	HighDensity float64
	LowDensity  float64
}

// NewSpinner builds a heavy barrier pinned at its center.
func NewSpinner(spec SpinnerSpec) (*Group, error) {
	if spec.Size.X <= 0 || spec.Size.Y <= 0 || spec.Radius <= 0 {
		return nil, fmt.Errorf("group: spinner size %v radius %g", spec.Size, spec.Radius)
	}

	barrier := obstacle.NewBox(spec.Position.X, spec.Position.Y, spec.Size.X, spec.Size.Y)
	barrier.SetName("barrier")
	barrier.SetKind(physics.KindBarrier)
	barrier.SetDensity(spec.HighDensity)
	barrier.SetColor(colornames.Lightsteelblue)

	pin := obstacle.NewWheel(spec.Position.X, spec.Position.Y, spec.Radius)
	pin.SetName("pin")
	pin.SetKind(physics.KindPin)
	pin.SetBodyType(physics.Static)
	pin.SetDensity(spec.LowDensity)
	pin.SetColor(colornames.Slategray)

	g := New("spinner", Pivot{Pin: 1, Barrier: 0})
	if err := g.AddMember(barrier); err != nil {
		return nil, err
	}
	if err := g.AddMember(pin); err != nil {
		return nil, err
	}
	return g, nil
}
