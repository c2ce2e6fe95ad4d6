package group

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/obstacle"
	"github.com/milk9111/platformer/physics"
	"golang.org/x/image/colornames"
)

// Layout splits span into segments of the nominal size. A span shorter than
// two segments becomes a single segment of the full span; otherwise the slack
// is spread evenly between the segments.
func Layout(span, nominal float64) (n int, length, spacing float64) {
	if nominal <= 0 || span <= 0 {
		return 1, span, 0
	}
	n = int(span / nominal)
	if n <= 1 {
		return 1, span, 0
	}
	return n, nominal, (span - float64(n)*nominal) / float64(n-1)
}

// Chain pins the first member's leading edge and the last member's trailing
// edge to static pins and joins neighbours edge to edge.
type Chain struct {
	LinkSize  float64
	PinRadius float64
	Density   float64

	start  *obstacle.Obstacle
	finish *obstacle.Obstacle
}

// Pins returns the anchor pins while the chain is built.
func (c *Chain) Pins() (start, finish *obstacle.Obstacle) {
	return c.start, c.finish
}

func (c *Chain) newPin(name string, at cp.Vector) *obstacle.Obstacle {
	pin := obstacle.NewWheel(at.X, at.Y, c.PinRadius)
	pin.SetName(name)
	pin.SetKind(physics.KindPin)
	pin.SetBodyType(physics.Static)
	pin.SetDensity(c.Density)
	return pin
}

func (c *Chain) BuildJoints(w physics.World, members []*obstacle.Obstacle, add func(*physics.Joint)) error {
	if len(members) == 0 {
		return fmt.Errorf("%w: chain without members", ErrInvalidState)
	}
	half := c.LinkSize / 2

	first := members[0]
	at := first.Position()
	at.X -= half
	c.start = c.newPin("pin0", at)
	if err := c.start.Activate(w); err != nil {
		return err
	}
	j, err := w.CreateJoint(physics.JointDef{
		Name:         "pin0",
		BodyA:        c.start.Body(),
		BodyB:        first.Body(),
		LocalAnchorB: cp.Vector{X: -half},
	})
	if err != nil {
		return err
	}
	add(j)

	for i := 0; i < len(members)-1; i++ {
		j, err := w.CreateJoint(physics.JointDef{
			Name:         fmt.Sprintf("link%d", i),
			BodyA:        members[i].Body(),
			BodyB:        members[i+1].Body(),
			LocalAnchorA: cp.Vector{X: half},
			LocalAnchorB: cp.Vector{X: -half},
		})
		if err != nil {
			return err
		}
		add(j)
	}

	last := members[len(members)-1]
	at = last.Position()
	at.X += half
	c.finish = c.newPin("pin1", at)
	if err := c.finish.Activate(w); err != nil {
		return err
	}
	j, err = w.CreateJoint(physics.JointDef{
		Name:         "pin1",
		BodyA:        last.Body(),
		BodyB:        c.finish.Body(),
		LocalAnchorA: cp.Vector{X: half},
	})
	if err != nil {
		return err
	}
	add(j)
	return nil
}

func (c *Chain) Release(w physics.World) {
	if c.start != nil {
		c.start.Deactivate(w)
		c.start = nil
	}
	if c.finish != nil {
		c.finish.Deactivate(w)
		c.finish = nil
	}
}

// BridgeSpec configures a rope bridge.
type BridgeSpec struct {
	Position  cp.Vector
	PlankSize cp.Vector
	// Extent is the horizontal span to the right of Position.
	Extent    float64
	Density   float64
	PinRadius float64
}

// NewRopeBridge lays planks along the span and chains them between two pins.
func NewRopeBridge(spec BridgeSpec) (*Group, error) {
	if spec.PlankSize.X <= 0 || spec.PlankSize.Y <= 0 {
		return nil, fmt.Errorf("group: bridge plank size %v", spec.PlankSize)
	}
	if spec.Extent <= 0 || math.IsInf(spec.Extent, 0) {
		return nil, fmt.Errorf("group: bridge extent %g", spec.Extent)
	}

	n, link, spacing := Layout(spec.Extent, spec.PlankSize.X)
	chain := &Chain{LinkSize: link, PinRadius: spec.PinRadius, Density: spec.Density}
	if chain.PinRadius <= 0 {
		chain.PinRadius = 0.1
	}

	g := New("bridge", chain)
	for i := 0; i < n; i++ {
		t := float64(i)*(link+spacing) + link/2
		plank := obstacle.NewBox(spec.Position.X+t, spec.Position.Y, link, spec.PlankSize.Y)
		plank.SetName(fmt.Sprintf("plank%d", i))
		plank.SetKind(physics.KindPlank)
		plank.SetDensity(spec.Density)
		plank.SetColor(colornames.Burlywood)
		if err := g.AddMember(plank); err != nil {
			return nil, err
		}
	}
	return g, nil
}
