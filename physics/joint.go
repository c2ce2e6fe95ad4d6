package physics

import "github.com/jakecoffman/cp"

// Joint is a handle to a pivot constraint between two bodies.
type Joint struct {
	id         uint64
	def        JointDef
	constraint *cp.Constraint
	space      *Space
}

func (j *Joint) ID() uint64    { return j.id }
func (j *Joint) Name() string  { return j.def.Name }
func (j *Joint) BodyA() *Body  { return j.def.BodyA }
func (j *Joint) BodyB() *Body  { return j.def.BodyB }
func (j *Joint) Def() JointDef { return j.def }

// Active reports whether the joint is still in a world.
func (j *Joint) Active() bool {
	return j != nil && j.space != nil
}

// WorldAnchors returns both anchors in world coordinates. They drift apart
// only while the solver is still correcting the joint.
func (j *Joint) WorldAnchors() (cp.Vector, cp.Vector) {
	return j.def.BodyA.LocalToWorld(j.def.LocalAnchorA), j.def.BodyB.LocalToWorld(j.def.LocalAnchorB)
}
