package physics

import "github.com/milk9111/platformer/ecs"

// Kind classifies what a body represents in the level.
type Kind uint8

const (
	KindNone Kind = iota
	KindAvatar
	KindBullet
	KindGoal
	KindWall
	KindPlatform
	KindPlank
	KindPin
	KindBarrier
)

func (k Kind) String() string {
	switch k {
	case KindAvatar:
		return "avatar"
	case KindBullet:
		return "bullet"
	case KindGoal:
		return "goal"
	case KindWall:
		return "wall"
	case KindPlatform:
		return "platform"
	case KindPlank:
		return "plank"
	case KindPin:
		return "pin"
	case KindBarrier:
		return "barrier"
	default:
		return "none"
	}
}

// Tag identifies a body and the entity that owns it.
type Tag struct {
	Name   string
	Kind   Kind
	Entity ecs.Entity
}
