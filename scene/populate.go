package scene

import (
	"fmt"

	"github.com/milk9111/platformer/actor"
	"github.com/milk9111/platformer/collision"
	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/group"
	"github.com/milk9111/platformer/obstacle"
	"github.com/milk9111/platformer/physics"
	"golang.org/x/image/colornames"
)

// populate builds the level in a fixed order: goal, walls, platforms, avatar,
// bridge, spinner.
func (s *Scene) populate() error {
	lvl := s.level

	goal := obstacle.NewBox(lvl.Goal.Pos.X, lvl.Goal.Pos.Y, config.Value(lvl.Goal.Size, 1), config.Value(lvl.Goal.Size, 1))
	goal.SetName("goal")
	goal.SetKind(physics.KindGoal)
	goal.SetBodyType(physics.Static)
	goal.SetSensor(true)
	goal.SetDensity(lvl.Goal.Density)
	goal.SetFriction(lvl.Goal.Friction)
	goal.SetRestitution(lvl.Goal.Restitution)
	goal.SetColor(lvl.Goal.Debug.Or(colornames.Gold))
	if err := s.addSprite(goal); err != nil {
		return err
	}
	s.goal = goal

	// platforms share the wall material
	surfaces := []struct {
		prefix string
		kind   physics.Kind
		spec   config.SurfaceSpec
	}{
		{"wall", physics.KindWall, lvl.Walls},
		{"platform", physics.KindPlatform, lvl.Platforms},
	}
	for _, set := range surfaces {
		for i, coords := range set.spec.Positions {
			o, err := obstacle.SurfaceFromFloats(coords)
			if err != nil {
				return fmt.Errorf("%s%d: %w", set.prefix, i, err)
			}
			o.SetName(fmt.Sprintf("%s%d", set.prefix, i))
			o.SetKind(set.kind)
			o.SetDensity(lvl.Walls.Density)
			o.SetFriction(lvl.Walls.Friction)
			o.SetRestitution(lvl.Walls.Restitution)
			o.SetColor(set.spec.Debug.Or(lvl.Walls.Debug.Or(colornames.Tan)))
			if err := s.addSprite(o); err != nil {
				return err
			}
		}
	}

	if err := s.populateAvatar(); err != nil {
		return err
	}

	bridge, err := group.NewRopeBridge(group.BridgeSpec{
		Position:  lvl.Bridge.Pos.Vector(),
		PlankSize: lvl.Bridge.Size.Vector(),
		Extent:    config.Value(lvl.Bridge.Extent, 0),
		Density:   lvl.Bridge.Density,
		PinRadius: lvl.Bridge.PinRadius,
	})
	if err != nil {
		return err
	}
	recolor(bridge, lvl.Bridge.Debug)
	s.addGroup(bridge)

	spinner, err := group.NewSpinner(group.SpinnerSpec{
		Position:    lvl.Spinner.Pos.Vector(),
		Size:        lvl.Spinner.Size.Vector(),
		Radius:      config.Value(lvl.Spinner.Radius, 0),
		HighDensity: lvl.Spinner.HighDensity,
		LowDensity:  lvl.Spinner.LowDensity,
	})
	if err != nil {
		return err
	}
	recolor(spinner, lvl.Spinner.Debug)
	s.addGroup(spinner)
	return nil
}

func (s *Scene) populateAvatar() error {
	spec := s.level.Avatar
	a := actor.New(actor.Spec{
		Position:     spec.Pos.Vector(),
		Size:         config.Value(spec.Size, 1),
		Inner:        spec.Inner.Vector(),
		Density:      spec.Density,
		Friction:     spec.Friction,
		Restitution:  spec.Restitution,
		Force:        spec.Force,
		Damping:      spec.Damping,
		MaxSpeed:     spec.MaxSpeed,
		JumpForce:    spec.JumpForce,
		JumpCool:     spec.JumpCool,
		ShotCool:     spec.ShotCool,
		SensorShrink: spec.Sensor.Shrink,
		SensorHeight: spec.Sensor.Height,
	}, s.reg.Create(), s.sounds, s.volume)
	a.Obstacle().SetColor(spec.Debug.Or(a.Obstacle().Color()))
	if err := a.Activate(s.world); err != nil {
		return err
	}
	s.avatar = a
	s.byEntity.Set(a.Entity(), a.Obstacle())

	s.resolver = collision.New(collision.Config{
		Avatar:     a.Entity(),
		SensorName: a.SensorName(),
		Grounded:   a.SetGrounded,
		Remover:    s,
		Sounds:     s.sounds,
		Volume:     s.volume,
		OnComplete: func() { s.SetComplete(true) },
	})
	s.world.SetContactListener(s.resolver)
	return nil
}

func recolor(g *group.Group, c config.Color) {
	for _, m := range g.Members() {
		m.SetColor(c.Or(m.Color()))
	}
}
