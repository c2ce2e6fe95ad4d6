package config

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/levels"
	"gopkg.in/yaml.v3"
)

var ErrMissingField = errors.New("config: missing required field")

// Level is the whole tuning of the platform level.
type Level struct {
	World     WorldSpec         `yaml:"world"`
	Goal      GoalSpec          `yaml:"goal"`
	Walls     SurfaceSpec       `yaml:"walls"`
	Platforms SurfaceSpec       `yaml:"platforms"`
	Avatar    AvatarSpec        `yaml:"traci"`
	Bridge    BridgeSpec        `yaml:"bridge"`
	Spinner   SpinnerSpec       `yaml:"spinner"`
	Bullet    BulletSpec        `yaml:"bullet"`
	Sounds    map[string]string `yaml:"sounds"`
}

type WorldSpec struct {
	Gravity   *float64 `yaml:"gravity"`
	Step      float64  `yaml:"step"`
	MaxSteps  int      `yaml:"max_steps"`
	FailY     *float64 `yaml:"fail_y"`
	ExitCount int      `yaml:"exit_count"`
	Volume    *float64 `yaml:"volume"`
	Scale     float64  `yaml:"scale"`
}

type GoalSpec struct {
	Pos         Vec2     `yaml:"pos"`
	Size        *float64 `yaml:"size"`
	Density     float64  `yaml:"density"`
	Friction    float64  `yaml:"friction"`
	Restitution float64  `yaml:"restitution"`
	Debug       Color    `yaml:"debug"`
}

// SurfaceSpec lists static outlines as flat [x0, y0, x1, y1, ...] arrays.
type SurfaceSpec struct {
	Density     float64     `yaml:"density"`
	Friction    float64     `yaml:"friction"`
	Restitution float64     `yaml:"restitution"`
	Tile        float64     `yaml:"tile"`
	Positions   [][]float64 `yaml:"positions"`
	Debug       Color       `yaml:"debug"`
}

type SensorSpec struct {
	Shrink float64 `yaml:"shrink"`
	Height float64 `yaml:"height"`
	Debug  Color   `yaml:"debug"`
}

type AvatarSpec struct {
	Pos         Vec2       `yaml:"pos"`
	Size        *float64   `yaml:"size"`
	Inner       Vec2       `yaml:"inner"`
	Density     float64    `yaml:"density"`
	Friction    float64    `yaml:"friction"`
	Restitution float64    `yaml:"restitution"`
	Force       float64    `yaml:"force"`
	Damping     float64    `yaml:"damping"`
	MaxSpeed    float64    `yaml:"maxspeed"`
	JumpForce   float64    `yaml:"jump_force"`
	JumpCool    int        `yaml:"jump_cool"`
	ShotCool    int        `yaml:"shot_cool"`
	Sensor      SensorSpec `yaml:"sensor"`
	Debug       Color      `yaml:"debug"`
}

type BridgeSpec struct {
	Pos       Vec2     `yaml:"pos"`
	Size      Vec2     `yaml:"size"`
	Extent    *float64 `yaml:"extent"`
	Density   float64  `yaml:"density"`
	PinRadius float64  `yaml:"pin_radius"`
	Debug     Color    `yaml:"debug"`
}

type SpinnerSpec struct {
	Pos         Vec2     `yaml:"pos"`
	Size        Vec2     `yaml:"size"`
	Radius      *float64 `yaml:"radius"`
	HighDensity float64  `yaml:"high_density"`
	LowDensity  float64  `yaml:"low_density"`
	Debug       Color    `yaml:"debug"`
}

type BulletSpec struct {
	Offset  float64  `yaml:"offset"`
	Size    *float64 `yaml:"size"`
	Density float64  `yaml:"density"`
	Speed   float64  `yaml:"speed"`
	Debug   Color    `yaml:"debug"`
}

// Vec2 decodes a two element [x, y] sequence.
type Vec2 struct {
	X, Y float64
	set  bool
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y, set: true} }

func (v *Vec2) UnmarshalYAML(value *yaml.Node) error {
	var xs []float64
	if err := value.Decode(&xs); err != nil {
		return fmt.Errorf("line %d: vector: %w", value.Line, err)
	}
	if len(xs) != 2 {
		return fmt.Errorf("line %d: vector needs 2 numbers, got %d", value.Line, len(xs))
	}
	*v = V(xs[0], xs[1])
	return nil
}

func (v Vec2) IsSet() bool       { return v.set }
func (v Vec2) Vector() cp.Vector { return cp.Vector{X: v.X, Y: v.Y} }

// Value returns the pointed-to number or def when the field was absent.
func Value(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// Parse decodes a level and checks its required fields.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	lvl.applyDefaults()
	return &lvl, nil
}

// Load reads a level by name, preferring a copy on disk over the embedded one.
func Load(name string) (*Level, error) {
	data, err := levels.Load(name)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", name, err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", name, err)
	}
	return lvl, nil
}

// Validate reports every missing required field at once.
func (l *Level) Validate() error {
	var errs []error
	missing := func(field string) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrMissingField, field))
	}
	vecs := []struct {
		field string
		v     Vec2
	}{
		{"goal.pos", l.Goal.Pos},
		{"traci.pos", l.Avatar.Pos},
		{"bridge.pos", l.Bridge.Pos},
		{"bridge.size", l.Bridge.Size},
		{"spinner.pos", l.Spinner.Pos},
		{"spinner.size", l.Spinner.Size},
	}
	for _, v := range vecs {
		if !v.v.IsSet() {
			missing(v.field)
		}
	}
	scalars := []struct {
		field string
		p     *float64
	}{
		{"world.gravity", l.World.Gravity},
		{"goal.size", l.Goal.Size},
		{"traci.size", l.Avatar.Size},
		{"bridge.extent", l.Bridge.Extent},
		{"spinner.radius", l.Spinner.Radius},
		{"bullet.size", l.Bullet.Size},
	}
	for _, s := range scalars {
		if s.p == nil {
			missing(s.field)
		}
	}
	for i, pts := range append(append([][]float64{}, l.Walls.Positions...), l.Platforms.Positions...) {
		if len(pts) < 4 || len(pts)%2 != 0 {
			errs = append(errs, fmt.Errorf("config: surface %d: need an even count of at least 4 coordinates, got %d", i, len(pts)))
		}
	}
	return errors.Join(errs...)
}

func (l *Level) applyDefaults() {
	if l.World.Step <= 0 {
		l.World.Step = common.DefaultStep
	}
	if l.World.MaxSteps <= 0 {
		l.World.MaxSteps = 4
	}
	if l.World.FailY == nil {
		failY := -1.0
		l.World.FailY = &failY
	}
	if l.World.ExitCount <= 0 {
		l.World.ExitCount = 120
	}
	if l.World.Volume == nil {
		volume := 1.0
		l.World.Volume = &volume
	}
	if l.World.Scale <= 0 {
		l.World.Scale = common.DefaultScale
	}
	if !l.Avatar.Inner.IsSet() {
		l.Avatar.Inner = V(1, 1)
	}
	if l.Bridge.PinRadius <= 0 {
		l.Bridge.PinRadius = 0.1
	}
}
