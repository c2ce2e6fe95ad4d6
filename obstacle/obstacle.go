package obstacle

import (
	"fmt"
	"image/color"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/physics"
	"golang.org/x/image/colornames"
)

const wheelSegments = 16

// Obstacle wraps exactly one simulated body plus the outline used to draw it.
// It is configured while inactive and only touches the world in Activate and
// Deactivate.
type Obstacle struct {
	name   string
	kind   physics.Kind
	entity ecs.Entity

	bodyType      physics.BodyType
	position      cp.Vector
	angle         float64
	velocity      cp.Vector
	fixedRotation bool
	noGravity     bool

	shape       physics.ShapeDef
	density     float64
	friction    float64
	restitution float64
	sensor      bool

	outline []cp.Vector
	color   color.RGBA

	body    *physics.Body
	removed bool
}

func newObstacle(x, y float64, shape physics.ShapeDef) *Obstacle {
	return &Obstacle{
		position: cp.Vector{X: x, Y: y},
		shape:    shape,
		density:  1,
		color:    colornames.White,
	}
}

// NewBox creates a dynamic box centered at (x, y).
func NewBox(x, y, width, height float64) *Obstacle {
	o := newObstacle(x, y, physics.ShapeDef{Kind: physics.ShapeBox, Width: width, Height: height})
	hw, hh := width/2, height/2
	o.outline = []cp.Vector{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	return o
}

// NewWheel creates a dynamic circle centered at (x, y).
func NewWheel(x, y, radius float64) *Obstacle {
	o := newObstacle(x, y, physics.ShapeDef{Kind: physics.ShapeCircle, Radius: radius})
	o.outline = make([]cp.Vector, wheelSegments)
	for i := range o.outline {
		th := float64(i) * 2 * math.Pi / wheelSegments
		o.outline[i] = cp.Vector{X: math.Cos(th) * radius, Y: math.Sin(th) * radius}
	}
	return o
}

// NewCapsule creates an upright capsule centered at (x, y).
func NewCapsule(x, y, width, height float64) *Obstacle {
	o := newObstacle(x, y, physics.ShapeDef{Kind: physics.ShapeCapsule, Width: width, Height: height})
	r := width / 2
	half := math.Max(0, height/2-r)
	const arc = wheelSegments / 2
	for i := 0; i <= arc; i++ {
		th := float64(i) * math.Pi / arc
		o.outline = append(o.outline, cp.Vector{X: math.Cos(th) * r, Y: half + math.Sin(th)*r})
	}
	for i := 0; i <= arc; i++ {
		th := math.Pi + float64(i)*math.Pi/arc
		o.outline = append(o.outline, cp.Vector{X: math.Cos(th) * r, Y: -half + math.Sin(th)*r})
	}
	return o
}

// NewSurface creates static terrain from a closed outline given in world
// coordinates.
func NewSurface(points []cp.Vector) *Obstacle {
	pts := append([]cp.Vector(nil), points...)
	o := newObstacle(0, 0, physics.ShapeDef{Kind: physics.ShapeLoop, Points: pts})
	o.bodyType = physics.Static
	o.outline = pts
	return o
}

// SurfaceFromFloats turns a flat [x0, y0, x1, y1, ...] list into a surface.
func SurfaceFromFloats(coords []float64) (*Obstacle, error) {
	if len(coords)%2 != 0 || len(coords) < 4 {
		return nil, fmt.Errorf("obstacle: surface needs an even count of at least 4 coordinates, got %d", len(coords))
	}
	pts := make([]cp.Vector, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		pts = append(pts, cp.Vector{X: coords[i], Y: coords[i+1]})
	}
	return NewSurface(pts), nil
}

func (o *Obstacle) Name() string           { return o.name }
func (o *Obstacle) Kind() physics.Kind     { return o.kind }
func (o *Obstacle) Entity() ecs.Entity     { return o.entity }
func (o *Obstacle) Width() float64         { return o.shape.Width }
func (o *Obstacle) Height() float64        { return o.shape.Height }
func (o *Obstacle) Radius() float64        { return o.shape.Radius }
func (o *Obstacle) Color() color.RGBA      { return o.color }
func (o *Obstacle) Type() physics.BodyType { return o.bodyType }
func (o *Obstacle) Density() float64       { return o.density }

// Outline is the drawable outline in body-local coordinates.
func (o *Obstacle) Outline() []cp.Vector { return o.outline }

func (o *Obstacle) SetName(name string)            { o.name = name }
func (o *Obstacle) SetKind(k physics.Kind)         { o.kind = k }
func (o *Obstacle) SetEntity(e ecs.Entity)         { o.entity = e }
func (o *Obstacle) SetBodyType(t physics.BodyType) { o.bodyType = t }
func (o *Obstacle) SetDensity(d float64)           { o.density = d }
func (o *Obstacle) SetFriction(f float64)          { o.friction = f }
func (o *Obstacle) SetRestitution(r float64)       { o.restitution = r }
func (o *Obstacle) SetSensor(sensor bool)          { o.sensor = sensor }
func (o *Obstacle) SetFixedRotation(fixed bool)    { o.fixedRotation = fixed }
func (o *Obstacle) SetColor(c color.RGBA)          { o.color = c }
func (o *Obstacle) SetAngle(a float64)             { o.angle = a }

// SetGravityScale follows the usual convention: zero turns gravity off for
// this body, anything else leaves it on.
func (o *Obstacle) SetGravityScale(s float64) { o.noGravity = s == 0 }

func (o *Obstacle) SetVelocity(vx, vy float64) {
	o.velocity = cp.Vector{X: vx, Y: vy}
	if o.Active() {
		o.body.SetVelocity(vx, vy)
	}
}

// Position is the live body position while active, the configured one
// otherwise.
func (o *Obstacle) Position() cp.Vector {
	if o.Active() {
		return o.body.Position()
	}
	return o.position
}

func (o *Obstacle) SetPosition(x, y float64) {
	o.position = cp.Vector{X: x, Y: y}
	if o.Active() {
		o.body.SetPosition(o.position)
	}
}

func (o *Obstacle) Angle() float64 {
	if o.Active() {
		return o.body.Angle()
	}
	return o.angle
}

func (o *Obstacle) Body() *physics.Body { return o.body }

// Active reports whether the body currently exists in a world.
func (o *Obstacle) Active() bool {
	return o != nil && o.body != nil && o.body.Active()
}

// BodyDef is the definition Activate hands to the world.
func (o *Obstacle) BodyDef() physics.BodyDef {
	return physics.BodyDef{
		Type:          o.bodyType,
		Position:      o.position,
		Angle:         o.angle,
		Velocity:      o.velocity,
		FixedRotation: o.fixedRotation,
		NoGravity:     o.noGravity,
		Tag:           physics.Tag{Name: o.name, Kind: o.kind, Entity: o.entity},
		Fixtures: []physics.FixtureDef{{
			Shape:       o.shape,
			Density:     o.density,
			Friction:    o.friction,
			Restitution: o.restitution,
			Sensor:      o.sensor,
			Name:        o.name,
		}},
	}
}

// Activate creates the body in w. Activating an active obstacle does nothing.
func (o *Obstacle) Activate(w physics.World) error {
	if o.Active() {
		return nil
	}
	b, err := w.CreateBody(o.BodyDef())
	if err != nil {
		return fmt.Errorf("obstacle: activate %q: %w", o.name, err)
	}
	o.body = b
	return nil
}

// Deactivate destroys the body. It is safe to call repeatedly. The last
// transform is kept so a later Activate puts the body back where it was.
func (o *Obstacle) Deactivate(w physics.World) {
	if o.body == nil {
		return
	}
	if o.body.Active() {
		o.position = o.body.Position()
		o.angle = o.body.Angle()
		w.DestroyBody(o.body)
	}
	o.body = nil
}

// MarkRemoved flags the obstacle for the post-step garbage pass. It reports
// whether the mark is new.
func (o *Obstacle) MarkRemoved() bool {
	if o.removed {
		return false
	}
	o.removed = true
	return true
}

func (o *Obstacle) IsRemoved() bool { return o.removed }

func (o *Obstacle) String() string {
	return fmt.Sprintf("%s(%s)", o.name, o.kind)
}
