package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/obstacle"
)

const strokeWidth = 2

// DrawObstacle strokes the outline of an active obstacle in its color.
func DrawObstacle(screen *ebiten.Image, o *obstacle.Obstacle, view View) {
	if screen == nil || !o.Active() {
		return
	}
	outline := o.Outline()
	if len(outline) < 2 {
		return
	}
	pos, angle := o.Position(), o.Angle()
	pts := make([]cp.Vector, len(outline))
	for i, p := range outline {
		pts[i] = Place(p, pos, angle)
	}

	c := o.Color()
	for i := range pts {
		x0, y0 := view.ToScreen(pts[i])
		x1, y1 := view.ToScreen(pts[(i+1)%len(pts)])
		vector.StrokeLine(screen, x0, y0, x1, y1, strokeWidth, c, true)
	}
}

// DrawAll draws every obstacle in order.
func DrawAll(screen *ebiten.Image, obstacles []*obstacle.Obstacle, view View) {
	for _, o := range obstacles {
		DrawObstacle(screen, o, view)
	}
}
