package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

const messageScale = 4

// DrawMessage prints msg large and centered on the screen.
func DrawMessage(screen *ebiten.Image, msg string, c color.Color) {
	if screen == nil || msg == "" {
		return
	}
	w, h := ebtext.Measure(msg, face, 0)
	b := screen.Bounds()
	op := &ebtext.DrawOptions{}
	op.GeoM.Scale(messageScale, messageScale)
	op.GeoM.Translate(
		(float64(b.Dx())-w*messageScale)/2,
		(float64(b.Dy())-h*messageScale)/2,
	)
	op.ColorScale.ScaleWithColor(c)
	ebtext.Draw(screen, msg, face, op)
}

// Stats is the one-line status shown in the corner.
type Stats struct {
	FPS     float64
	Bullets int
	Bodies  int
	Ground  bool
	Debug   bool
}

func (s Stats) String() string {
	return fmt.Sprintf("FPS %.0f  bodies %d  bullets %d  grounded %v  debug %v", s.FPS, s.Bodies, s.Bullets, s.Ground, s.Debug)
}

// DrawStats prints s in the top left corner.
func DrawStats(screen *ebiten.Image, s Stats) {
	if screen == nil {
		return
	}
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.ColorScale.ScaleWithColor(colornames.Lightgray)
	ebtext.Draw(screen, s.String(), face, op)
}
