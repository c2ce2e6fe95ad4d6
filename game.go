package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer/assets"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/input"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/render"
	"github.com/milk9111/platformer/scene"
	"golang.org/x/image/colornames"
)

type Game struct {
	frames int
	paused bool

	levelName string
	scene     *scene.Scene
	input     *input.Keyboard
	mixer     *assets.Mixer
	watcher   *config.Watcher
	pauseUI   *ebitenui.UI
}

func NewGame(levelName string, debug, watch bool) (*Game, error) {
	lvl, err := config.Load(levelName)
	if err != nil {
		return nil, err
	}

	mixer := assets.NewMixer(assets.Context(), lvl.Sounds)
	sc, err := scene.New(lvl, mixer)
	if err != nil {
		return nil, err
	}
	if debug {
		sc.ToggleDebug()
	}

	g := &Game{
		levelName: levelName,
		scene:     sc,
		input:     input.NewKeyboard(),
		mixer:     mixer,
	}
	g.pauseUI = NewPauseUI(g)

	if watch {
		if _, err := os.Stat("levels"); err == nil {
			w, err := config.NewWatcher("levels")
			if err != nil {
				log.Printf("game: level watcher disabled: %v", err)
			} else {
				g.watcher = w
			}
		}
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			log.Printf("game: close watcher: %v", err)
		}
	}
	g.mixer.Close()
}

func (g *Game) Update() error {
	g.frames++
	g.input.Update()
	if g.input.DidExit() {
		return ebiten.Termination
	}
	g.pollReload()

	if g.input.DidPause() {
		if g.paused {
			g.resume()
		} else {
			g.pause()
		}
	}
	if g.paused {
		g.pauseUI.Update()
		g.mixer.Update()
		return nil
	}

	if g.input.DidDebug() {
		g.scene.ToggleDebug()
	}
	if g.input.DidReset() {
		g.reset()
	}
	g.scene.Update(1.0/float64(common.TPS), g.input)
	g.mixer.Update()
	return nil
}

func (g *Game) pause() {
	g.paused = true
	g.scene.Pause()
}

func (g *Game) resume() {
	g.paused = false
	g.scene.Resume()
}

func (g *Game) reset() {
	if err := g.scene.Reset(); err != nil {
		log.Printf("game: %v", err)
	}
}

// pollReload rebuilds the scene when the level file changed on disk. A level
// that fails to load or build leaves the running one in place.
func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if !levels.Matches(path, g.levelName) {
				continue
			}
			lvl, err := config.Load(g.levelName)
			if err != nil {
				log.Printf("game: reload %s: %v", path, err)
				continue
			}
			if err := g.scene.SetLevel(lvl); err != nil {
				log.Printf("game: reload %s: %v", path, err)
				continue
			}
			if g.mixer.SetClips(lvl.Sounds) {
				log.Printf("game: reloaded sounds for %s", path)
			}
			log.Printf("game: reloaded %s", path)
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("game: watcher: %v", err)
			}
			return
		default:
			return
		}
	}
}

func (g *Game) view() render.View {
	return render.View{Scale: g.scene.Scale(), Height: common.BaseHeight}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)
	view := g.view()

	render.DrawAll(screen, g.scene.Drawables(), view)
	if g.scene.Debug() {
		render.DrawSpace(screen, g.scene.World().Chipmunk(), view)
		avatar := g.scene.Avatar()
		render.DrawStats(screen, render.Stats{
			FPS:     ebiten.ActualFPS(),
			Bodies:  g.scene.World().BodyCount(),
			Bullets: g.scene.Bullets(),
			Ground:  avatar != nil && avatar.IsGrounded(),
			Debug:   true,
		})
	}

	switch {
	case g.scene.IsComplete():
		render.DrawMessage(screen, g.scene.Message(), colornames.Yellow)
	case g.scene.IsFailure():
		render.DrawMessage(screen, g.scene.Message(), colornames.Red)
	}

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic(fmt.Sprintf("shouldn't use Layout (%dx%d)", outsideWidth, outsideHeight))
}
