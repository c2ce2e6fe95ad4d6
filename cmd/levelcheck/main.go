// Command levelcheck loads a level, builds it headless and simulates a
// scripted run, so a level file can be checked without opening a window.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/scene"
	"github.com/milk9111/platformer/sound"
)

type script struct {
	walk      float64
	jumpEvery int
	shoot     bool
	tick      int
}

func (s *script) Horizontal() float64 { return s.walk }
func (s *script) DidPrimary() bool    { return s.jumpEvery > 0 && s.tick%s.jumpEvery == 0 }
func (s *script) DidSecondary() bool  { return s.shoot }

func main() {
	levelName := flag.String("level", levels.Default, "level file in levels/")
	ticks := flag.Int("ticks", 600, "ticks to simulate")
	walk := flag.Float64("walk", 0, "horizontal input in [-1, 1]")
	jumpEvery := flag.Int("jump", 0, "press jump every n ticks (0 never)")
	shoot := flag.Bool("shoot", false, "hold the shoot button")
	flag.Parse()

	lvl, err := config.Load(*levelName)
	if err != nil {
		log.Fatalf("levelcheck: %v", err)
	}

	rec := &sound.Recorder{}
	sc, err := scene.New(lvl, rec)
	if err != nil {
		log.Fatalf("levelcheck: %v", err)
	}
	fmt.Printf("%s: %d bodies, %d joints, %d groups\n",
		*levelName, sc.World().BodyCount(), sc.World().JointCount(), len(sc.Groups()))

	in := &script{walk: *walk, jumpEvery: *jumpEvery, shoot: *shoot}
	maxBullets := 0
	for in.tick = 0; in.tick < *ticks; in.tick++ {
		sc.Update(common.DefaultStep, in)
		maxBullets = max(maxBullets, sc.Bullets())
		if msg := sc.Message(); msg != "" {
			fmt.Printf("tick %d: %s\n", in.tick, msg)
			break
		}
	}

	a := sc.Avatar()
	fmt.Printf("avatar at (%.2f, %.2f) grounded=%v\n", a.Position().X, a.Position().Y, a.IsGrounded())
	fmt.Printf("sounds: jump=%d fire=%d pop=%d, peak bullets %d\n",
		rec.Plays(sound.Jump), rec.Plays(sound.Fire), rec.Plays(sound.Pop), maxBullets)

	if sc.IsFailure() {
		os.Exit(1)
	}
}
