package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const stickDeadZone = 0.3

// Keyboard polls keyboard and the first gamepad once per frame.
//
//	move     A/D, arrows, left stick
//	jump     W, Up, gamepad A            (edge)
//	shoot    Space, gamepad X            (held; the avatar's cooldown paces it)
//	reset    R, gamepad Start            (edge)
//	debug    Tab, gamepad Back           (edge)
//	pause    Escape, P                   (edge)
//	exit     F12                         (edge)
type Keyboard struct {
	horizontal float64
	primary    bool
	secondary  bool
	reset      bool
	debug      bool
	pause      bool
	exit       bool
}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

func (k *Keyboard) Horizontal() float64 { return k.horizontal }
func (k *Keyboard) DidPrimary() bool    { return k.primary }
func (k *Keyboard) DidSecondary() bool  { return k.secondary }
func (k *Keyboard) DidReset() bool      { return k.reset }
func (k *Keyboard) DidDebug() bool      { return k.debug }
func (k *Keyboard) DidPause() bool      { return k.pause }
func (k *Keyboard) DidExit() bool       { return k.exit }

// Update samples the devices. Call it once at the start of each frame.
func (k *Keyboard) Update() {
	var moveX float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		moveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		moveX += 1
	}

	var gpJump, gpShoot, gpReset, gpDebug bool
	if ids := ebiten.AppendGamepadIDs(nil); len(ids) > 0 {
		gid := ids[0]

		leftX := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if leftX < -stickDeadZone {
			moveX = -1
		} else if leftX > stickDeadZone {
			moveX = 1
		}

		gpJump = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
		gpShoot = ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonRightLeft)
		gpReset = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight)
		gpDebug = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterLeft)
	}

	k.horizontal = moveX
	k.primary = inpututil.IsKeyJustPressed(ebiten.KeyW) || inpututil.IsKeyJustPressed(ebiten.KeyUp) || gpJump
	k.secondary = ebiten.IsKeyPressed(ebiten.KeySpace) || gpShoot
	k.reset = inpututil.IsKeyJustPressed(ebiten.KeyR) || gpReset
	k.debug = inpututil.IsKeyJustPressed(ebiten.KeyTab) || gpDebug
	k.pause = inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP)
	k.exit = inpututil.IsKeyJustPressed(ebiten.KeyF12)
}
