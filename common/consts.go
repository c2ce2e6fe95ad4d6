package common

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// TPS is the fixed update rate the game loop runs at.
	TPS = 60

	// DefaultStep is the physics step used when a level does not set one.
	DefaultStep = 1.0 / TPS

	DefaultGravity = -14.7

	// DefaultScale is pixels per physics unit.
	DefaultScale = 40.0
)
