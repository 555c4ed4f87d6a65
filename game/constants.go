package game

const (
	DefaultGravity       = float32(800)
	DefaultFriction      = float32(4)
	DefaultAccelerate    = float32(10)
	DefaultAirAccelerate = float32(10)
	DefaultMaxSpeed      = float32(320)
	DefaultJumpImpulse   = float32(268.3281573)

	// Air acceleration caps the per-tick wish speed at 30 units regardless
	// of the real wish speed. This cap is what makes strafing gain speed.
	AirSpeedCap = float32(30)

	// StopSpeed clamps the speed used in the friction computation from below.
	StopSpeed = float32(100)

	DuckedHeight   = float32(36)
	StandingHeight = float32(72)

	// GroundEpsilon is the distance from the ground plane below which the
	// player is considered grounded.
	GroundEpsilon = float32(0.03125)
)
