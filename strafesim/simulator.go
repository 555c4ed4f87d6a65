package strafesim

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/tasforge/tasforge/game"
	"github.com/tasforge/tasforge/oterror"
	"github.com/tasforge/tasforge/script"
	"github.com/tasforge/tasforge/sim"
)

// Options define simulator behavior.
type Options struct {
	JumpImpulse float32

	// Debugf receives internal simulation trace logs for callers that need
	// deep diagnostics.
	Debugf func(format string, args ...any)
}

// Simulator is the reference physics capability: flat-ground first-person
// movement with ground friction, capped air acceleration (which is what
// makes strafing gain speed) and automatic leave-ground actions. It is
// deterministic and side-effect free.
type Simulator struct {
	Options Options
}

// New returns a simulator with stock options.
func New() *Simulator {
	return &Simulator{Options: Options{JumpImpulse: game.DefaultJumpImpulse}}
}

const (
	duckTapHop  = float32(2)
	useSlowdown = float32(0.3)
	duckedSpeed = float32(0.333)
)

// Step advances the player by one tick under the segment's settings.
func (s *Simulator) Step(st sim.PlayerState, p sim.Parameters, seg *script.Segment, tick int) (sim.PlayerState, error) {
	dt := p.FrameTime
	if dt <= 0 {
		return st, oterror.New("non-positive frame time %v", dt)
	}

	st.Ducked = seg.Keys.Duck
	if seg.DuckBeforeGround && !st.OnGround && st.Vel.Y() < 0 {
		st.Ducked = true
	}

	jumped := false
	skipFriction := false
	if st.OnGround {
		switch {
		case seg.LeaveGround != nil && seg.LeaveGround.Kind == script.LeaveGroundDuckTap:
			hop := duckTapHop
			if seg.LeaveGround.ZeroMs {
				hop /= 2
			}
			st.Ducked = true
			st.OnGround = false
			st.Pos = st.Pos.Add(mgl32.Vec3{0, hop, 0})
			skipFriction = true
		case seg.Keys.Jump || (seg.LeaveGround != nil && seg.LeaveGround.Kind == script.LeaveGroundJump):
			jumped = true
			// An optimally timed jump leaves the ground before friction
			// applies; any-speed jumps eat the friction tick.
			skipFriction = seg.LeaveGround != nil && seg.LeaveGround.Speed == script.SpeedOptimal
		}
	}

	if st.OnGround && !skipFriction {
		st.Vel = applyFriction(st.Vel, p, dt)
	}

	if jumped {
		st.Vel = mgl32.Vec3{st.Vel.X(), s.jumpImpulse(), st.Vel.Z()}
		st.OnGround = false
	}

	wishspeed := p.MaxSpeed
	if st.Ducked {
		wishspeed *= duckedSpeed
	}
	if seg.Keys.Use {
		wishspeed *= useSlowdown
	}

	if seg.Movement != nil {
		wishdir, wishyaw := wishDirection(st, p, seg.Movement, wishspeed, dt, tick)
		st.Vel = accelerate(st, p, wishdir, wishspeed, dt)
		st.Yaw = wishyaw
	}

	if !st.OnGround {
		st.Vel = st.Vel.Sub(mgl32.Vec3{0, p.Gravity * dt, 0})
	}

	st.Pos = st.Pos.Add(st.Vel.Mul(dt))

	if st.Pos.Y() <= 0 && st.Vel.Y() <= 0 {
		st.Pos = mgl32.Vec3{st.Pos.X(), 0, st.Pos.Z()}
		st.Vel = mgl32.Vec3{st.Vel.X(), 0, st.Vel.Z()}
		st.OnGround = true
	} else if st.Pos.Y() > game.GroundEpsilon {
		st.OnGround = false
	}

	if s.Options.Debugf != nil {
		s.Options.Debugf("tick=%d pos=%v vel=%v ground=%v", tick, st.Pos, st.Vel, st.OnGround)
	}
	return st, nil
}

func (s *Simulator) jumpImpulse() float32 {
	if s.Options.JumpImpulse != 0 {
		return s.Options.JumpImpulse
	}
	return game.DefaultJumpImpulse
}

func applyFriction(vel mgl32.Vec3, p sim.Parameters, dt float32) mgl32.Vec3 {
	speed := game.HorizontalSpeed(vel)
	if speed < 0.1 {
		return mgl32.Vec3{0, vel.Y(), 0}
	}
	control := speed
	if control < p.StopSpeed {
		control = p.StopSpeed
	}
	newSpeed := speed - control*p.Friction*dt
	if newSpeed < 0 {
		newSpeed = 0
	}
	scale := newSpeed / speed
	return mgl32.Vec3{vel.X() * scale, vel.Y(), vel.Z() * scale}
}

// accelerate adds velocity towards wishdir, capped per tick. Airborne
// acceleration caps the usable wish speed at AirSpeedCap.
func accelerate(st sim.PlayerState, p sim.Parameters, wishdir mgl32.Vec3, wishspeed, dt float32) mgl32.Vec3 {
	accel := p.Accelerate
	wishCap := wishspeed
	if !st.OnGround {
		accel = p.AirAccelerate
		if wishCap > game.AirSpeedCap {
			wishCap = game.AirSpeedCap
		}
	}

	current := st.Vel.X()*wishdir.X() + st.Vel.Z()*wishdir.Z()
	add := wishCap - current
	if add <= 0 {
		return st.Vel
	}
	accelSpeed := accel * wishspeed * dt
	if accelSpeed > add {
		accelSpeed = add
	}
	return st.Vel.Add(wishdir.Mul(accelSpeed))
}

// wishDirection resolves a strafing directive into the wish direction for
// this tick and the yaw the player ends up facing.
func wishDirection(st sim.PlayerState, p sim.Parameters, m *script.Strafe, wishspeed, dt float32, tick int) (mgl32.Vec3, float32) {
	speed := game.HorizontalSpeed(st.Vel)

	heading := mgl32.DegToRad(st.Yaw)
	if m.Dir.Kind == script.DirYaw {
		heading = mgl32.DegToRad(m.Dir.Yaw)
	}
	if speed >= 0.1 {
		heading = math32.Atan2(st.Vel.Z(), st.Vel.X())
	}

	wishCap := wishspeed
	accel := p.Accelerate
	if !st.OnGround {
		accel = p.AirAccelerate
		if wishCap > game.AirSpeedCap {
			wishCap = game.AirSpeedCap
		}
	}
	gain := accel * wishspeed * dt

	var theta float32
	switch m.Type {
	case script.StrafeMaxAccel:
		theta = safeAcos(wishCap-gain, speed)
	case script.StrafeMaxAngle:
		theta = safeAcos(gain-wishCap, speed)
	case script.StrafeMaxDecel:
		theta = math32.Pi
	}

	angle := heading + strafeSide(m.Dir, tick)*theta
	yaw := game.WrapDegrees(mgl32.RadToDeg(angle))
	return game.YawVector(yaw), yaw
}

// safeAcos is acos(num/den) with the ratio clamped into [-1, 1] and a zero
// denominator treated as straight ahead.
func safeAcos(num, den float32) float32 {
	if den < 0.1 {
		return 0
	}
	ratio := num / den
	if ratio > 1 {
		ratio = 1
	} else if ratio < -1 {
		ratio = -1
	}
	return math32.Acos(ratio)
}

// strafeSide resolves a direction into a turning sign for this tick.
func strafeSide(d script.StrafeDir, tick int) float32 {
	switch d.Kind {
	case script.DirLeft:
		return -1
	case script.DirRight:
		return 1
	case script.DirBest, script.DirYaw:
		return 1
	case script.DirLeftRight, script.DirRightLeft:
		count := int(d.Count)
		if count < 1 {
			count = 1
		}
		side := float32(-1)
		if d.Kind == script.DirRightLeft {
			side = 1
		}
		if (tick/count)%2 == 1 {
			side = -side
		}
		return side
	}
	return 1
}
