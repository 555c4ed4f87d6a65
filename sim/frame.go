package sim

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tasforge/tasforge/game"
	"github.com/tasforge/tasforge/script"
)

// Parameters are the per-tick simulation parameters. They stay fixed within
// a segment and are refreshed from the segment's frame time when the
// simulation enters it.
type Parameters struct {
	FrameTime     float32 `json:"frame_time"`
	Gravity       float32 `json:"gravity"`
	Friction      float32 `json:"friction"`
	Accelerate    float32 `json:"accelerate"`
	AirAccelerate float32 `json:"air_accelerate"`
	MaxSpeed      float32 `json:"max_speed"`
	StopSpeed     float32 `json:"stop_speed"`
}

// DefaultParameters returns the stock movement parameters.
func DefaultParameters() Parameters {
	return Parameters{
		FrameTime:     0.010,
		Gravity:       game.DefaultGravity,
		Friction:      game.DefaultFriction,
		Accelerate:    game.DefaultAccelerate,
		AirAccelerate: game.DefaultAirAccelerate,
		MaxSpeed:      game.DefaultMaxSpeed,
		StopSpeed:     game.StopSpeed,
	}
}

// WithFrameTime returns a copy of the parameters with the frame time
// replaced by the segment's, truncated to whole milliseconds the same way
// the game console does.
func (p Parameters) WithFrameTime(frameTime string) Parameters {
	ft, err := strconv.ParseFloat(frameTime, 32)
	if err != nil {
		ft = 0
	}
	p.FrameTime = float32(int(ft*1000)) / 1000
	return p
}

// PlayerState is the externally observable physical state of the player
// after a tick.
type PlayerState struct {
	Pos      mgl32.Vec3 `json:"pos"`
	Vel      mgl32.Vec3 `json:"vel"`
	Yaw      float32    `json:"yaw"`
	Ducked   bool       `json:"ducked"`
	OnGround bool       `json:"on_ground"`
}

// ObservablyEqual reports whether two states are indistinguishable from
// outside: position, orientation and velocity within float tolerance.
func (s PlayerState) ObservablyEqual(o PlayerState) bool {
	return game.Vec32ApproxEq(s.Pos, o.Pos) &&
		game.Vec32ApproxEq(s.Vel, o.Vel) &&
		game.Float32ApproxEq(s.Yaw, o.Yaw)
}

// Frame is one simulated input tick: the parameters used to simulate it and
// the resulting state. The first frame of a history holds the fixed
// starting state and is never resimulated.
type Frame struct {
	Parameters Parameters  `json:"parameters"`
	State      PlayerState `json:"state"`
}

// Physics advances one player state through a single tick of a segment.
// tick is the absolute frame index being produced, which side-alternating
// strafe directions key off.
type Physics interface {
	Step(state PlayerState, params Parameters, seg *script.Segment, tick int) (PlayerState, error)
}
