package script

// StrafeType selects what the automatic strafing optimizes each tick.
type StrafeType uint8

const (
	StrafeMaxAccel StrafeType = iota
	StrafeMaxAngle
	StrafeMaxDecel
)

// StrafeDirKind selects how the strafing direction is chosen.
type StrafeDirKind uint8

const (
	DirLeft StrafeDirKind = iota
	DirRight
	// DirBest lets the strafing pick whichever side works out better. Only
	// meaningful together with StrafeMaxDecel.
	DirBest
	// DirYaw strafes towards a fixed yaw angle.
	DirYaw
	// DirLeftRight alternates sides every Count frames, starting left.
	DirLeftRight
	// DirRightLeft alternates sides every Count frames, starting right.
	DirRightLeft
)

// StrafeDir is the direction part of a strafing directive. Yaw is only used
// with DirYaw, Count only with DirLeftRight and DirRightLeft.
type StrafeDir struct {
	Kind  StrafeDirKind
	Yaw   float32
	Count uint32
}

// Strafe is an automatic movement directive applied on every frame of a
// segment.
type Strafe struct {
	Type StrafeType
	Dir  StrafeDir
}

// LeaveGroundSpeed is the speed condition for a leave-ground action.
type LeaveGroundSpeed uint8

const (
	SpeedAny LeaveGroundSpeed = iota
	SpeedOptimal
)

// LeaveGroundKind is how the player leaves the ground.
type LeaveGroundKind uint8

const (
	LeaveGroundJump LeaveGroundKind = iota
	LeaveGroundDuckTap
)

// LeaveGroundAction makes the player leave the ground automatically
// whenever the conditions are met within the segment.
type LeaveGroundAction struct {
	Speed LeaveGroundSpeed
	Kind  LeaveGroundKind
	// ZeroMs marks a 0ms duck-tap. Only meaningful with LeaveGroundDuckTap.
	ZeroMs bool
}

// ActionKeys are the keys held down for every frame of a segment.
type ActionKeys struct {
	Use    bool
	Duck   bool
	Jump   bool
	Attack bool
}

// Segment is a run of FrameCount identical frames: per-frame duration,
// held keys, automatic actions, and an optional one-shot console command
// fired when the segment starts. FrameCount is always at least 1.
type Segment struct {
	FrameCount uint32
	FrameTime  string

	Keys     ActionKeys
	Movement *Strafe

	DuckBeforeGround bool
	LeaveGround      *LeaveGroundAction

	Command string
}

func (s *Segment) cloneLine() Line { return s.Clone() }

// Clone returns a deep copy of the segment.
func (s *Segment) Clone() *Segment {
	c := *s
	if s.Movement != nil {
		m := *s.Movement
		c.Movement = &m
	}
	if s.LeaveGround != nil {
		a := *s.LeaveGround
		c.LeaveGround = &a
	}
	return &c
}

// EqualSettings reports whether two segments are identical in every field
// except FrameCount. Segments for which this holds can be merged by summing
// their frame counts.
func (s *Segment) EqualSettings(o *Segment) bool {
	if s.FrameTime != o.FrameTime || s.Keys != o.Keys || s.Command != o.Command ||
		s.DuckBeforeGround != o.DuckBeforeGround {
		return false
	}
	if (s.Movement == nil) != (o.Movement == nil) {
		return false
	}
	if s.Movement != nil && *s.Movement != *o.Movement {
		return false
	}
	if (s.LeaveGround == nil) != (o.LeaveGround == nil) {
		return false
	}
	if s.LeaveGround != nil && *s.LeaveGround != *o.LeaveGround {
		return false
	}
	return true
}
