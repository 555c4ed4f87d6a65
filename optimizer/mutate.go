package optimizer

import (
	"math"
	"math/rand"

	"github.com/tasforge/tasforge/assert"
	"github.com/tasforge/tasforge/script"
)

// Mutation operators. Both report the earliest frame index they
// invalidated, so resimulation can resume there instead of from zero.

// mutateFrame isolates the target frame into its own one-frame segment and
// resamples it. The stale frame is the mutated index itself.
func mutateFrame(rng *rand.Rand, s *script.Script, frame int) error {
	seg, err := s.SplitSingleAt(frame)
	if err != nil {
		return err
	}
	resampleStrafe(rng, seg)
	mutateKeys(rng, seg)
	mutateAutoActions(rng, seg)
	return nil
}

// mutateSegment picks a uniformly random segment and perturbs it in place,
// shifting the boundary with the following segment when their frame times
// match. Returns the segment's first frame as the stale frame.
func mutateSegment(rng *rand.Rand, s *script.Script) int {
	segs := s.Segments()
	assert.IsTrue(len(segs) > 0, "script has no segments to mutate")
	idx := rng.Intn(len(segs))
	seg := segs[idx]

	if m := seg.Movement; m != nil {
		m.Type = sampleStrafeType(rng)

		switch m.Dir.Kind {
		case script.DirYaw:
			if rng.Float32() < 0.05 {
				// Rare large re-aim.
				m.Dir.Yaw += uniform(rng, -180, 180)
			} else {
				m.Dir.Yaw += uniform(rng, -1, 1)
			}
		case script.DirLeftRight, script.DirRightLeft:
			count := int64(m.Dir.Count) + int64(rng.Intn(20)-10)
			if count < 1 {
				count = 1
			} else if count > math.MaxUint32 {
				count = math.MaxUint32
			}
			m.Dir.Count = uint32(count)
			if rng.Float32() < 0.05 {
				if m.Dir.Kind == script.DirLeftRight {
					m.Dir.Kind = script.DirRightLeft
				} else {
					m.Dir.Kind = script.DirLeftRight
				}
			}
		case script.DirLeft, script.DirRight:
			if rng.Float32() < 0.05 {
				if m.Dir.Kind == script.DirLeft {
					m.Dir.Kind = script.DirRight
				} else {
					m.Dir.Kind = script.DirLeft
				}
			}
		}
	}

	mutateKeys(rng, seg)
	mutateAutoActions(rng, seg)

	if idx+1 < len(segs) {
		shiftBoundary(rng, seg, segs[idx+1])
	}

	return s.SegmentStart(idx)
}

// shiftBoundary moves the boundary between two adjacent segments by a
// small signed amount, transferring frames exactly. Only possible when the
// frame times match; both counts are clamped to stay in [1, max].
func shiftBoundary(rng *rand.Rand, seg, next *script.Segment) {
	if seg.FrameTime != next.FrameTime {
		return
	}

	// The next segment cannot drop below one frame or exceed the maximum.
	maxDiff := int64(next.FrameCount) - 1
	if maxDiff > 10 {
		maxDiff = 10
	}
	minDiff := int64(next.FrameCount) - math.MaxUint32
	if minDiff < -10 {
		minDiff = -10
	}
	if maxDiff <= minDiff {
		return
	}

	delta := minDiff + rng.Int63n(maxDiff-minDiff)
	orig := int64(seg.FrameCount)
	moved := orig + delta
	if moved < 1 {
		moved = 1
	} else if moved > math.MaxUint32 {
		moved = math.MaxUint32
	}
	seg.FrameCount = uint32(moved)
	next.FrameCount = uint32(int64(next.FrameCount) + (orig - moved))
}

func sampleStrafeType(rng *rand.Rand) script.StrafeType {
	p := rng.Float32()
	switch {
	case p < 0.01:
		return script.StrafeMaxDecel
	case p < 0.1:
		return script.StrafeMaxAngle
	default:
		return script.StrafeMaxAccel
	}
}

// resampleStrafe replaces the segment's movement directive outright:
// 1% max-deceleration, 9% max-angle, 90% max-acceleration; direction
// uniform left/right, or "best" for deceleration.
func resampleStrafe(rng *rand.Rand, seg *script.Segment) {
	t := sampleStrafeType(rng)
	dir := script.StrafeDir{Kind: script.DirLeft}
	if t == script.StrafeMaxDecel {
		dir.Kind = script.DirBest
	} else if rng.Intn(2) == 0 {
		dir.Kind = script.DirRight
	}
	seg.Movement = &script.Strafe{Type: t, Dir: dir}
}

func mutateKeys(rng *rand.Rand, seg *script.Segment) {
	if rng.Float32() < 0.05 {
		seg.Keys.Use = !seg.Keys.Use
	}
}

func mutateAutoActions(rng *rand.Rand, seg *script.Segment) {
	if rng.Float32() < 0.05 {
		seg.DuckBeforeGround = !seg.DuckBeforeGround
	}

	if rng.Float32() < 0.1 {
		p := rng.Float32()
		switch {
		case p < 1.0/3.0:
			seg.LeaveGround = nil
		case p < 2.0/3.0:
			seg.LeaveGround = &script.LeaveGroundAction{
				Speed:  sampleLeaveGroundSpeed(rng),
				Kind:   script.LeaveGroundDuckTap,
				ZeroMs: seg.FrameTime == "0.001",
			}
		default:
			seg.LeaveGround = &script.LeaveGroundAction{
				Speed: sampleLeaveGroundSpeed(rng),
				Kind:  script.LeaveGroundJump,
			}
		}
	}
}

func sampleLeaveGroundSpeed(rng *rand.Rand) script.LeaveGroundSpeed {
	if rng.Intn(2) == 0 {
		return script.SpeedAny
	}
	return script.SpeedOptimal
}

func uniform(rng *rand.Rand, lo, hi float32) float32 {
	return lo + rng.Float32()*(hi-lo)
}
