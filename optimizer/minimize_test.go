package optimizer

import (
	"math/rand"
	"testing"

	"github.com/tasforge/tasforge/script"
	"github.com/tasforge/tasforge/sim"
	"github.com/tasforge/tasforge/strafesim"
)

func newMinimizeEditor(t *testing.T, lines []script.Line, initial sim.Frame) *Editor {
	t.Helper()
	s := &script.Script{Lines: lines}
	ed, err := New(quietLogger(), s, 0, initial, rand.New(rand.NewSource(1)), Params{Temperature: 1, CoolingRate: 1, MaxIterations: 1})
	if err != nil {
		t.Fatal(err)
	}
	return ed
}

func TestMinimizeMergesAdjacentSegments(t *testing.T) {
	ed := newMinimizeEditor(t, []script.Line{
		&script.Segment{FrameCount: 5, FrameTime: "0.010"},
		&script.Segment{FrameCount: 3, FrameTime: "0.010"},
		script.SaveMarker{Name: "mid"},
		&script.Segment{FrameCount: 2, FrameTime: "0.010"},
	}, sim.Frame{Parameters: sim.DefaultParameters()})

	if err := ed.Minimize(zeroPhys{}); err != nil {
		t.Fatal(err)
	}

	lines := ed.Body().Lines
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines after merging, got %v", len(lines))
	}
	if seg := lines[0].(*script.Segment); seg.FrameCount != 8 {
		t.Fatalf("merged segment holds %v frames, want 8", seg.FrameCount)
	}
	if _, ok := lines[1].(script.SaveMarker); !ok {
		t.Fatalf("save marker lost during merge: %T", lines[1])
	}
	if seg := lines[2].(*script.Segment); seg.FrameCount != 2 {
		t.Fatalf("segment past the marker resized to %v", seg.FrameCount)
	}
}

func TestMinimizeDoesNotMergeDifferingSegments(t *testing.T) {
	ed := newMinimizeEditor(t, []script.Line{
		&script.Segment{FrameCount: 5, FrameTime: "0.010"},
		&script.Segment{FrameCount: 3, FrameTime: "0.001"},
	}, sim.Frame{Parameters: sim.DefaultParameters()})

	if err := ed.Minimize(zeroPhys{}); err != nil {
		t.Fatal(err)
	}
	if got := len(ed.Body().Lines); got != 2 {
		t.Fatalf("segments with differing frame times merged down to %v lines", got)
	}
}

func TestMinimizeStripsInertActions(t *testing.T) {
	ed := newMinimizeEditor(t, []script.Line{
		&script.Segment{
			FrameCount:       5,
			FrameTime:        "0.010",
			Keys:             script.ActionKeys{Use: true},
			DuckBeforeGround: true,
			LeaveGround:      &script.LeaveGroundAction{Kind: script.LeaveGroundJump},
		},
	}, sim.Frame{Parameters: sim.DefaultParameters()})

	if err := ed.Minimize(zeroPhys{}); err != nil {
		t.Fatal(err)
	}

	seg := ed.Body().Lines[0].(*script.Segment)
	if seg.Keys.Use {
		t.Fatal("inert use key survived minimization")
	}
	if seg.LeaveGround != nil {
		t.Fatal("inert leave-ground action survived minimization")
	}
	if seg.DuckBeforeGround {
		t.Fatal("inert duck-before-ground survived minimization")
	}
}

func TestMinimizeKeepsEffectfulActions(t *testing.T) {
	ed := newMinimizeEditor(t, []script.Line{
		&script.Segment{
			FrameCount: 5,
			FrameTime:  "0.010",
			Keys:       script.ActionKeys{Use: true},
			Movement:   &script.Strafe{Type: script.StrafeMaxAccel, Dir: script.StrafeDir{Kind: script.DirLeft}},
			LeaveGround: &script.LeaveGroundAction{
				Kind:  script.LeaveGroundJump,
				Speed: script.SpeedOptimal,
			},
		},
	}, sim.Frame{
		Parameters: sim.DefaultParameters(),
		State:      sim.PlayerState{OnGround: true},
	})

	if err := ed.Minimize(strafesim.New()); err != nil {
		t.Fatal(err)
	}

	seg := ed.Body().Lines[0].(*script.Segment)
	if seg.LeaveGround == nil {
		t.Fatal("jump changes the trajectory but was removed")
	}
	if !seg.Keys.Use {
		t.Fatal("use key slows the strafe but was removed")
	}
}
