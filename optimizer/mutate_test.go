package optimizer

import (
	"math/rand"
	"testing"

	"github.com/tasforge/tasforge/script"
)

func mutationScript() *script.Script {
	return &script.Script{Lines: []script.Line{
		&script.Segment{
			FrameCount: 10,
			FrameTime:  "0.010",
			Movement:   &script.Strafe{Type: script.StrafeMaxAccel, Dir: script.StrafeDir{Kind: script.DirYaw, Yaw: 90}},
		},
		&script.Segment{
			FrameCount: 20,
			FrameTime:  "0.010",
			Movement:   &script.Strafe{Type: script.StrafeMaxAccel, Dir: script.StrafeDir{Kind: script.DirLeftRight, Count: 5}},
		},
		&script.Segment{
			FrameCount: 30,
			FrameTime:  "0.010",
			Movement:   &script.Strafe{Type: script.StrafeMaxAngle, Dir: script.StrafeDir{Kind: script.DirLeft}},
		},
	}}
}

func TestMutateSegmentKeepsTotalFrames(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := mutationScript()
	total := s.TotalFrames()

	for i := 0; i < 500; i++ {
		stale := mutateSegment(rng, s)
		if got := s.TotalFrames(); got != total {
			t.Fatalf("iteration %v: total frames changed %v -> %v", i, total, got)
		}
		if stale < 0 || stale >= total {
			t.Fatalf("iteration %v: stale frame %v out of range", i, stale)
		}
		for _, seg := range s.Segments() {
			if seg.FrameCount < 1 {
				t.Fatalf("iteration %v: segment shrank to %v frames", i, seg.FrameCount)
			}
		}
	}
}

func TestMutateSegmentSingleSegment(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	s := &script.Script{Lines: []script.Line{
		&script.Segment{
			FrameCount: 10,
			FrameTime:  "0.001",
			Movement:   &script.Strafe{Type: script.StrafeMaxAccel, Dir: script.StrafeDir{Kind: script.DirLeft}},
		},
	}}

	for i := 0; i < 200; i++ {
		if stale := mutateSegment(rng, s); stale != 0 {
			t.Fatalf("iteration %v: stale frame %v, want 0", i, stale)
		}
		seg := s.Segments()[0]
		if seg.FrameCount != 10 {
			t.Fatalf("iteration %v: lone segment resized to %v", i, seg.FrameCount)
		}
	}
}

func TestMutateFrameIsolatesTarget(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s := &script.Script{Lines: []script.Line{
		&script.Segment{FrameCount: 10, FrameTime: "0.010"},
	}}

	if err := mutateFrame(rng, s, 5); err != nil {
		t.Fatal(err)
	}
	if got := s.TotalFrames(); got != 10 {
		t.Fatalf("total frames changed to %v", got)
	}

	l, repeat, err := s.Locate(5)
	if err != nil {
		t.Fatal(err)
	}
	if repeat != 0 {
		t.Fatalf("frame 5 is not the first frame of its segment (repeat %v)", repeat)
	}
	seg := s.Lines[l].(*script.Segment)
	if seg.FrameCount != 1 {
		t.Fatalf("mutated segment holds %v frames, want 1", seg.FrameCount)
	}
	if seg.Movement == nil {
		t.Fatal("mutated frame lost its movement directive")
	}
}

func TestMutateFrameOutOfRange(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	s := &script.Script{Lines: []script.Line{
		&script.Segment{FrameCount: 3, FrameTime: "0.010"},
	}}
	if err := mutateFrame(rng, s, 7); err == nil {
		t.Fatal("expected an error for a frame past the script")
	}
}

func TestShiftBoundaryConservesFrames(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a := &script.Segment{FrameCount: 50, FrameTime: "0.010"}
	b := &script.Segment{FrameCount: 50, FrameTime: "0.010"}

	for i := 0; i < 500; i++ {
		shiftBoundary(rng, a, b)
		if a.FrameCount < 1 || b.FrameCount < 1 {
			t.Fatalf("iteration %v: counts dropped below one (%v, %v)", i, a.FrameCount, b.FrameCount)
		}
		if sum := a.FrameCount + b.FrameCount; sum != 100 {
			t.Fatalf("iteration %v: frames not conserved, sum %v", i, sum)
		}
	}
}

func TestShiftBoundaryNeedsMatchingFrameTime(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	a := &script.Segment{FrameCount: 50, FrameTime: "0.010"}
	b := &script.Segment{FrameCount: 50, FrameTime: "0.001"}

	for i := 0; i < 100; i++ {
		shiftBoundary(rng, a, b)
	}
	if a.FrameCount != 50 || b.FrameCount != 50 {
		t.Fatalf("boundary moved across differing frame times (%v, %v)", a.FrameCount, b.FrameCount)
	}
}

func TestResampleStrafeDirections(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	accel := 0
	for i := 0; i < 2000; i++ {
		seg := &script.Segment{FrameCount: 1, FrameTime: "0.010"}
		resampleStrafe(rng, seg)
		m := seg.Movement
		if m == nil {
			t.Fatalf("iteration %v: no movement sampled", i)
		}
		if m.Type == script.StrafeMaxDecel && m.Dir.Kind != script.DirBest {
			t.Fatalf("iteration %v: deceleration sampled with direction %v", i, m.Dir.Kind)
		}
		if m.Type == script.StrafeMaxAccel {
			accel++
		}
	}
	// Max-acceleration is sampled nine times out of ten.
	if accel < 1600 {
		t.Fatalf("max-acceleration sampled only %v/2000 times", accel)
	}
}
