package script

import (
	"errors"
	"testing"

	"github.com/tasforge/tasforge/oterror"
)

func seg(count uint32, frameTime string) *Segment {
	return &Segment{FrameCount: count, FrameTime: frameTime}
}

func testScript() *Script {
	a := seg(5, "0.010")
	a.Command = "echo start"
	return &Script{Lines: []Line{
		Comment{Text: "test script"},
		a,
		SaveMarker{Name: "mid"},
		seg(3, "0.001"),
		seg(4, "0.010"),
	}}
}

func TestTotalFrames(t *testing.T) {
	if got := testScript().TotalFrames(); got != 12 {
		t.Fatalf("expected 12 frames, got %d", got)
	}
}

func TestLocate(t *testing.T) {
	s := testScript()
	cases := []struct {
		frame  int
		line   int
		repeat uint32
	}{
		{0, 1, 0},
		{4, 1, 4},
		{5, 3, 0},
		{7, 3, 2},
		{8, 4, 0},
		{11, 4, 3},
	}
	for _, c := range cases {
		line, repeat, err := s.Locate(c.frame)
		if err != nil {
			t.Fatalf("Locate(%d): %v", c.frame, err)
		}
		if line != c.line || repeat != c.repeat {
			t.Fatalf("Locate(%d) = (%d, %d), expected (%d, %d)", c.frame, line, repeat, c.line, c.repeat)
		}
	}
}

func TestLocateOutOfRange(t *testing.T) {
	s := testScript()
	for _, frame := range []int{12, 100, -1} {
		_, _, err := s.Locate(frame)
		var structural *oterror.StructuralError
		if !errors.As(err, &structural) {
			t.Fatalf("Locate(%d): expected StructuralError, got %v", frame, err)
		}
	}
}

func TestLocateEmptyScript(t *testing.T) {
	s := &Script{Lines: []Line{Comment{Text: "nothing"}}}
	if _, _, err := s.Locate(0); err == nil {
		t.Fatal("expected error on a script with no segments")
	}
}

func TestSplitAtPreservesFrames(t *testing.T) {
	for frame := 0; frame < 12; frame++ {
		s := testScript()
		if _, err := s.SplitAt(frame); err != nil {
			t.Fatalf("SplitAt(%d): %v", frame, err)
		}
		if got := s.TotalFrames(); got != 12 {
			t.Fatalf("SplitAt(%d) changed total frames to %d", frame, got)
		}
		_, repeat, err := s.Locate(frame)
		if err != nil {
			t.Fatalf("Locate(%d) after split: %v", frame, err)
		}
		if repeat != 0 {
			t.Fatalf("SplitAt(%d) did not create a boundary: repeat = %d", frame, repeat)
		}
	}
}

func TestSplitAtIdempotent(t *testing.T) {
	once := testScript()
	if _, err := once.SplitAt(7); err != nil {
		t.Fatal(err)
	}
	twice := testScript()
	if _, err := twice.SplitAt(7); err != nil {
		t.Fatal(err)
	}
	if _, err := twice.SplitAt(7); err != nil {
		t.Fatal(err)
	}
	if once.String() != twice.String() {
		t.Fatalf("splitting twice differs from splitting once:\n%s\nvs\n%s", once.String(), twice.String())
	}
}

func TestSplitAtOutOfRange(t *testing.T) {
	s := testScript()
	if _, err := s.SplitAt(12); err == nil {
		t.Fatal("expected error splitting at the total frame count")
	}
}

func TestSplitAtKeepsCommandOnLeft(t *testing.T) {
	s := testScript()
	right, err := s.SplitAt(2)
	if err != nil {
		t.Fatal(err)
	}
	if right.Command != "" {
		t.Fatalf("right part kept the console command %q", right.Command)
	}
	left := s.Lines[1].(*Segment)
	if left.Command != "echo start" {
		t.Fatalf("left part lost the console command, has %q", left.Command)
	}
	if left.FrameCount != 2 || right.FrameCount != 3 {
		t.Fatalf("split frame counts are %d/%d, expected 2/3", left.FrameCount, right.FrameCount)
	}
}

func TestSplitSingleAt(t *testing.T) {
	for frame := 0; frame < 12; frame++ {
		s := testScript()
		single, err := s.SplitSingleAt(frame)
		if err != nil {
			t.Fatalf("SplitSingleAt(%d): %v", frame, err)
		}
		if single.FrameCount != 1 {
			t.Fatalf("SplitSingleAt(%d) produced a segment of %d frames", frame, single.FrameCount)
		}
		if got := s.TotalFrames(); got != 12 {
			t.Fatalf("SplitSingleAt(%d) changed total frames to %d", frame, got)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := testScript()
	c := s.Clone()
	c.Lines[1].(*Segment).FrameCount = 99
	if s.Lines[1].(*Segment).FrameCount != 5 {
		t.Fatal("clone shares segment state with the original")
	}
}

func TestSegmentStart(t *testing.T) {
	s := testScript()
	for i, want := range []int{0, 5, 8} {
		if got := s.SegmentStart(i); got != want {
			t.Fatalf("SegmentStart(%d) = %d, expected %d", i, got, want)
		}
	}
}
