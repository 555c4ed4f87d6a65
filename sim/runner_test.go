package sim

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tasforge/tasforge/oterror"
	"github.com/tasforge/tasforge/script"
)

// shiftPhys moves the player one unit along X per tick and stamps the tick
// into the yaw so tests can tell frames apart.
type shiftPhys struct{}

func (shiftPhys) Step(st PlayerState, p Parameters, seg *script.Segment, tick int) (PlayerState, error) {
	st.Pos = st.Pos.Add(mgl32.Vec3{1, 0, 0})
	st.Yaw = float32(tick)
	return st, nil
}

type failingPhys struct {
	failAt int
}

func (f failingPhys) Step(st PlayerState, p Parameters, seg *script.Segment, tick int) (PlayerState, error) {
	if tick >= f.failAt {
		return st, errors.New("boom")
	}
	return st, nil
}

func testLines() []script.Line {
	return []script.Line{
		script.Comment{Text: "warmup"},
		&script.Segment{FrameCount: 4, FrameTime: "0.010"},
		script.SaveMarker{Name: "mid"},
		&script.Segment{FrameCount: 3, FrameTime: "0.001"},
	}
}

func initialHistory() []Frame {
	return []Frame{{Parameters: DefaultParameters()}}
}

func TestRunAllFrameCount(t *testing.T) {
	frames, err := RunAll(shiftPhys{}, initialHistory(), testLines())
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 8 {
		t.Fatalf("expected 1 initial + 7 simulated frames, got %v", len(frames))
	}
	for i, f := range frames[1:] {
		if f.State.Pos.X() != float32(i+1) {
			t.Fatalf("frame %v advanced to %v", i+1, f.State.Pos.X())
		}
	}
}

func TestRunnerTickIndices(t *testing.T) {
	frames, err := RunAll(shiftPhys{}, initialHistory(), testLines())
	if err != nil {
		t.Fatal(err)
	}
	for i, f := range frames[1:] {
		if f.State.Yaw != float32(i+1) {
			t.Fatalf("frame %v was stepped with tick %v", i+1, f.State.Yaw)
		}
	}
}

func TestRunnerRefreshesFrameTime(t *testing.T) {
	frames, err := RunAll(shiftPhys{}, initialHistory(), testLines())
	if err != nil {
		t.Fatal(err)
	}
	if ft := frames[4].Parameters.FrameTime; ft != 0.010 {
		t.Fatalf("first segment frame time = %v", ft)
	}
	if ft := frames[5].Parameters.FrameTime; ft != 0.001 {
		t.Fatalf("second segment frame time = %v", ft)
	}
}

func TestRunnerResumesAfterHistory(t *testing.T) {
	full, err := RunAll(shiftPhys{}, initialHistory(), testLines())
	if err != nil {
		t.Fatal(err)
	}

	prior := append([]Frame(nil), full[:4]...)
	resumed, err := RunAll(shiftPhys{}, prior, testLines())
	if err != nil {
		t.Fatal(err)
	}
	if len(resumed) != len(full) {
		t.Fatalf("resumed run produced %v frames, want %v", len(resumed), len(full))
	}
	for i := range full {
		if resumed[i] != full[i] {
			t.Fatalf("frame %v diverged after resume: %+v vs %+v", i, resumed[i], full[i])
		}
	}
}

func TestRunnerSurfacesSimulationError(t *testing.T) {
	_, err := RunAll(failingPhys{failAt: 3}, initialHistory(), testLines())
	var simErr *oterror.SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected a simulation error, got %v", err)
	}
	if simErr.Frame != 3 {
		t.Fatalf("error reported frame %v, want 3", simErr.Frame)
	}
}

func TestRunnerExhaustsCleanly(t *testing.T) {
	r := NewRunner(shiftPhys{}, initialHistory(), testLines())
	for i := 0; i < 7; i++ {
		if _, ok, err := r.Next(); err != nil || !ok {
			t.Fatalf("frame %v: ok=%v err=%v", i, ok, err)
		}
	}
	if _, ok, err := r.Next(); ok || err != nil {
		t.Fatalf("expected exhaustion, ok=%v err=%v", ok, err)
	}
	if _, ok, _ := r.Next(); ok {
		t.Fatal("exhausted runner produced another frame")
	}
}
