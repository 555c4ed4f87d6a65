package sim

import (
	"github.com/tasforge/tasforge/assert"
	"github.com/tasforge/tasforge/oterror"
	"github.com/tasforge/tasforge/script"
)

// Runner lazily produces the frames a line sequence simulates to, one per
// input tick, resuming after an existing frame history. Frames already
// covered by the history are skipped, not resimulated.
type Runner struct {
	phys   Physics
	lines  []script.Line
	params Parameters

	state PlayerState
	tick  int // absolute index of the next frame to produce

	lineIdx int
	repeat  uint32
	skip    int // frames of the history still to fast-forward over
}

// NewRunner creates a runner continuing from the given frame history.
// prior must hold at least the initial frame.
func NewRunner(phys Physics, prior []Frame, lines []script.Line) *Runner {
	assert.IsTrue(len(prior) >= 1, "frame history must hold the initial frame")
	last := prior[len(prior)-1]
	return &Runner{
		phys:   phys,
		lines:  lines,
		params: last.Parameters,
		state:  last.State,
		tick:   len(prior),
		skip:   len(prior) - 1,
	}
}

// Next produces the next frame. ok is false once the script is exhausted.
// A physics failure surfaces as a SimulationError and ends the run.
func (r *Runner) Next() (frame Frame, ok bool, err error) {
	for r.lineIdx < len(r.lines) {
		seg, isSeg := r.lines[r.lineIdx].(*script.Segment)
		if !isSeg {
			r.lineIdx++
			continue
		}
		if r.repeat == 0 {
			r.params = r.params.WithFrameTime(seg.FrameTime)
		}
		if r.repeat >= seg.FrameCount {
			r.lineIdx++
			r.repeat = 0
			continue
		}
		r.repeat++
		if r.skip > 0 {
			r.skip--
			continue
		}

		state, err := r.phys.Step(r.state, r.params, seg, r.tick)
		if err != nil {
			return Frame{}, false, oterror.NewSimulation(r.tick, err)
		}
		r.state = state
		r.tick++
		return Frame{Parameters: r.params, State: state}, true, nil
	}
	return Frame{}, false, nil
}

// RunAll appends every remaining frame the lines simulate to onto the
// given history and returns it.
func RunAll(phys Physics, prior []Frame, lines []script.Line) ([]Frame, error) {
	r := NewRunner(phys, prior, lines)
	for {
		frame, ok, err := r.Next()
		if err != nil {
			return prior, err
		}
		if !ok {
			return prior, nil
		}
		prior = append(prior, frame)
	}
}
