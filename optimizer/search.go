package optimizer

import (
	"github.com/tasforge/tasforge/internal"
	"github.com/tasforge/tasforge/objective"
	"github.com/tasforge/tasforge/sim"
)

// SearchOptions configure how attempts are generated.
type SearchOptions struct {
	// FrameLimit caps how far into the script single-frame mutations may
	// reach. Zero means the whole searched range.
	FrameLimit int
	// MutationsPerAttempt is how many mutations are applied per candidate.
	// Values below one mean one.
	MutationsPerAttempt int
	// SingleFrame selects single-frame mutation instead of whole-segment
	// mutation.
	SingleFrame bool
}

func (o SearchOptions) mutations() int {
	if o.MutationsPerAttempt < 1 {
		return 1
	}
	return o.MutationsPerAttempt
}

// Search is an in-progress annealing run over an editor. The owning
// control loop calls Step once per tick; the sequence is logically
// infinite.
type Search struct {
	e    *Editor
	phys sim.Physics
	obj  objective.Objective
	opts SearchOptions
	high int
}

// Optimize seeds the frame history via the local physics capability and
// returns a Search. Returns a nil Search when the script has no searchable
// frames.
func (e *Editor) Optimize(phys sim.Physics, obj objective.Objective, opts SearchOptions) (*Search, error) {
	if err := e.SimulateAll(phys); err != nil {
		return nil, err
	}
	if !e.HasHistory() {
		return nil, nil
	}
	return &Search{e: e, phys: phys, obj: obj, opts: opts, high: e.searchHigh(opts)}, nil
}

func (e *Editor) searchHigh(opts SearchOptions) int {
	high := len(e.frames) - 1
	if opts.FrameLimit > 0 && high > opts.FrameLimit {
		high = opts.FrameLimit
	}
	return high
}

// Step runs one annealing iteration: mutate a clone of the body, resim
// from the earliest stale frame, evaluate against the current best, and
// apply Metropolis acceptance. A simulation failure discards the candidate
// and surfaces the error; the search stays usable.
func (s *Search) Step() (objective.AttemptResult, error) {
	e := s.e

	body := e.body.Clone()
	stale := len(e.frames) - 1
	for i := 0; i < s.opts.mutations(); i++ {
		if s.opts.SingleFrame {
			frame := e.rng.Intn(s.high)
			if err := mutateFrame(e.rng, body, frame); err != nil {
				return objective.AttemptResult{Kind: objective.Invalid}, err
			}
			if frame < stale {
				stale = frame
			}
		} else {
			if frame := mutateSegment(e.rng, body); frame < stale {
				stale = frame
			}
		}
	}

	cand := append(internal.GetFrames(), e.frames[:stale+1]...)
	cand, err := sim.RunAll(s.phys, cand, body.Lines)
	if err != nil {
		internal.PutFrames(cand)
		return objective.AttemptResult{Kind: objective.Invalid}, err
	}

	e.currentIterations++

	result := s.obj.Eval(cand, e.frames)
	e.acceptCandidate(body, cand, result)
	e.UpdateTemperature()
	return result, nil
}
