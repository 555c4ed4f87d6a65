package optimizer

import (
	"github.com/tasforge/tasforge/assert"
	"github.com/tasforge/tasforge/objective"
	"github.com/tasforge/tasforge/script"
	"github.com/tasforge/tasforge/sim"
)

// Remote dispatch support. The distributed coordinator wraps every
// outbound candidate with a leading marker command (start recording) and a
// trailing marker command (done), so the simulating side can delimit the
// recorded region from its other effects.

// PrepareDispatch builds the full dispatch payload for the current,
// unmodified body.
func (e *Editor) PrepareDispatch(beginCommand, doneCommand string) *script.Script {
	return e.buildDispatch(e.body.Clone(), beginCommand, doneCommand)
}

// ProposeDispatch mutates a clone of the body per the search options and
// wraps it into a dispatch payload. The editor's own body is untouched.
func (e *Editor) ProposeDispatch(opts SearchOptions, beginCommand, doneCommand string) *script.Script {
	body := e.body.Clone()
	high := e.searchHigh(opts)
	for i := 0; i < opts.mutations(); i++ {
		if opts.SingleFrame && high > 0 {
			// Mutation targets stay inside the simulated range.
			frame := e.rng.Intn(high)
			if err := mutateFrame(e.rng, body, frame); err != nil {
				continue
			}
		} else {
			mutateSegment(e.rng, body)
		}
	}
	return e.buildDispatch(body, beginCommand, doneCommand)
}

func (e *Editor) buildDispatch(body *script.Script, beginCommand, doneCommand string) *script.Script {
	full := &script.Script{Lines: make([]script.Line, 0, len(e.prefix.Lines)+len(body.Lines)+1)}
	full.Lines = append(full.Lines, e.prefix.Clone().Lines...)
	full.Lines = append(full.Lines, body.Lines...)

	first, ok := full.Lines[len(e.prefix.Lines)].(*script.Segment)
	assert.IsTrue(ok, "body does not start with a segment")
	first.Command = beginCommand

	full.Lines = append(full.Lines, &script.Segment{
		FrameCount: 1,
		FrameTime:  "0.001",
		Command:    doneCommand,
	})
	return full
}

// SeedFrames installs the first full remote simulation of the unmodified
// body, spliced onto the fixed initial frame. No-op once history exists.
func (e *Editor) SeedFrames(frames []sim.Frame) {
	if e.HasHistory() || len(frames) == 0 {
		return
	}
	seeded := make([]sim.Frame, 0, len(frames)+1)
	seeded = append(seeded, e.frames[0])
	seeded = append(seeded, frames...)
	e.frames = seeded
}

// AcceptRemote splices a matching-generation remote result onto the fixed
// initial frame and applies the same evaluate/accept logic as the local
// loop. A malformed payload is dropped without failing the session.
func (e *Editor) AcceptRemote(payload *script.Script, frames []sim.Frame, obj objective.Objective) objective.AttemptResult {
	body, ok := e.extractBody(payload)
	if !ok {
		e.log.Debugf("optimizer: dropping malformed remote payload")
		return objective.AttemptResult{Kind: objective.Invalid}
	}

	cand := make([]sim.Frame, 0, len(frames)+1)
	cand = append(cand, e.frames[0])
	cand = append(cand, frames...)

	e.currentIterations++
	result := obj.Eval(cand, e.frames)
	e.acceptCandidate(body, cand, result)
	e.UpdateTemperature()
	return result
}

// extractBody recovers the searched body from a dispatch payload: the
// prefix and the trailing marker segment are stripped and the leading
// marker command erased.
func (e *Editor) extractBody(payload *script.Script) (*script.Script, bool) {
	lo := len(e.prefix.Lines)
	hi := len(payload.Lines) - 1
	if lo >= hi {
		return nil, false
	}
	body := &script.Script{Lines: payload.Clone().Lines[lo:hi]}
	first, ok := body.Lines[0].(*script.Segment)
	if !ok {
		return nil, false
	}
	first.Command = ""
	return body, true
}
