package optimizer

import (
	"github.com/tasforge/tasforge/oterror"
	"github.com/tasforge/tasforge/script"
	"github.com/tasforge/tasforge/sim"
)

// Minimize simplifies the finalized body without changing its observable
// outcome: optional actions are tentatively removed and the removal kept
// only when the externally observable player state after the segment is
// unchanged, then adjacent segments identical in everything but frame
// count are merged. Runs a single forward pass with a carried state.
func (e *Editor) Minimize(phys sim.Physics) error {
	state := e.frames[0].State
	params := e.frames[0].Parameters
	tick := 1

	for _, l := range e.body.Lines {
		seg, ok := l.(*script.Segment)
		if !ok {
			continue
		}
		params = params.WithFrameTime(seg.FrameTime)

		simulate := func(sg *script.Segment) (sim.PlayerState, error) {
			st := state
			t := tick
			for i := uint32(0); i < sg.FrameCount; i++ {
				var err error
				st, err = phys.Step(st, params, sg, t)
				if err != nil {
					return st, oterror.NewSimulation(t, err)
				}
				t++
			}
			return st, nil
		}

		carried, err := simulate(seg)
		if err != nil {
			return err
		}

		if seg.Keys.Use {
			seg.Keys.Use = false
			alt, err := simulate(seg)
			if err != nil {
				return err
			}
			if carried.ObservablyEqual(alt) {
				carried = alt
			} else {
				seg.Keys.Use = true
			}
		}

		if action := seg.LeaveGround; action != nil {
			seg.LeaveGround = nil
			alt, err := simulate(seg)
			if err != nil {
				return err
			}
			if carried.ObservablyEqual(alt) {
				carried = alt
			} else {
				seg.LeaveGround = action
			}
		}

		if seg.DuckBeforeGround {
			seg.DuckBeforeGround = false
			alt, err := simulate(seg)
			if err != nil {
				return err
			}
			if carried.ObservablyEqual(alt) {
				carried = alt
			} else {
				seg.DuckBeforeGround = true
			}
		}

		state = carried
		tick += int(seg.FrameCount)
	}

	e.body.Lines = mergeSegments(e.body.Lines)
	return nil
}

// mergeSegments joins runs of adjacent segments that differ only in frame
// count, summing the counts.
func mergeSegments(lines []script.Line) []script.Line {
	out := make([]script.Line, 0, len(lines))
	i := 0
	for i < len(lines) {
		seg, ok := lines[i].(*script.Segment)
		if !ok {
			out = append(out, lines[i])
			i++
			continue
		}
		merged := seg.Clone()
		j := i + 1
		for j < len(lines) {
			next, ok := lines[j].(*script.Segment)
			if !ok || !merged.EqualSettings(next) {
				break
			}
			merged.FrameCount += next.FrameCount
			j++
		}
		out = append(out, merged)
		i = j
	}
	return out
}
