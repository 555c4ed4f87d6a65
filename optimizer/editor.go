package optimizer

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"github.com/tasforge/tasforge/assert"
	"github.com/tasforge/tasforge/internal"
	"github.com/tasforge/tasforge/objective"
	"github.com/tasforge/tasforge/script"
	"github.com/tasforge/tasforge/sim"
)

// Params are the annealing parameters an editor session starts with.
type Params struct {
	Generation    uint16
	Temperature   float32
	CoolingRate   float32
	MaxIterations int
}

// Editor owns one optimization session: the untouched script prefix, the
// body being searched, the authoritative simulated history, and the
// annealing schedule. It is mutated only by its owning control loop and is
// not safe for concurrent use.
type Editor struct {
	log *logrus.Logger
	rng *rand.Rand

	// prefix is the leading part of the script excluded from the search.
	prefix *script.Script
	// body is the script being edited.
	body *script.Script

	// frames is the authoritative simulated history, starting from the
	// fixed initial frame.
	frames []sim.Frame
	// preview holds the frames of the most recent rejected or pending
	// attempt, for display only.
	preview []sim.Frame

	// generation tags outbound remote dispatches; results carrying any
	// other tag are discarded.
	generation uint16

	temperature       float32
	coolingRate       float32
	maxIterations     int
	currentIterations int
}

// New creates an editor session. The script is cut at the line owning
// firstFrame: everything before it becomes the untouched prefix, the rest
// the searched body. The body's leading console command is erased so that
// splitting the first segment cannot duplicate setup commands into
// dispatched candidates.
func New(log *logrus.Logger, s *script.Script, firstFrame int, initial sim.Frame, rng *rand.Rand, p Params) (*Editor, error) {
	l, _, err := s.Locate(firstFrame)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
	}

	full := s.Clone()
	prefix := &script.Script{Lines: append([]script.Line(nil), full.Lines[:l]...)}
	body := &script.Script{Lines: append([]script.Line(nil), full.Lines[l:]...)}

	first, ok := body.Lines[0].(*script.Segment)
	assert.IsTrue(ok, "line owning frame %d is not a segment", firstFrame)
	first.Command = ""

	return &Editor{
		log:           log,
		rng:           rng,
		prefix:        prefix,
		body:          body,
		frames:        []sim.Frame{initial},
		generation:    p.Generation,
		temperature:   p.Temperature,
		coolingRate:   p.CoolingRate,
		maxIterations: p.MaxIterations,
	}, nil
}

// Generation returns the current dispatch generation.
func (e *Editor) Generation() uint16 { return e.generation }

// BumpGeneration invalidates every in-flight remote computation: results
// tagged with a superseded generation are dropped on arrival.
func (e *Editor) BumpGeneration() { e.generation++ }

// Temperature returns the current annealing temperature.
func (e *Editor) Temperature() float32 { return e.temperature }

// Frames returns the authoritative simulated history. The slice is owned
// by the editor; callers must not mutate it.
func (e *Editor) Frames() []sim.Frame { return e.frames }

// HasHistory reports whether the body has been simulated beyond the fixed
// initial frame.
func (e *Editor) HasHistory() bool { return len(e.frames) > 1 }

// Body returns the script body being searched.
func (e *Editor) Body() *script.Script { return e.body }

// PathPoints returns the positions along the authoritative trajectory, for
// rendering.
func (e *Editor) PathPoints() []mgl32.Vec3 {
	return pathPoints(e.frames)
}

// PreviewPoints returns the positions along the most recent rejected or
// pending attempt, for rendering.
func (e *Editor) PreviewPoints() []mgl32.Vec3 {
	return pathPoints(e.preview)
}

func pathPoints(frames []sim.Frame) []mgl32.Vec3 {
	pts := make([]mgl32.Vec3, len(frames))
	for i, f := range frames {
		pts[i] = f.State.Pos
	}
	return pts
}

// SimulateAll extends the authoritative history to cover the whole body
// using the local physics capability.
func (e *Editor) SimulateAll(phys sim.Physics) error {
	frames, err := sim.RunAll(phys, e.frames, e.body.Lines)
	if err != nil {
		return err
	}
	e.frames = frames
	return nil
}

// UpdateTemperature advances the annealing schedule: once the iteration
// count exceeds the per-temperature budget, the temperature is multiplied
// by the cooling rate and the count resets.
func (e *Editor) UpdateTemperature() {
	if e.currentIterations > e.maxIterations {
		e.temperature *= e.coolingRate
		e.currentIterations = 0
		e.log.Infof("optimizer: temperature = %.4f", e.temperature)
	}
}

// acceptCandidate applies the Metropolis acceptance rule: Better always
// wins; Worse wins with probability exp(difference/temperature); Invalid
// never wins. Rejected candidates are retained as the preview.
func (e *Editor) acceptCandidate(body *script.Script, frames []sim.Frame, result objective.AttemptResult) bool {
	switch result.Kind {
	case objective.Better:
		e.adopt(body, frames)
		return true
	case objective.Worse:
		acceptance := math32.Exp(result.Difference / e.temperature)
		if acceptance > 1 {
			// A positive Worse difference breaks the objective's sign
			// contract; clamp rather than sample with a bogus factor.
			e.log.Warnf("optimizer: objective returned positive Worse difference %v", result.Difference)
			acceptance = 1
		}
		if e.rng.Float32() < acceptance {
			e.adopt(body, frames)
			return true
		}
		e.setPreview(frames)
		return false
	case objective.Invalid:
		e.setPreview(frames)
		return false
	}
	assert.IsTrue(false, "unknown attempt result kind %d", result.Kind)
	return false
}

func (e *Editor) adopt(body *script.Script, frames []sim.Frame) {
	e.body = body
	if e.frames != nil && len(e.frames) > 0 {
		internal.PutFrames(e.frames)
	}
	e.frames = frames
}

func (e *Editor) setPreview(frames []sim.Frame) {
	if e.preview != nil {
		internal.PutFrames(e.preview)
	}
	e.preview = frames
}
