package objective

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tasforge/tasforge/game"
	"github.com/tasforge/tasforge/sim"
)

// Kind classifies a candidate trajectory relative to the current best.
type Kind uint8

const (
	Better Kind = iota
	Worse
	Invalid
)

// AttemptResult is the outcome of evaluating one search attempt.
// Difference is only set for Worse results and is never positive; Value is
// a human-readable objective value set for Better results.
type AttemptResult struct {
	Kind       Kind
	Difference float32
	Value      string
}

// Objective ranks a candidate frame sequence against the current best.
// Both sequences share the same initial frame.
type Objective interface {
	Eval(candidate, best []sim.Frame) AttemptResult
}

// Speed maximizes the final horizontal speed of the trajectory.
type Speed struct{}

func (Speed) Eval(candidate, best []sim.Frame) AttemptResult {
	if len(candidate) < 2 {
		return AttemptResult{Kind: Invalid}
	}
	cs := game.HorizontalSpeed(candidate[len(candidate)-1].State.Vel)
	bs := game.HorizontalSpeed(best[len(best)-1].State.Vel)
	if cs > bs {
		return AttemptResult{Kind: Better, Value: fmt.Sprintf("%.2f ups", cs)}
	}
	return AttemptResult{Kind: Worse, Difference: cs - bs}
}

// Distance maximizes displacement of the final position along Axis.
type Distance struct {
	Axis mgl32.Vec3
}

func (d Distance) Eval(candidate, best []sim.Frame) AttemptResult {
	if len(candidate) < 2 {
		return AttemptResult{Kind: Invalid}
	}
	axis := d.Axis
	if axis.Len() == 0 {
		axis = mgl32.Vec3{1, 0, 0}
	} else {
		axis = axis.Normalize()
	}
	start := candidate[0].State.Pos
	cd := candidate[len(candidate)-1].State.Pos.Sub(start).Dot(axis)
	bd := best[len(best)-1].State.Pos.Sub(start).Dot(axis)
	if cd > bd {
		return AttemptResult{Kind: Better, Value: fmt.Sprintf("%.2f units", cd)}
	}
	return AttemptResult{Kind: Worse, Difference: cd - bd}
}
