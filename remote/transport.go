package remote

import (
	"github.com/tasforge/tasforge/script"
	"github.com/tasforge/tasforge/sim"
)

// Marker console commands wrapped around every dispatched candidate. The
// simulating side starts recording frames when the begin command fires and
// stops at the done command, so the recorded region is unambiguous no
// matter what else runs on the worker.
const (
	BeginRecordCommand = "sim_begin_record"
	DoneCommand        = "sim_done"
)

// Result is one completed remote simulation round: the payload that was
// dispatched, its generation tag, and the recorded frames (excluding the
// initial frame).
type Result struct {
	Script     *script.Script
	Generation uint16
	Frames     []sim.Frame
}

// Transport hands candidates to remote simulation workers and collects
// their results. Every method is non-blocking: the coordinator's tick loop
// must never stall on the transport.
type Transport interface {
	// Receive delivers zero or one completed result to fn.
	Receive(fn func(Result))
	// IsAnySimulating reports whether any worker is still simulating a
	// payload of the given generation.
	IsAnySimulating(generation uint16) bool
	// TryDispatch hands a freshly produced payload to one idle worker, if
	// one is available. The producer is not invoked otherwise.
	TryDispatch(producer func() (*script.Script, uint16))
	// DispatchToAll invokes the producer once per currently idle worker.
	DispatchToAll(producer func() (*script.Script, uint16))
}
