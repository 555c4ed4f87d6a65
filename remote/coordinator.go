package remote

import (
	"github.com/sirupsen/logrus"

	"github.com/tasforge/tasforge/objective"
	"github.com/tasforge/tasforge/optimizer"
	"github.com/tasforge/tasforge/script"
)

// Coordinator drives an editor session with simulation performed by remote
// workers. It shares the editor's mutation and acceptance logic; only the
// physics runs elsewhere. All state is confined to the owning control
// loop's tick: every step is non-blocking and performs at most one
// receive-attempt and one dispatch round.
type Coordinator struct {
	log  *logrus.Logger
	ed   *optimizer.Editor
	tr   Transport
	obj  objective.Objective
	opts optimizer.SearchOptions
}

// NewCoordinator wires an editor to a transport.
func NewCoordinator(log *logrus.Logger, ed *optimizer.Editor, tr Transport, obj objective.Objective, opts optimizer.SearchOptions) *Coordinator {
	if log == nil {
		log = logrus.New()
	}
	return &Coordinator{log: log, ed: ed, tr: tr, obj: obj, opts: opts}
}

// Editor returns the session being coordinated.
func (c *Coordinator) Editor() *optimizer.Editor { return c.ed }

// seedStep makes sure the unmodified script gets its first full remote
// simulation before any mutation proposals go out.
func (c *Coordinator) seedStep() {
	if c.ed.HasHistory() {
		return
	}

	c.tr.Receive(func(res Result) {
		if res.Generation != c.ed.Generation() {
			c.log.Debugf("coordinator: dropping seed result of generation %d (current %d)", res.Generation, c.ed.Generation())
			return
		}
		c.ed.SeedFrames(res.Frames)
	})
	if c.ed.HasHistory() {
		return
	}

	if !c.tr.IsAnySimulating(c.ed.Generation()) {
		c.tr.TryDispatch(func() (*script.Script, uint16) {
			return c.ed.PrepareDispatch(BeginRecordCommand, DoneCommand), c.ed.Generation()
		})
	}
}

// Step advances the distributed search by one tick: collect at most one
// result, apply it if its generation still matches, then hand fresh
// mutation proposals to every idle worker. Returns immediately whether or
// not any worker responded.
func (c *Coordinator) Step() {
	c.seedStep()
	if !c.ed.HasHistory() {
		// The initial simulation hasn't come back yet.
		return
	}

	c.tr.Receive(func(res Result) {
		if res.Generation != c.ed.Generation() {
			c.log.Debugf("coordinator: dropping result of generation %d (current %d)", res.Generation, c.ed.Generation())
			return
		}
		result := c.ed.AcceptRemote(res.Script, res.Frames, c.obj)
		if result.Kind == objective.Better {
			c.log.Infof("coordinator: improvement: %s", result.Value)
		}
	})

	c.tr.DispatchToAll(func() (*script.Script, uint16) {
		return c.ed.ProposeDispatch(c.opts, BeginRecordCommand, DoneCommand), c.ed.Generation()
	})
}

// Poll drains results while the session is not optimizing, keeping only an
// awaited initial simulation. Anything else is stale by definition.
func (c *Coordinator) Poll() {
	c.tr.Receive(func(res Result) {
		if res.Generation != c.ed.Generation() {
			return
		}
		if !c.ed.HasHistory() {
			c.ed.SeedFrames(res.Frames)
		}
	})
}

// Cancel invalidates all in-flight work by bumping the generation. No
// abort is sent; superseded results are simply dropped on arrival.
func (c *Coordinator) Cancel() {
	c.ed.BumpGeneration()
}
