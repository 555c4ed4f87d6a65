package remote

import (
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"github.com/tasforge/tasforge/script"
	"github.com/tasforge/tasforge/sim"
)

// Pool is an in-process Transport: a fixed set of simulation goroutines
// standing in for remote workers. Useful on a many-core machine and as the
// reference transport in tests.
type Pool struct {
	log     *logrus.Logger
	phys    sim.Physics
	initial sim.Frame
	workers int

	jobs    chan poolJob
	results chan Result

	mu       sync.Mutex
	inflight map[uint16]int
	busy     int
	closed   bool

	closeOnce sync.Once
}

type poolJob struct {
	script     *script.Script
	generation uint16
}

// NewPool starts a pool with the given number of workers; values below one
// mean one per CPU. initial is the state the payload scripts simulate from.
func NewPool(log *logrus.Logger, phys sim.Physics, initial sim.Frame, workers int) *Pool {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = logrus.New()
	}
	p := &Pool{
		log:      log,
		phys:     phys,
		initial:  initial,
		workers:  workers,
		jobs:     make(chan poolJob, workers),
		results:  make(chan Result, workers*2),
		inflight: make(map[uint16]int),
	}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Close stops the workers. In-flight jobs finish; their results are
// dropped if nobody receives them. Dispatching on a closed pool is a no-op.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.jobs)
	})
}

func (p *Pool) worker() {
	defer sentry.Recover()

	for job := range p.jobs {
		frames, err := simulateRecorded(p.phys, p.initial, job.script)
		if err != nil {
			p.log.Debugf("pool: dropping failed simulation: %v", err)
			p.finish(job.generation)
			continue
		}
		res := Result{Script: job.script, Generation: job.generation, Frames: frames}
		select {
		case p.results <- res:
		default:
			p.log.Debugf("pool: result buffer full, dropping generation %d result", job.generation)
		}
		p.finish(job.generation)
	}
}

func (p *Pool) finish(generation uint16) {
	p.mu.Lock()
	p.inflight[generation]--
	if p.inflight[generation] <= 0 {
		delete(p.inflight, generation)
	}
	p.busy--
	p.mu.Unlock()
}

func (p *Pool) idle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.closed && p.busy < p.workers
}

// Receive delivers zero or one completed result.
func (p *Pool) Receive(fn func(Result)) {
	select {
	case res := <-p.results:
		fn(res)
	default:
	}
}

// IsAnySimulating reports whether a payload of the generation is still in
// flight.
func (p *Pool) IsAnySimulating(generation uint16) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inflight[generation] > 0
}

// TryDispatch hands one payload to an idle worker, if any.
func (p *Pool) TryDispatch(producer func() (*script.Script, uint16)) {
	if !p.idle() {
		return
	}
	s, generation := producer()

	// The send happens under the lock so Close cannot slip between the
	// closed check and the send.
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.jobs <- poolJob{script: s, generation: generation}:
		p.inflight[generation]++
		p.busy++
	default:
		// All workers got claimed between the idle check and the send.
	}
}

// DispatchToAll hands one payload to every currently idle worker.
func (p *Pool) DispatchToAll(producer func() (*script.Script, uint16)) {
	for p.idle() {
		before := p.busyCount()
		p.TryDispatch(producer)
		if p.busyCount() == before {
			return
		}
	}
}

func (p *Pool) busyCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}
