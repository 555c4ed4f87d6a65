package remote

import (
	"github.com/getsentry/sentry-go"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/tasforge/tasforge/sim"
)

// Worker is the remote side of the Hub transport: it connects to a hub,
// simulates dispatched payloads with its local physics, and sends back the
// recorded frames.
type Worker struct {
	log     *logrus.Logger
	phys    sim.Physics
	initial sim.Frame
}

// NewWorker creates a worker simulating payloads from the given initial
// frame.
func NewWorker(log *logrus.Logger, phys sim.Physics, initial sim.Frame) *Worker {
	if log == nil {
		log = logrus.New()
	}
	return &Worker{log: log, phys: phys, initial: initial}
}

// Run connects to the hub at the given websocket URL and serves payloads
// until the connection drops.
func (w *Worker) Run(url string) error {
	defer sentry.Recover()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	w.log.Infof("worker: connected to %s", url)

	for {
		var payload wirePayload
		if err := conn.ReadJSON(&payload); err != nil {
			return err
		}

		s, ok := decodeScript(payload.Script, payload.Hash)
		if !ok {
			w.log.Debugf("worker: dropping corrupt payload")
			continue
		}

		frames, err := simulateRecorded(w.phys, w.initial, s)
		if err != nil {
			w.log.Debugf("worker: simulation failed: %v", err)
			frames = nil
		}

		res := wireResult{
			Generation: payload.Generation,
			Script:     payload.Script,
			Hash:       payload.Hash,
			Frames:     frames,
		}
		if err := conn.WriteJSON(res); err != nil {
			return err
		}
	}
}
