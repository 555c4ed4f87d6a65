package remote

import (
	"net/http"
	"sync"
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/tasforge/tasforge/script"
)

const writeTimeout = 10 * time.Second

// Hub is the networked Transport: simulation workers connect over a
// websocket and the hub hands them payloads. The idle set keeps connection
// order, so dispatch order is stable across ticks.
type Hub struct {
	log      *logrus.Logger
	upgrader websocket.Upgrader

	mu   sync.Mutex
	idle *orderedmap.OrderedMap[string, *hubWorker]
	busy map[string]*hubWorker

	results chan Result
	closed  atomic.Bool
}

type hubWorker struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex

	// generation of the payload being simulated; guarded by the hub mutex.
	generation uint16
}

func (wk *hubWorker) write(payload wirePayload) error {
	wk.writeMu.Lock()
	defer wk.writeMu.Unlock()
	_ = wk.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return wk.conn.WriteJSON(payload)
}

// NewHub creates a hub ready to accept worker connections.
func NewHub(log *logrus.Logger) *Hub {
	if log == nil {
		log = logrus.New()
	}
	return &Hub{
		log:     log,
		idle:    orderedmap.NewOrderedMap[string, *hubWorker](),
		busy:    make(map[string]*hubWorker),
		results: make(chan Result, 64),
	}
}

// Close drops every connected worker and stops accepting new ones.
func (h *Hub) Close() {
	if !h.closed.CompareAndSwap(false, true) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for el := h.idle.Front(); el != nil; el = el.Next() {
		_ = el.Value.conn.Close()
	}
	for _, wk := range h.busy {
		_ = wk.conn.Close()
	}
	h.idle = orderedmap.NewOrderedMap[string, *hubWorker]()
	h.busy = make(map[string]*hubWorker)
}

// HandleWorker upgrades an incoming worker connection and serves it until
// it drops.
func (h *Hub) HandleWorker(w http.ResponseWriter, r *http.Request) {
	if h.closed.Load() {
		http.Error(w, "hub closed", http.StatusServiceUnavailable)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debugf("hub: upgrade failed: %v", err)
		return
	}

	wk := &hubWorker{id: uuid.NewString(), conn: conn}
	h.log.Infof("hub: worker %s connected from %s", wk.id, conn.RemoteAddr())

	h.mu.Lock()
	h.idle.Set(wk.id, wk)
	h.mu.Unlock()

	h.readLoop(wk)
}

func (h *Hub) readLoop(wk *hubWorker) {
	defer func() {
		h.mu.Lock()
		h.idle.Delete(wk.id)
		delete(h.busy, wk.id)
		h.mu.Unlock()
		_ = wk.conn.Close()
	}()

	for {
		var res wireResult
		if err := wk.conn.ReadJSON(&res); err != nil {
			h.log.Infof("hub: worker %s disconnected: %v", wk.id, err)
			return
		}

		h.mu.Lock()
		delete(h.busy, wk.id)
		h.idle.Set(wk.id, wk)
		h.mu.Unlock()

		s, ok := decodeScript(res.Script, res.Hash)
		if !ok {
			h.log.Debugf("hub: dropping corrupt result from worker %s", wk.id)
			continue
		}
		select {
		case h.results <- Result{Script: s, Generation: res.Generation, Frames: res.Frames}:
		default:
			h.log.Debugf("hub: result buffer full, dropping generation %d result", res.Generation)
		}
	}
}

// WorkerCount returns how many workers are connected.
func (h *Hub) WorkerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.idle.Len() + len(h.busy)
}

// Receive delivers zero or one completed result.
func (h *Hub) Receive(fn func(Result)) {
	select {
	case res := <-h.results:
		fn(res)
	default:
	}
}

// IsAnySimulating reports whether any connected worker is simulating a
// payload of the generation.
func (h *Hub) IsAnySimulating(generation uint16) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, wk := range h.busy {
		if wk.generation == generation {
			return true
		}
	}
	return false
}

// TryDispatch hands one payload to the longest-idle worker, if any. The
// network write happens off the tick loop; a failed write just loses that
// proposal, which the search tolerates.
func (h *Hub) TryDispatch(producer func() (*script.Script, uint16)) {
	if h.closed.Load() {
		return
	}
	h.mu.Lock()
	el := h.idle.Front()
	if el == nil {
		h.mu.Unlock()
		return
	}
	wk := el.Value
	h.idle.Delete(wk.id)
	h.mu.Unlock()

	s, generation := producer()
	payload := encodePayload(s, generation)

	h.mu.Lock()
	wk.generation = generation
	h.busy[wk.id] = wk
	h.mu.Unlock()

	go func() {
		if err := wk.write(payload); err != nil {
			h.log.Debugf("hub: write to worker %s failed: %v", wk.id, err)
			_ = wk.conn.Close()
		}
	}()
}

// DispatchToAll invokes the producer once per currently idle worker.
func (h *Hub) DispatchToAll(producer func() (*script.Script, uint16)) {
	h.mu.Lock()
	n := h.idle.Len()
	h.mu.Unlock()
	for i := 0; i < n; i++ {
		h.TryDispatch(producer)
	}
}
