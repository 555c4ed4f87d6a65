package internal

import (
	"sync"

	"github.com/tasforge/tasforge/sim"
)

// FramePool recycles candidate frame buffers. The annealing loop clones the
// frame history once per attempt, which dominates allocations during a
// search.
var FramePool = sync.Pool{
	New: func() interface{} {
		buf := make([]sim.Frame, 0, 512)
		return &buf
	},
}

// GetFrames takes a cleared frame buffer from the pool.
func GetFrames() []sim.Frame {
	return (*FramePool.Get().(*[]sim.Frame))[:0]
}

// PutFrames returns a frame buffer to the pool.
func PutFrames(buf []sim.Frame) {
	FramePool.Put(&buf)
}
