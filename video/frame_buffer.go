package video

import "sync"

// FrameBuffer is a bounded FIFO sliding window over the most recent frames.
// The ingestion goroutine pushes while the recognition loop snapshots, so all
// access goes through the mutex.
type FrameBuffer struct {
	mu       sync.Mutex
	frames   []Frame
	capacity int
}

// NewFrameBuffer creates a frame buffer holding at most capacity frames.
func NewFrameBuffer(capacity int) *FrameBuffer {
	return &FrameBuffer{
		frames:   make([]Frame, 0, capacity),
		capacity: capacity,
	}
}

// Push appends a frame to the tail, evicting from the head while the buffer
// exceeds its capacity. Oldest frames go first.
func (fb *FrameBuffer) Push(f Frame) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	fb.frames = append(fb.frames, f)
	for len(fb.frames) > fb.capacity {
		fb.frames = fb.frames[1:]
	}
}

// IsFull reports whether the buffer holds exactly its capacity of frames.
func (fb *FrameBuffer) IsFull() bool {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.frames) == fb.capacity
}

// Len returns the current number of buffered frames.
func (fb *FrameBuffer) Len() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.frames)
}

// Capacity returns the fixed maximum buffer length.
func (fb *FrameBuffer) Capacity() int {
	return fb.capacity
}

// Snapshot returns a copy of the current contents in arrival order. The copy
// lets clip sampling proceed without holding the lock against ingestion.
func (fb *FrameBuffer) Snapshot() []Frame {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	out := make([]Frame, len(fb.frames))
	copy(out, fb.frames)
	return out
}

// Clear empties the buffer. Used on stop and session reset.
func (fb *FrameBuffer) Clear() {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.frames = fb.frames[:0]
}
