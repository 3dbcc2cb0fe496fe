package backend

import "sync"

// animationTable records the first frame time each animation observed.
// It implements view.Animations.
type animationTable struct {
	mu     sync.Mutex
	starts map[any]int64
}

func newAnimationTable() *animationTable {
	return &animationTable{starts: make(map[any]int64)}
}

// Start implements view.Animations.
func (t *animationTable) Start(key any, now int64) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.starts[key]; ok {
		return s
	}
	t.starts[key] = now
	return now
}

func (t *animationTable) reset() {
	t.mu.Lock()
	clear(t.starts)
	t.mu.Unlock()
}

func (t *animationTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.starts)
}
