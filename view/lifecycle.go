package view

import "fmt"

// Lifecycle is implemented by views that need attach/detach hooks.
type Lifecycle interface {
	Mount()
	Unmount()
}

// MountTree calls Mount on views that implement Lifecycle, parents first.
func MountTree(root View) {
	if root == nil {
		return
	}
	if m, ok := root.(Lifecycle); ok {
		m.Mount()
	}
	if p, ok := root.(Parent); ok {
		for _, child := range p.Children() {
			MountTree(child)
		}
	}
}

// UnmountTree calls Unmount on views that implement Lifecycle, children first.
func UnmountTree(root View) {
	if root == nil {
		return
	}
	if p, ok := root.(Parent); ok {
		for _, child := range p.Children() {
			UnmountTree(child)
		}
	}
	if m, ok := root.(Lifecycle); ok {
		m.Unmount()
	}
}

// State is a lifecycle owner state.
type State int

// Lifecycle states in order.
const (
	Initialized State = iota
	Created
	Started
	Resumed
	Destroyed
)

var stateNames = [...]string{"initialized", "created", "started", "resumed", "destroyed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// LifecycleOwner is the minimal host context for views that observe a
// lifecycle, save state or intercept back presses.
type LifecycleOwner struct {
	state     State
	observers []func(State)

	States    *StateRegistry
	BackPress *BackPressDispatcher
}

// NewLifecycleOwner returns an owner in the Initialized state.
func NewLifecycleOwner() *LifecycleOwner {
	return &LifecycleOwner{
		States:    NewStateRegistry(),
		BackPress: &BackPressDispatcher{},
	}
}

// State returns the current state.
func (o *LifecycleOwner) State() State { return o.state }

// Observe registers fn for every subsequent state change.
func (o *LifecycleOwner) Observe(fn func(State)) {
	o.observers = append(o.observers, fn)
}

// MoveTo steps through every intermediate state up to target, notifying
// observers at each step. Destroyed is terminal; moving backwards is only
// possible by destroying.
func (o *LifecycleOwner) MoveTo(target State) {
	if o.state == Destroyed {
		return
	}
	if target == Destroyed {
		o.set(Destroyed)
		return
	}
	for o.state < target {
		o.set(o.state + 1)
	}
}

func (o *LifecycleOwner) set(s State) {
	o.state = s
	for _, fn := range o.observers {
		fn(s)
	}
}

// StateRegistry holds saved instance state keyed by provider name.
type StateRegistry struct {
	saved map[string]any
}

// NewStateRegistry returns an empty registry.
func NewStateRegistry() *StateRegistry {
	return &StateRegistry{saved: make(map[string]any)}
}

// Save stores v under key.
func (r *StateRegistry) Save(key string, v any) { r.saved[key] = v }

// Consume returns and forgets the value saved under key.
func (r *StateRegistry) Consume(key string) (any, bool) {
	v, ok := r.saved[key]
	delete(r.saved, key)
	return v, ok
}

// BackPressDispatcher routes back presses to the most recently added
// enabled callback.
type BackPressDispatcher struct {
	callbacks []func() bool
}

// Add registers fn. fn returns true when it handled the press.
func (d *BackPressDispatcher) Add(fn func() bool) {
	d.callbacks = append(d.callbacks, fn)
}

// Dispatch offers a back press to callbacks, newest first, and reports
// whether one handled it.
func (d *BackPressDispatcher) Dispatch() bool {
	for i := len(d.callbacks) - 1; i >= 0; i-- {
		if d.callbacks[i]() {
			return true
		}
	}
	return false
}
