package capability

// Slot is a typed hook target. Hosts keep one per capability and read the
// current behavior with Get.
type Slot[T any] struct {
	name  Name
	want  string
	value T
	set   bool
}

// NewSlot returns a slot for name holding fallback until a rule installs a
// replacement. want names T in mismatch errors.
func NewSlot[T any](name Name, want string, fallback T) *Slot[T] {
	return &Slot[T]{name: name, want: want, value: fallback}
}

// Hook returns the slot's installation hook.
func (s *Slot[T]) Hook() Hook {
	return Hook{Name: s.name, Install: s.install}
}

func (s *Slot[T]) install(replacement any) error {
	v, ok := replacement.(T)
	if !ok {
		return &TypeMismatchError{Name: s.name, Want: s.want, Got: replacement}
	}
	s.value = v
	s.set = true
	return nil
}

// Get returns the current behavior.
func (s *Slot[T]) Get() T { return s.value }

// Substituted reports whether a rule has replaced the fallback.
func (s *Slot[T]) Substituted() bool { return s.set }
