package view

import "github.com/gogpu/gg"

// Composable builds a view tree from the current environment. It is called
// again for every frame, so it may read env.Now or state held in closures.
type Composable func(env *Env) View

// Composition hosts a Composable. After each frame it posts a
// recomposition callback on the host scheduler; the callback keeps a
// reference to the composition until it is drained, which is why hosts
// drain once more when a composition is detached.
type Composition struct {
	content Composable
	current View
	dirty   bool

	// Recompositions counts how many times content was invoked.
	Recompositions int
}

// Compose wraps content in a Composition.
func Compose(content Composable) *Composition {
	return &Composition{content: content, dirty: true}
}

// IsComposed reports whether v is a composition or has one anywhere below
// it.
func IsComposed(v View) bool {
	switch v := v.(type) {
	case *Composition:
		return true
	case Parent:
		for _, child := range v.Children() {
			if IsComposed(child) {
				return true
			}
		}
	}
	return false
}

// Invalidate marks the composition for rebuilding on the next frame.
func (c *Composition) Invalidate() { c.dirty = true }

func (c *Composition) ensure(env *Env) View {
	if c.dirty || c.current == nil {
		c.current = c.content(env)
		c.dirty = false
		c.Recompositions++
	}
	return c.current
}

// Measure implements View.
func (c *Composition) Measure(env *Env, cons Constraints) Size {
	v := c.ensure(env)
	if v == nil {
		return Size{}
	}
	return v.Measure(env, cons)
}

// Draw implements View.
func (c *Composition) Draw(dc *gg.Context, env *Env, bounds Rect) {
	if v := c.ensure(env); v != nil {
		v.Draw(dc, env, bounds)
	}
	if env.Scheduler != nil {
		env.Scheduler.Post(func(int64) { c.Invalidate() })
	}
}

// Children implements Parent.
func (c *Composition) Children() []View {
	if c.current == nil {
		return nil
	}
	return []View{c.current}
}

// Arrange implements Parent.
func (c *Composition) Arrange(_ *Env, bounds Rect) []Rect {
	if c.current == nil {
		return nil
	}
	return []Rect{bounds}
}
