package view

import "image/color"

// Extension mutates a view before it is attached.
type Extension interface {
	Apply(v View) View
}

// ExtensionFunc adapts a function to Extension.
type ExtensionFunc func(v View) View

// Apply implements Extension.
func (f ExtensionFunc) Apply(v View) View { return f(v) }

// ApplyAll runs exts over v in order.
func ApplyAll(v View, exts []Extension) View {
	for _, ext := range exts {
		if ext != nil {
			v = ext.Apply(v)
		}
	}
	return v
}

// WithBackground wraps views in a box filled with c.
func WithBackground(c color.Color) Extension {
	return ExtensionFunc(func(v View) View {
		return &Box{Color: c, Child: v}
	})
}

// WithPadding wraps views in a transparent box with dp padding.
func WithPadding(dp float64) Extension {
	return ExtensionFunc(func(v View) View {
		return &Box{Color: color.Transparent, Padding: dp, Child: v}
	})
}
