// Package components holds the state the tree, preview and prompt panels
// share.
package components

import "github.com/avitaltamir/vibetree/internal/layout"

// Base tracks focus and the outer size of a panel. Panels embed it.
type Base struct {
	focused bool
	width   int
	height  int
}

// Focus marks the panel as taking input.
func (b *Base) Focus() {
	b.focused = true
}

// Blur stops the panel taking input.
func (b *Base) Blur() {
	b.focused = false
}

// Focused reports whether the panel takes input.
func (b Base) Focused() bool {
	return b.focused
}

// SetSize sets the outer size. Negative values clamp to zero.
func (b *Base) SetSize(width, height int) {
	b.width = max(width, 0)
	b.height = max(height, 0)
}

// Size returns the outer size.
func (b Base) Size() (width, height int) {
	return b.width, b.height
}

// Inner returns the size left inside the panel border.
func (b Base) Inner() (width, height int) {
	return layout.Inner(b.width, b.height)
}
