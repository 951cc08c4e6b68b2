// Package render draws visual encodings as terminal text. It does layout
// only: every value it receives is already bounded by package encode.
package render

import (
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Yuralo/Attention-Lens/internal/utils"
)

// Blend mixes from toward to by t in [0,1] in Lab space, which keeps the
// perceived steps even across the ramp.
func Blend(from, to lipgloss.Color, t float64) lipgloss.Color {
	a, err := colorful.Hex(string(from))
	if err != nil {
		return to
	}
	b, err := colorful.Hex(string(to))
	if err != nil {
		return from
	}
	return lipgloss.Color(a.BlendLab(b, utils.ClampFloat(t, 0, 1)).Clamped().Hex())
}

// Contrast picks a readable foreground for text drawn on bg.
func Contrast(bg lipgloss.Color) lipgloss.Color {
	c, err := colorful.Hex(string(bg))
	if err != nil {
		return lipgloss.Color("#FFFFFF")
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return lipgloss.Color("#0F172A")
	}
	return lipgloss.Color("#F9FAFB")
}
