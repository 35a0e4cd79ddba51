package tui

import (
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// levelColors is the same low-to-clip gradient stop set the teacher's
// views.go uses for its level meters, reused here to shade a token's
// value column by how close it sits to its domain's ceiling.
var levelColors = func() []colorful.Color {
	hexes := []string{"#404040", "#808080", "#FFFFFF", "#FFE135", "#FF6B35", "#FF0000"}
	cs := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, _ := colorful.Hex(h)
		cs[i] = c
	}
	return cs
}()

// profile is checked before shading anything, matching views.go's
// termenv.ColorProfile() guard: a plain Ascii terminal gets no color
// codes at all rather than a best-effort downsample.
var profile = termenv.ColorProfile()

// levelColor interpolates across levelColors by value/max, clamped to
// [0,1]. Returns "" on an Ascii-only profile so callers skip styling.
func levelColor(value, max int) lipgloss.Color {
	if profile == termenv.Ascii {
		return ""
	}
	if max <= 0 {
		return lipgloss.Color(levelColors[0].Hex())
	}
	t := float64(value) / float64(max)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	span := float64(len(levelColors) - 1)
	pos := t * span
	lo := int(pos)
	if lo >= len(levelColors)-1 {
		return lipgloss.Color(levelColors[len(levelColors)-1].Hex())
	}
	frac := pos - float64(lo)
	blended := levelColors[lo].BlendLuv(levelColors[lo+1], frac)
	return lipgloss.Color(blended.Hex())
}
