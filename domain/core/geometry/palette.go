package geometry

import (
	"sync"

	"planner-backend/domain/core/valueobjects"
)

// Palette hands out hull colors in rotation so sibling groups are
// visually distinct. It is an explicit service constructed once at
// startup and shared by reference; a parent node keeps the color it
// was assigned even after the rotation wraps around.
type Palette struct {
	mu     sync.Mutex
	colors []valueobjects.HullColor
	next   int
}

// NewPalette creates a palette with the default color rotation.
func NewPalette() *Palette {
	return &Palette{
		colors: []valueobjects.HullColor{
			{Fill: "rgba(59, 130, 246, 0.08)", Stroke: "rgba(59, 130, 246, 0.45)"},
			{Fill: "rgba(16, 185, 129, 0.08)", Stroke: "rgba(16, 185, 129, 0.45)"},
			{Fill: "rgba(249, 115, 22, 0.08)", Stroke: "rgba(249, 115, 22, 0.45)"},
			{Fill: "rgba(139, 92, 246, 0.08)", Stroke: "rgba(139, 92, 246, 0.45)"},
			{Fill: "rgba(236, 72, 153, 0.08)", Stroke: "rgba(236, 72, 153, 0.45)"},
			{Fill: "rgba(234, 179, 8, 0.08)", Stroke: "rgba(234, 179, 8, 0.45)"},
			{Fill: "rgba(20, 184, 166, 0.08)", Stroke: "rgba(20, 184, 166, 0.45)"},
			{Fill: "rgba(244, 63, 94, 0.08)", Stroke: "rgba(244, 63, 94, 0.45)"},
		},
	}
}

// Next returns the next color in the rotation.
func (p *Palette) Next() valueobjects.HullColor {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := p.colors[p.next%len(p.colors)]
	p.next++
	return c
}
