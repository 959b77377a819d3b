package ui

import "github.com/luvo-tarot/luvo/internal/host"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used:
	// two card columns and no position labels.
	LayoutCompactWidth = host.CompactWidth

	// LayoutMaxContentWidth caps the form and interpretation panels.
	LayoutMaxContentWidth = 96
)

// Card geometry.
const (
	cardWidth        = 20
	cardHeight       = 9
	cardCompactWidth = 18
	cardGap          = 2
)

// Form limits.
const (
	questionCharLimit = 500
	questionHeight    = 3
)

// cardColumns returns how many cards fit in one row.
func cardColumns(width int, compact bool) int {
	if compact {
		return 2
	}
	cols := (width + cardGap) / (cardWidth + cardGap)
	if cols < 1 {
		return 1
	}
	return cols
}

// contentWidth returns the width available to panels.
func contentWidth(width int) int {
	w := width - 4
	if w > LayoutMaxContentWidth {
		w = LayoutMaxContentWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}
