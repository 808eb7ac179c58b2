package chart

import (
	"fmt"
	"strings"
)

// Plot glyphs.
const (
	NormalGlyph = '●'
	BatchGlyph  = '○'
)

const axisWidth = 8

// Plot draws s as a character grid of the given size, y axis included. Points
// are spread evenly across the width and the non-blank labels are written
// under the axis where they fit without overlapping. It returns "" for a nil
// series or a grid too small to hold anything.
func Plot(s *Series, width, height int) string {
	cols := width - axisWidth
	if s.Len() == 0 || cols < 1 || height < 2 {
		return ""
	}

	lo, hi := valueRange(s)
	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", cols))
	}

	place := func(values []float64, glyph rune) {
		for i, v := range values {
			col := column(i, s.Len(), cols)
			row := int((hi-v)/(hi-lo)*float64(height-1) + 0.5)
			row = min(max(row, 0), height-1)
			grid[row][col] = glyph
		}
	}
	place(s.Batch, BatchGlyph)
	place(s.Values, NormalGlyph)

	var b strings.Builder
	for r, line := range grid {
		switch r {
		case 0:
			fmt.Fprintf(&b, "%6.2f │", hi)
		case height - 1:
			fmt.Fprintf(&b, "%6.2f │", lo)
		default:
			b.WriteString("       │")
		}
		b.WriteString(strings.TrimRight(string(line), " "))
		b.WriteByte('\n')
	}
	b.WriteString("       └")
	b.WriteString(strings.Repeat("─", cols))
	b.WriteByte('\n')
	b.WriteString(strings.TrimRight(labelLine(s, cols), " "))
	return b.String()
}

// column maps point i of n onto a grid of cols columns.
func column(i, n, cols int) int {
	if n <= 1 {
		return 0
	}
	return i * (cols - 1) / (n - 1)
}

func labelLine(s *Series, cols int) string {
	line := []rune(strings.Repeat(" ", axisWidth+cols))
	next := 0
	for i, label := range s.Labels {
		if label == "" {
			continue
		}
		start := axisWidth + column(i, s.Len(), cols)
		runes := []rune(label)
		if start < next || start+len(runes) > len(line) {
			continue
		}
		copy(line[start:], runes)
		next = start + len(runes) + 1
	}
	return string(line)
}
