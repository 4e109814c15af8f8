// Package routemap renders walk routes as braille polylines.
package routemap

import (
	"math"
	"strings"

	"github.com/verte-zerg/pawtrail/internal/geo"
	"github.com/verte-zerg/pawtrail/internal/model"
)

// Placeholder is shown instead of a map while no usable path exists.
const Placeholder = "Waiting for GPS signal..."

// Braille cells pack 2x4 dots, so the drawing resolution is finer than the
// character grid.
const (
	dotsPerCellX = 2
	dotsPerCellY = 4
	dotPadding   = 2
)

const minCanvasSize = 2

// Markers for the first and last fix of the route.
const (
	startMarker = '○'
	endMarker   = '●'
)

// Render draws the route as a polyline on a width x height character
// canvas, with markers on the first and last fix. Routes shorter than two
// points produce the placeholder text; the caller decides how to place it.
func Render(route []model.GeoPoint, width, height int) string {
	if len(route) < 2 {
		return Placeholder
	}
	if width < minCanvasSize {
		width = minCanvasSize
	}
	if height < minCanvasSize {
		height = minCanvasSize
	}

	dotW := float64(width * dotsPerCellX)
	dotH := float64(height * dotsPerCellY)
	projected := geo.Project(route, dotW, dotH, dotPadding)

	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}

	prev := dotOf(projected[0])
	setDot(cells, prev.x, prev.y)
	for _, p := range projected[1:] {
		cur := dotOf(p)
		drawLine(prev.x, prev.y, cur.x, cur.y, func(x, y int) {
			setDot(cells, x, y)
		})
		prev = cur
	}

	rows := make([][]rune, height)
	for y := 0; y < height; y++ {
		rows[y] = make([]rune, width)
		for x := 0; x < width; x++ {
			rows[y][x] = rune(0x2800 + int(cells[y][x]))
		}
	}
	placeMarker(rows, dotOf(projected[0]), startMarker)
	placeMarker(rows, dotOf(projected[len(projected)-1]), endMarker)

	lines := make([]string, height)
	for y, row := range rows {
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}

type dot struct {
	x int
	y int
}

func dotOf(p geo.XY) dot {
	return dot{x: int(math.Round(p.X)), y: int(math.Round(p.Y))}
}

func placeMarker(rows [][]rune, d dot, marker rune) {
	y := d.y / dotsPerCellY
	x := d.x / dotsPerCellX
	if y < 0 || y >= len(rows) || x < 0 || x >= len(rows[y]) {
		return
	}
	rows[y][x] = marker
}

func setDot(cells [][]uint8, x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cellY := y / dotsPerCellY
	cellX := x / dotsPerCellX
	if cellY >= len(cells) || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= dotMask(x%dotsPerCellX, y%dotsPerCellY)
}

// dotMask maps a dot position inside a braille cell to its bit in the
// Unicode braille block.
func dotMask(x, y int) uint8 {
	masks := [dotsPerCellY][dotsPerCellX]uint8{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	return masks[y][x]
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := step(x0, x1)
	sy := step(y0, y1)
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				return
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				return
			}
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func step(from, to int) int {
	if from < to {
		return 1
	}
	return -1
}
