package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a Braille grid with one foreground color per cell. The last
// color written to a cell wins, which suits back-to-front drawing.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]string
	text          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]string, h),
		text:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]string, w)
		c.text[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// SubWidth and SubHeight are the canvas size in dots.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set sets a dot at (x, y) in sub-pixel coordinates.
func (c *Canvas) Set(x, y int, color string) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
	if color != "" {
		c.Colors[row][col] = color
	}
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = ""
			c.text[i][j] = 0
		}
	}
}

// Text writes s into whole cells starting at (col, row). Text cells hide the
// dots beneath them.
func (c *Canvas) Text(col, row int, s string, color string) {
	if row < 0 || row >= c.Height {
		return
	}
	for _, r := range s {
		if col >= c.Width {
			return
		}
		if col >= 0 {
			c.text[row][col] = r
			c.Colors[row][col] = color
		}
		col++
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, color string) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawThickLine strokes a line width dots wide by offsetting parallel
// Bresenham lines along the minor axis.
func (c *Canvas) DrawThickLine(x0, y0, x1, y1, width int, color string) {
	if width <= 1 {
		c.DrawLine(x0, y0, x1, y1, color)
		return
	}
	steep := absInt(y1-y0) > absInt(x1-x0)
	for off := -(width - 1) / 2; off <= width/2; off++ {
		if steep {
			c.DrawLine(x0+off, y0, x1+off, y1, color)
		} else {
			c.DrawLine(x0, y0+off, x1, y1+off, color)
		}
	}
}

// FillCircle lights every dot within r of (cx, cy). A radius below one dot
// still lights the center.
func (c *Canvas) FillCircle(cx, cy, r int, color string) {
	if r <= 0 {
		c.Set(cx, cy, color)
		return
	}
	r2 := r * r
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r2 {
				c.Set(cx+dx, cy+dy, color)
			}
		}
	}
}

// Ring lights the dots between radii inner and outer, leaving the inside
// untouched.
func (c *Canvas) Ring(cx, cy, inner, outer int, color string) {
	in2, out2 := inner*inner, outer*outer
	for dy := -outer; dy <= outer; dy++ {
		for dx := -outer; dx <= outer; dx++ {
			d2 := dx*dx + dy*dy
			if d2 > in2 && d2 <= out2 && (dx+dy)%2 == 0 {
				c.Set(cx+dx, cy+dy, color)
			}
		}
	}
}

// Plain returns the grid without color, one line per row.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			if t := c.text[i][j]; t != 0 {
				r = t
			}
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// String renders the grid with runs of equally colored cells styled once.
func (c *Canvas) String() string {
	var b strings.Builder
	var run strings.Builder
	for i, row := range c.Grid {
		current := c.Colors[i][0]
		for j, r := range row {
			if t := c.text[i][j]; t != 0 {
				r = t
			}
			if color := c.Colors[i][j]; color != current {
				b.WriteString(paint(run.String(), current))
				run.Reset()
				current = color
			}
			run.WriteRune(r)
		}
		b.WriteString(paint(run.String(), current))
		run.Reset()
		b.WriteByte('\n')
	}
	return b.String()
}

func paint(s, color string) string {
	if s == "" || color == "" {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(s)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
