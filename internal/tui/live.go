// Package tui prints published snapshots as plain ASCII frames, for
// headless runs where the full-screen viewer is not wanted.
package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/san-kum/trisolaris/internal/dynamo"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is a sim.Observer. It maps the world rectangle
// [0,worldW]x[0,worldH] onto a fixed character grid; bodies outside it are
// clipped.
type LiveRenderer struct {
	out            io.Writer
	title          string
	worldW, worldH float64
	minGap         time.Duration

	mu        sync.Mutex
	lastFrame time.Time
	frames    int
	canvas    [][]rune
	now       func() time.Time
}

func NewLiveRenderer(out io.Writer, title string, worldW, worldH float64, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	var gap time.Duration
	if frameRate > 0 {
		gap = time.Second / time.Duration(frameRate)
	}
	return &LiveRenderer{
		out:    out,
		title:  title,
		worldW: worldW,
		worldH: worldH,
		minGap: gap,
		canvas: canvas,
		now:    time.Now,
	}
}

func (r *LiveRenderer) OnSnapshot(bodies dynamo.Bodies) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if !r.lastFrame.IsZero() && now.Sub(r.lastFrame) < r.minGap {
		return
	}
	r.lastFrame = now
	r.frames++

	r.clear()
	r.drawBodies(bodies)
	r.render(bodies)
}

func (r *LiveRenderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) cell(p dynamo.Vec2) (int, int, bool) {
	if !p.IsFinite() {
		return 0, 0, false
	}
	x := int(math.Floor(p.X / r.worldW * width))
	y := int(math.Floor(p.Y / r.worldH * height))
	return x, y, true
}

func (r *LiveRenderer) line(x1, y1, x2, y2 int, c rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawBodies draws every trail first so no trail dot covers a body.
func (r *LiveRenderer) drawBodies(bodies dynamo.Bodies) {
	for _, b := range bodies {
		var px, py int
		started := false
		for _, p := range b.Trail {
			x, y, ok := r.cell(p)
			if !ok {
				started = false
				continue
			}
			if started {
				r.line(px, py, x, y, '.')
			}
			px, py, started = x, y, true
		}
	}

	suns := 0
	for _, b := range bodies {
		x, y, ok := r.cell(b.Position)
		if !ok {
			continue
		}
		if b.IsPlanet {
			r.set(x, y, 'o')
			continue
		}
		suns++
		r.set(x, y, rune('0'+suns%10))
	}
}

func (r *LiveRenderer) render(bodies dynamo.Bodies) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  frame=%d\n", r.title, r.frames))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	status := "  "
	if planet, ok := bodies.Planet(); ok {
		center := bodies.Suns().Barycenter()
		status += fmt.Sprintf("planet=(%.0f, %.0f) dist=%.0f ", planet.Position.X, planet.Position.Y, planet.Position.Sub(center).Len())
	} else {
		status += "planet lost "
	}
	if !bodies.IsValid() {
		status += "[non-finite]"
	}
	b.WriteString(status + "\n")

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
