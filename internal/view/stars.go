package view

import "math"

const (
	StarCount    = 80
	starParallax = 0.1
)

type Star struct {
	X, Y       float64
	Size       float64
	Brightness float64
}

func fract(v float64) float64 {
	return v - math.Floor(v)
}

// Starfield places n background stars with a fixed sin-hash, then
// counter-rotates them by a tenth of the yaw around the screen center.
func Starfield(n int, width, height, yaw float64) []Star {
	cx, cy := width/2, height/2
	cosA, sinA := math.Cos(yaw*starParallax), math.Sin(yaw*starParallax)

	stars := make([]Star, 0, n)
	for i := 0; i < n; i++ {
		fi := float64(i)
		x := fract(math.Sin(fi*132.1)*43758.5453) * width
		y := fract(math.Cos(fi*432.1)*32453.234) * height
		dx, dy := x-cx, y-cy

		stars = append(stars, Star{
			X:          cx + dx*cosA - dy*sinA,
			Y:          cy + dx*sinA + dy*cosA,
			Size:       (math.Sin(fi) + 1) * 0.8,
			Brightness: 0.1 + 0.5*fract(math.Sin(fi*12.9898)*43758.5453),
		})
	}
	return stars
}
