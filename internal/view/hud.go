package view

import (
	"fmt"
	"math"
)

// HUD returns the camera readout lines.
func HUD(cam Camera, fps float64) [2]string {
	deg := func(rad float64) float64 { return rad * 180 / math.Pi }
	return [2]string{
		fmt.Sprintf("Zoom: %.2fx | Pitch: %.0f° | Yaw: %.0f°", cam.Zoom, deg(cam.Pitch), deg(cam.Yaw)),
		fmt.Sprintf("Pan: %.0f, %.0f | FPS: %.0f", cam.Pan.X, cam.Pan.Y, math.Round(fps)),
	}
}
