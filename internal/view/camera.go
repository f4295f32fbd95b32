package view

import (
	"math"

	"github.com/san-kum/trisolaris/internal/dynamo"
)

const (
	MinZoom         = 0.1
	MaxZoom         = 50.0
	MaxPitch        = 1.4
	RotationSpeed   = 0.03
	ZoomSensitivity = 0.001
)

// Camera is the free-roaming view: screen-space pan, orthographic zoom and
// yaw/pitch rotation of the physics plane.
type Camera struct {
	Pan         dynamo.Vec2
	Zoom        float64
	Yaw         float64
	Pitch       float64
	Dragging    bool
	LastPointer dynamo.Vec2
}

func NewCamera() Camera {
	return Camera{Zoom: 1}
}

// KeySet is the set of rotation keys held during a tick.
type KeySet struct {
	RotateLeft  bool
	RotateRight bool
	TiltUp      bool
	TiltDown    bool
}

func (k KeySet) Any() bool {
	return k.RotateLeft || k.RotateRight || k.TiltUp || k.TiltDown
}

func (c *Camera) BeginDrag(p dynamo.Vec2) {
	c.Dragging = true
	c.LastPointer = p
}

// Drag pans by the pointer delta since the last sample.
func (c *Camera) Drag(p dynamo.Vec2) {
	if !c.Dragging {
		return
	}
	c.Pan = c.Pan.Add(p.Sub(c.LastPointer))
	c.LastPointer = p
}

func (c *Camera) EndDrag() {
	c.Dragging = false
}

// ZoomBy applies a wheel delta multiplicatively. Positive deltas zoom out.
func (c *Camera) ZoomBy(wheelDelta float64) {
	z := c.Zoom * (1 - wheelDelta*ZoomSensitivity)
	if math.IsNaN(z) {
		return
	}
	c.Zoom = clamp(z, MinZoom, MaxZoom)
}

// Rotate applies one tick of keyboard rotation.
func (c *Camera) Rotate(keys KeySet) {
	if keys.RotateLeft {
		c.Yaw += RotationSpeed
	}
	if keys.RotateRight {
		c.Yaw -= RotationSpeed
	}
	if keys.TiltUp {
		c.Pitch = clamp(c.Pitch+RotationSpeed, -MaxPitch, MaxPitch)
	}
	if keys.TiltDown {
		c.Pitch = clamp(c.Pitch-RotationSpeed, -MaxPitch, MaxPitch)
	}
}

// Reset restores the default view. Drag state is left alone.
func (c *Camera) Reset() {
	c.Pan = dynamo.Vec2{}
	c.Zoom = 1
	c.Yaw = 0
	c.Pitch = 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
