package view

import "time"

// HoldWindow is how long a key counts as held after its last press. Terminals
// report presses and auto-repeats but never releases.
const HoldWindow = 180 * time.Millisecond

type Key int

const (
	KeyRotateLeft Key = iota
	KeyRotateRight
	KeyTiltUp
	KeyTiltDown
	numKeys
)

// KeyFor maps a terminal key name to a rotation key.
func KeyFor(s string) (Key, bool) {
	switch s {
	case "a", "A", "left":
		return KeyRotateLeft, true
	case "d", "D", "right":
		return KeyRotateRight, true
	case "w", "W", "up":
		return KeyTiltUp, true
	case "s", "S", "down":
		return KeyTiltDown, true
	}
	return 0, false
}

// HeldKeys derives held state from press timestamps.
type HeldKeys struct {
	last [numKeys]time.Time
}

func (h *HeldKeys) Press(k Key, now time.Time) {
	h.last[k] = now
}

func (h *HeldKeys) Release(k Key) {
	h.last[k] = time.Time{}
}

func (h *HeldKeys) held(k Key, now time.Time) bool {
	t := h.last[k]
	return !t.IsZero() && now.Sub(t) <= HoldWindow
}

// Keys returns the KeySet held at now.
func (h *HeldKeys) Keys(now time.Time) KeySet {
	return KeySet{
		RotateLeft:  h.held(KeyRotateLeft, now),
		RotateRight: h.held(KeyRotateRight, now),
		TiltUp:      h.held(KeyTiltUp, now),
		TiltDown:    h.held(KeyTiltDown, now),
	}
}
