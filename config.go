package sketchpad

import "time"

// Config holds the tunable constants of the interaction engine. Pixel values
// are screen pixels; the engine divides by the zoom where it needs world
// units.
type Config struct {
	// HandleSize is the drawn edge length of a resize/rotate handle.
	HandleSize float64
	// TouchTargetSize is the minimum hit area edge length for handles when the
	// input is touch or MobileMode is on.
	TouchTargetSize float64
	// RotateHandleOffset is the distance of the rotate handle above the top
	// edge.
	RotateHandleOffset float64

	// MinCommitSize is the size in world units a drawn shape must exceed in
	// both dimensions to become a component.
	MinCommitSize float64

	MinZoom, MaxZoom float64
	// WheelZoomStep is the zoom factor applied per wheel notch.
	WheelZoomStep float64

	// SnapAngle is the rotation increment in degrees used while SnapModifier
	// is held.
	SnapAngle float64

	// GestureRate and DrawRate cap how often (Hz) pinch frames and touch/pen
	// drawing samples are processed.
	GestureRate float64
	DrawRate    float64

	// MinPinchDistance is the finger separation in pixels below which a pinch
	// frame is considered degenerate.
	MinPinchDistance float64
	// MaxPinchStep is the largest zoom ratio a single pinch frame may apply.
	MaxPinchStep float64
	// MinGestureDuration is the shortest plausible pinch. Faster pinches are
	// reverted when they end.
	MinGestureDuration time.Duration

	// SmoothingFactor in (0, 1] weights the newest touch/pen sample when
	// smoothing freehand paths. 1 disables smoothing.
	SmoothingFactor float64

	// MobileMode enables touch-sized handles for every input source and the
	// two-finger gesture recognizer.
	MobileMode bool
	Theme      Theme

	PanModifier         KeyModifiers
	MultiSelectModifier KeyModifiers
	SnapModifier        KeyModifiers
}

// DefaultConfig returns the configuration used by NewEngine when none is
// supplied.
func DefaultConfig() Config {
	return Config{
		HandleSize:          8,
		TouchTargetSize:     44,
		RotateHandleOffset:  35,
		MinCommitSize:       5,
		MinZoom:             defaultMinZoom,
		MaxZoom:             defaultMaxZoom,
		WheelZoomStep:       1.1,
		SnapAngle:           15,
		GestureRate:         60,
		DrawRate:            120,
		MinPinchDistance:    10,
		MaxPinchStep:        1.5,
		MinGestureDuration:  40 * time.Millisecond,
		SmoothingFactor:     0.5,
		PanModifier:         ModSpace,
		MultiSelectModifier: ModShift | ModCtrl | ModMeta,
		SnapModifier:        ModShift,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.HandleSize <= 0 {
		c.HandleSize = d.HandleSize
	}
	if c.TouchTargetSize <= 0 {
		c.TouchTargetSize = d.TouchTargetSize
	}
	if c.RotateHandleOffset <= 0 {
		c.RotateHandleOffset = d.RotateHandleOffset
	}
	if c.MinCommitSize <= 0 {
		c.MinCommitSize = d.MinCommitSize
	}
	if c.MinZoom <= 0 {
		c.MinZoom = d.MinZoom
	}
	if c.MaxZoom < c.MinZoom {
		c.MaxZoom = d.MaxZoom
	}
	if c.WheelZoomStep <= 1 {
		c.WheelZoomStep = d.WheelZoomStep
	}
	if c.SnapAngle <= 0 {
		c.SnapAngle = d.SnapAngle
	}
	if c.GestureRate <= 0 {
		c.GestureRate = d.GestureRate
	}
	if c.DrawRate <= 0 {
		c.DrawRate = d.DrawRate
	}
	if c.MinPinchDistance <= 0 {
		c.MinPinchDistance = d.MinPinchDistance
	}
	if c.MaxPinchStep <= 1 {
		c.MaxPinchStep = d.MaxPinchStep
	}
	if c.MinGestureDuration <= 0 {
		c.MinGestureDuration = d.MinGestureDuration
	}
	if c.SmoothingFactor <= 0 || c.SmoothingFactor > 1 {
		c.SmoothingFactor = d.SmoothingFactor
	}
	if c.PanModifier == 0 {
		c.PanModifier = d.PanModifier
	}
	if c.MultiSelectModifier == 0 {
		c.MultiSelectModifier = d.MultiSelectModifier
	}
	if c.SnapModifier == 0 {
		c.SnapModifier = d.SnapModifier
	}
	return c
}
