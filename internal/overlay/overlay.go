// Package overlay shows the mute status near the bottom of the display the
// pointer is on, and follows the pointer across displays.
package overlay

import (
	"sync"

	"github.com/yok-tottii/MuteBar/internal/logger"
)

// DefaultSize is the overlay frame size in points
var DefaultSize = Size{W: 200, H: 40}

// Size is a width and height
type Size struct {
	W, H int
}

// Rect is a frame in global screen coordinates, origin top-left
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point lies inside r
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Locator reports pointer position and display geometry
type Locator interface {
	Cursor() (x, y int)
	Displays() []Rect
}

// Surface draws the overlay. The frame is advisory; surfaces that cannot
// position themselves ignore it.
type Surface interface {
	Show(text string, frame Rect)
	Move(frame Rect)
	Hide()
}

// Labels resolves the overlay text keys
type Labels interface {
	Translate(key string) string
}

// Place centres size horizontally on display, two overlay heights above
// its bottom edge
func Place(display Rect, size Size) Rect {
	return Rect{
		X: display.X + (display.W-size.W)/2,
		Y: display.Y + display.H - 2*size.H,
		W: size.W,
		H: size.H,
	}
}

// DisplayAt returns the index of the display containing the point.
// ok is false when none does (pointer in a gap between displays).
func DisplayAt(displays []Rect, x, y int) (idx int, ok bool) {
	for i, d := range displays {
		if d.Contains(x, y) {
			return i, true
		}
	}
	return 0, false
}

// Overlay implements the loop's UI for the floating status indicator
type Overlay struct {
	mu      sync.Mutex
	locator Locator
	surface Surface
	labels  Labels
	size    Size
	log     *logger.Logger

	display int // -1 until first placement
	frame   Rect
	visible bool
}

// New creates a hidden overlay
func New(locator Locator, surface Surface, labels Labels, size Size, log *logger.Logger) *Overlay {
	return &Overlay{
		locator: locator,
		surface: surface,
		labels:  labels,
		size:    size,
		log:     log,
		display: -1,
	}
}

// Update shows the text for the given state. Muted stays up until the next
// update; unmuted is expected to be hidden by a deferred Hide.
func (o *Overlay) Update(muted bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.display < 0 {
		o.relocateLocked()
	}

	key := "overlay.unmuted"
	if muted {
		key = "overlay.muted"
	}
	o.surface.Show(o.labels.Translate(key), o.frame)
	o.visible = true
}

// Hide removes the overlay if it is showing
func (o *Overlay) Hide() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.visible {
		return
	}
	o.surface.Hide()
	o.visible = false
}

// DetectAndReposition moves the overlay when the pointer has changed
// display. Moving within the same display does nothing.
func (o *Overlay) DetectAndReposition() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.relocateLocked() {
		return
	}
	if o.visible {
		o.surface.Move(o.frame)
	}
}

// relocateLocked recomputes the frame and reports whether the display changed
func (o *Overlay) relocateLocked() bool {
	displays := o.locator.Displays()
	if len(displays) == 0 {
		return false
	}

	x, y := o.locator.Cursor()
	idx, ok := DisplayAt(displays, x, y)
	if !ok && o.display >= 0 && o.display < len(displays) {
		// Between displays: stay where we are
		return false
	}
	if idx == o.display {
		return false
	}

	o.display = idx
	o.frame = Place(displays[idx], o.size)
	o.log.Debug("overlay moved to display %d at (%d,%d)", idx, o.frame.X, o.frame.Y)
	return true
}

// Visible reports whether the overlay is showing
func (o *Overlay) Visible() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.visible
}

// Frame returns the current frame
func (o *Overlay) Frame() Rect {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.frame
}
