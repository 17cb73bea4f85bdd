package overlay

import "github.com/go-vgo/robotgo"

// RobotLocator reads pointer and display geometry through robotgo
type RobotLocator struct{}

// Cursor returns the pointer position
func (RobotLocator) Cursor() (int, int) {
	return robotgo.Location()
}

// Displays returns the bounds of every attached display
func (RobotLocator) Displays() []Rect {
	n := robotgo.DisplaysNum()
	displays := make([]Rect, 0, n)
	for i := 0; i < n; i++ {
		x, y, w, h := robotgo.GetDisplayBounds(i)
		displays = append(displays, Rect{X: x, Y: y, W: w, H: h})
	}
	if len(displays) == 0 {
		w, h := robotgo.GetScreenSize()
		displays = append(displays, Rect{W: w, H: h})
	}
	return displays
}
