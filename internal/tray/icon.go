package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
)

const iconSize = 22

// renderIcon draws a template microphone glyph, struck through when muted
func renderIcon(muted bool) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	ink := color.NRGBA{A: 0xff}

	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			if micPixel(float64(x)+0.5, float64(y)+0.5) {
				img.SetNRGBA(x, y, ink)
			}
			if muted && slashPixel(float64(x)+0.5, float64(y)+0.5) {
				img.SetNRGBA(x, y, ink)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

// micPixel reports whether (x, y) is on the capsule, cradle, or stand
func micPixel(x, y float64) bool {
	const cx = iconSize / 2.0

	// Capsule: 6 wide, from y=3 to y=12 with round ends
	if y >= 6 && y <= 10 && math.Abs(x-cx) <= 3 {
		return true
	}
	if math.Hypot(x-cx, y-6) <= 3 || math.Hypot(x-cx, y-10) <= 3 {
		return true
	}

	// Cradle: lower half ring around the capsule
	if y >= 10 {
		d := math.Hypot(x-cx, y-10)
		if d >= 5 && d <= 6.2 {
			return true
		}
	}

	// Stand and base
	if y >= 16 && y <= 19 && math.Abs(x-cx) <= 0.6 {
		return true
	}
	return y >= 19 && y <= 20.2 && math.Abs(x-cx) <= 3.5
}

// slashPixel reports whether (x, y) is on the diagonal strike
func slashPixel(x, y float64) bool {
	// Line from (3,3) to (19,19)
	return math.Abs(x-y)/math.Sqrt2 <= 1 && x >= 3 && x <= 19
}
