// Package geometry maps on-screen pan/zoom state of a cropping frame to
// source-image pixel coordinates.
//
// The frame is a fixed-size window centered on screen. The image is rendered
// centered, scaled by scale and offset by a translation. All functions are
// pure and tolerate malformed input by coercing it to safe minimums.
package geometry

import "math"

const (
	minScale = 0.0001
	minSize  = 1.0
)

// Size is a width/height pair in pixels or screen points.
type Size struct {
	Width  float64
	Height float64
}

// Translation is the pan offset of the rendered image from the frame center.
type Translation struct {
	X float64
	Y float64
}

// CropRect is an integer pixel rectangle inside the source image.
type CropRect struct {
	OriginX int `json:"origin_x"`
	OriginY int `json:"origin_y"`
	Width   int `json:"width"`
	Height  int `json:"height"`
}

// ClampTranslationToFrame limits a pan so the frame never shows area outside
// the rendered image. On each axis the pan is bounded by
// ±max((rendered-frame)/2, 0).
func ClampTranslationToFrame(t Translation, image, frame Size, scale float64) Translation {
	s := safeScale(scale)
	maxX := math.Max(0, (safeSize(image.Width)*s-safeSize(frame.Width))/2)
	maxY := math.Max(0, (safeSize(image.Height)*s-safeSize(frame.Height))/2)
	return Translation{
		X: clamp(finite(t.X), -maxX, maxX),
		Y: clamp(finite(t.Y), -maxY, maxY),
	}
}

// ComputeCropRect inverse-maps the edges of the frame through the screen
// transform into source pixel coordinates. The result always lies inside the
// image and has a size of at least one pixel.
func ComputeCropRect(image, frame Size, t Translation, scale float64) CropRect {
	s := safeScale(scale)
	imgW := pixels(image.Width)
	imgH := pixels(image.Height)
	frameW := safeSize(frame.Width)
	frameH := safeSize(frame.Height)

	originX := (-frameW/2-finite(t.X))/s + float64(imgW)/2
	originY := (-frameH/2-finite(t.Y))/s + float64(imgH)/2

	x := clampInt(int(math.Floor(originX)), 0, imgW-1)
	y := clampInt(int(math.Floor(originY)), 0, imgH-1)
	w := clampInt(int(math.Round(frameW/s)), 1, imgW-x)
	h := clampInt(int(math.Round(frameH/s)), 1, imgH-y)

	return CropRect{OriginX: x, OriginY: y, Width: w, Height: h}
}

// ResizeForMaxLongSide returns the dimensions that bring the longer side down
// to maxLongSide, preserving the aspect ratio. It reports false when no
// resize is needed. A non-positive maxLongSide selects the 1600px default.
func ResizeForMaxLongSide(width, height, maxLongSide int) (Size, bool) {
	if maxLongSide <= 0 {
		maxLongSide = 1600
	}
	w := max(width, 1)
	h := max(height, 1)
	long := max(w, h)
	if long <= maxLongSide {
		return Size{}, false
	}

	ratio := float64(maxLongSide) / float64(long)
	return Size{
		Width:  math.Max(1, math.Round(float64(w)*ratio)),
		Height: math.Max(1, math.Round(float64(h)*ratio)),
	}, true
}

// FitScale returns the smallest scale at which the image fully covers the
// frame.
func FitScale(image, frame Size) float64 {
	return math.Max(
		safeSize(frame.Width)/safeSize(image.Width),
		safeSize(frame.Height)/safeSize(image.Height),
	)
}

func safeScale(s float64) float64 {
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		s = 1
	}
	return math.Max(s, minScale)
}

func safeSize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return minSize
	}
	return math.Max(v, minSize)
}

func pixels(v float64) int {
	return int(math.Round(safeSize(v)))
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return min(max(v, lo), hi)
}
