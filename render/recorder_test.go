package render

import (
	"image"
	"image/color"

	"meetzzz-customizer/geometry"
)

type drawCall struct {
	op     string
	rect   geometry.Rect
	radius float64
	color  color.Color
	text   string
	font   string
	size   float64
	x, y   float64
	dash   []float64
}

// recordingCanvas captures draw calls instead of rasterizing them
type recordingCanvas struct {
	w, h  int
	calls []drawCall
}

func newRecordingCanvas(w, h int) *recordingCanvas {
	return &recordingCanvas{w: w, h: h}
}

func (r *recordingCanvas) Size() (int, int) { return r.w, r.h }

func (r *recordingCanvas) Clear() error {
	r.calls = append(r.calls, drawCall{op: "clear"})
	return nil
}

func (r *recordingCanvas) FillRoundedRect(rect geometry.Rect, radius float64, c color.Color) error {
	r.calls = append(r.calls, drawCall{op: "fill", rect: rect, radius: radius, color: c})
	return nil
}

func (r *recordingCanvas) DrawImage(img image.Image, dst geometry.Rect) error {
	r.calls = append(r.calls, drawCall{op: "image", rect: dst})
	return nil
}

func (r *recordingCanvas) DrawText(s, fontID string, size, x, y float64, c color.Color) error {
	r.calls = append(r.calls, drawCall{op: "text", text: s, font: fontID, size: size, x: x, y: y, color: c})
	return nil
}

func (r *recordingCanvas) StrokeDashedRect(rect geometry.Rect, c color.Color, lineWidth float64, dash []float64) error {
	r.calls = append(r.calls, drawCall{op: "guide", rect: rect, color: c, dash: dash})
	return nil
}

func (r *recordingCanvas) ops() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.op
	}
	return out
}
