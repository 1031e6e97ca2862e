package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"meetzzz-customizer/models"
	"meetzzz-customizer/render"
	"meetzzz-customizer/session"
)

// encodePNG returns a solid w x h PNG
func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// newTestSession creates a session backed by a real 200x200 surface
func newTestSession(t *testing.T) (*session.Manager, *session.Session) {
	t.Helper()
	fonts, err := render.NewDefaultFontRegistry()
	require.NoError(t, err)
	t.Cleanup(func() { _ = fonts.Close() })

	m := session.NewManager(session.Config{
		Tables: models.DefaultOptionTables(),
		Width:  200,
		Height: 200,
		NewSurface: func(w, h int) session.Surface {
			return render.NewSurface(w, h, fonts)
		},
	})
	t.Cleanup(m.Close)

	s, err := m.Create()
	require.NoError(t, err)
	return m, s
}
