package render

import (
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"

	"meetzzz-customizer/geometry"
)

// Canvas is the raster target the compositor draws on
type Canvas interface {
	Size() (w, h int)
	Clear() error
	FillRoundedRect(r geometry.Rect, radius float64, c color.Color) error
	DrawImage(img image.Image, dst geometry.Rect) error
	// DrawText draws s centred both ways on (x, y)
	DrawText(s, fontID string, size, x, y float64, c color.Color) error
	StrokeDashedRect(r geometry.Rect, c color.Color, lineWidth float64, dash []float64) error
}

// Surface is the gg-backed preview surface. It is owned by exactly one session.
type Surface struct {
	dc    *gg.Context
	fonts *FontRegistry

	// converted artwork, reused while the session keeps the same image
	artworkSrc image.Image
	artworkBuf *gg.ImageBuf
}

var _ Canvas = (*Surface)(nil)

// NewSurface allocates a w x h surface drawing text with fonts
func NewSurface(w, h int, fonts *FontRegistry) *Surface {
	return &Surface{
		dc:    gg.NewContext(w, h),
		fonts: fonts,
	}
}

func (s *Surface) Size() (int, int) {
	return s.dc.Width(), s.dc.Height()
}

func (s *Surface) Clear() error {
	s.dc.ClearPath()
	s.dc.ClearDash()
	s.dc.Clear()
	return nil
}

func (s *Surface) FillRoundedRect(r geometry.Rect, radius float64, c color.Color) error {
	s.setColor(c)
	s.dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
	return s.dc.Fill()
}

func (s *Surface) DrawImage(img image.Image, dst geometry.Rect) error {
	if img != s.artworkSrc {
		s.artworkSrc = img
		s.artworkBuf = gg.ImageBufFromImage(img)
	}
	s.dc.DrawImageEx(s.artworkBuf, gg.DrawImageOptions{
		X:             dst.X,
		Y:             dst.Y,
		DstWidth:      dst.W,
		DstHeight:     dst.H,
		Interpolation: gg.InterpBilinear,
		Opacity:       1.0,
		BlendMode:     gg.BlendNormal,
	})
	return nil
}

func (s *Surface) DrawText(str, fontID string, size, x, y float64, c color.Color) error {
	face, err := s.fonts.Face(fontID, size)
	if err != nil {
		return err
	}
	s.dc.SetFont(face)
	s.setColor(c)
	s.dc.DrawStringAnchored(str, x, y, 0.5, 0.5)
	return nil
}

func (s *Surface) StrokeDashedRect(r geometry.Rect, c color.Color, lineWidth float64, dash []float64) error {
	s.setColor(c)
	s.dc.SetLineWidth(lineWidth)
	s.dc.SetDash(dash...)
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	err := s.dc.Stroke()
	s.dc.ClearDash()
	return err
}

// EncodePNG writes the surface as it was last composited
func (s *Surface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

// Image returns a copy of the current pixels
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

// ReleaseArtwork drops the cached artwork buffer
func (s *Surface) ReleaseArtwork() {
	s.artworkSrc = nil
	s.artworkBuf = nil
}

// Close releases the drawing context
func (s *Surface) Close() error {
	s.ReleaseArtwork()
	return s.dc.Close()
}

// setColor goes through non-premultiplied components so translucent guides keep their hue
func (s *Surface) setColor(c color.Color) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	s.dc.SetRGBA(float64(n.R)/255, float64(n.G)/255, float64(n.B)/255, float64(n.A)/255)
}
