// Package render composites the garment preview: silhouette, artwork, text
// and the placement guide, always in the same back-to-front order.
package render

import (
	"fmt"
	"image/color"

	"meetzzz-customizer/geometry"
	"meetzzz-customizer/models"
	"meetzzz-customizer/utils"
)

const (
	pocketShadePercent = -10

	// artwork fits inside this share of the placement rectangle before scaling
	artworkFit = 0.9
	// font size as a share of the placement rectangle height before scaling
	textHeightRatio = 0.22

	guideLineWidth = 2.0
	guideDash      = 8.0
	guideGap       = 6.0
)

var guideColor = color.NRGBA{R: 255, G: 255, B: 255, A: 64}

// Compositor redraws a canvas from a design state
type Compositor struct{}

// NewCompositor creates a Compositor
func NewCompositor() *Compositor {
	return &Compositor{}
}

// Render fully overwrites canvas with the preview of state.
// An unknown placement zone is returned as an error before anything is drawn.
func (c *Compositor) Render(canvas Canvas, state *models.DesignState) error {
	cw, ch := canvas.Size()
	w, h := float64(cw), float64(ch)

	area, err := geometry.ResolveZone(w, h, state.PlacementZone)
	if err != nil {
		return err
	}
	garment := geometry.ResolveGarment(w, h)

	base, err := utils.ParseHexColor(state.GarmentColor)
	if err != nil {
		return fmt.Errorf("garment color: %w", err)
	}

	if err := canvas.Clear(); err != nil {
		return fmt.Errorf("failed to clear surface: %w", err)
	}
	if err := canvas.FillRoundedRect(garment.Body, garment.BodyRadius, base); err != nil {
		return fmt.Errorf("failed to fill body: %w", err)
	}
	if err := canvas.FillRoundedRect(garment.Hood, garment.HoodRadius, base); err != nil {
		return fmt.Errorf("failed to fill hood: %w", err)
	}
	pocket := utils.ShadeRGBA(base, pocketShadePercent)
	if err := canvas.FillRoundedRect(garment.Pocket, garment.PocketRadius, pocket); err != nil {
		return fmt.Errorf("failed to fill pocket: %w", err)
	}

	if state.HasArtwork() {
		if dst, ok := ArtworkRect(area, state); ok {
			if err := canvas.DrawImage(state.Artwork, dst); err != nil {
				return fmt.Errorf("failed to draw artwork: %w", err)
			}
		}
	}

	if txt := state.RenderText(); txt != "" {
		textColor, err := utils.ParseHexColor(state.TextColor)
		if err != nil {
			return fmt.Errorf("text color: %w", err)
		}
		x, y := TextAnchor(area, state)
		if err := canvas.DrawText(txt, state.FontFamily, FontSize(area, state), x, y, textColor); err != nil {
			return fmt.Errorf("failed to draw text: %w", err)
		}
	}

	if err := canvas.StrokeDashedRect(area, guideColor, guideLineWidth, []float64{guideDash, guideGap}); err != nil {
		return fmt.Errorf("failed to draw placement guide: %w", err)
	}
	return nil
}

// ArtworkRect returns where the artwork lands inside area.
// The image keeps its aspect ratio and fits within artworkFit of area scaled by ImageScale;
// ImageX/ImageY place its top-left inside the remaining slack (0 near edge, 1 far edge).
func ArtworkRect(area geometry.Rect, state *models.DesignState) (geometry.Rect, bool) {
	if state.Artwork == nil {
		return geometry.Rect{}, false
	}
	b := state.Artwork.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return geometry.Rect{}, false
	}
	aspect := float64(b.Dx()) / float64(b.Dy())

	maxW := area.W * artworkFit * state.ImageScale
	maxH := area.H * artworkFit * state.ImageScale

	drawW := maxW
	drawH := drawW / aspect
	if drawH > maxH {
		drawH = maxH
		drawW = drawH * aspect
	}

	return geometry.Rect{
		X: area.X + (area.W-drawW)*state.LayerPosition.ImageX,
		Y: area.Y + (area.H-drawH)*state.LayerPosition.ImageY,
		W: drawW,
		H: drawH,
	}, true
}

// TextAnchor returns the centre point of the text layer
func TextAnchor(area geometry.Rect, state *models.DesignState) (float64, float64) {
	return area.X + area.W*state.LayerPosition.TextX, area.Y + area.H*state.LayerPosition.TextY
}

// FontSize returns the text size in surface pixels
func FontSize(area geometry.Rect, state *models.DesignState) float64 {
	return area.H * textHeightRatio * state.TextScale
}
