package service

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	// uploads larger than this on either side are downscaled before they reach a session
	maxArtworkDimension = 2048
	// uploads whose header declares more pixels than this are rejected before decoding
	maxArtworkPixels = 40_000_000
)

// ArtworkLoader decodes uploaded artwork into an image the compositor can draw
type ArtworkLoader struct {
	maxDim    int
	maxPixels int
}

// NewArtworkLoader creates an ArtworkLoader with the default size cap
func NewArtworkLoader() *ArtworkLoader {
	return &ArtworkLoader{maxDim: maxArtworkDimension, maxPixels: maxArtworkPixels}
}

// Decode decodes imageData (PNG, JPEG, GIF, BMP, TIFF or WebP), refusing images whose
// header declares more than the pixel budget. It applies EXIF
// orientation and downscales it to the size cap keeping the aspect ratio.
func (l *ArtworkLoader) Decode(imageData []byte) (image.Image, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("empty artwork upload")
	}

	contentType := http.DetectContentType(imageData)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("unsupported artwork type %q", contentType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to read artwork header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("artwork has no pixels")
	}
	if cfg.Width*cfg.Height > l.maxPixels {
		return nil, fmt.Errorf("artwork is %dx%d, more than %d pixels", cfg.Width, cfg.Height, l.maxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode artwork: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("artwork has no pixels")
	}

	if bounds.Dx() > l.maxDim || bounds.Dy() > l.maxDim {
		fitted := imaging.Fit(img, l.maxDim, l.maxDim, imaging.Lanczos)
		log.Printf("🔄 Resizing artwork: %dx%d -> %dx%d", bounds.Dx(), bounds.Dy(), fitted.Bounds().Dx(), fitted.Bounds().Dy())
		return fitted, nil
	}

	return imaging.Clone(img), nil
}
