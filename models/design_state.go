package models

import (
	"image"
	"strings"
	"unicode/utf8"
)

// Input limits for the customizer controls
const (
	MaxTextRunes = 24

	MinTextScale     = 0.6
	MaxTextScale     = 1.6
	DefaultTextScale = 1.0

	MinImageScale     = 0.5
	MaxImageScale     = 2.0
	DefaultImageScale = 1.0

	MinPosition     = 0.05
	MaxPosition     = 0.95
	DefaultPosition = 0.5
)

// LayerPosition holds each layer's anchor as a fraction of the placement rectangle
type LayerPosition struct {
	TextX  float64 `json:"textX" msgpack:"textX"`
	TextY  float64 `json:"textY" msgpack:"textY"`
	ImageX float64 `json:"imageX" msgpack:"imageX"`
	ImageY float64 `json:"imageY" msgpack:"imageY"`
}

// DesignState represents every customizer parameter of one session
type DesignState struct {
	GarmentColor  string        `json:"garmentColor" msgpack:"garmentColor"`
	Size          string        `json:"size" msgpack:"size"`
	PlacementZone Zone          `json:"placementZone" msgpack:"placementZone"`
	Text          string        `json:"text" msgpack:"text"`
	TextColor     string        `json:"textColor" msgpack:"textColor"`
	FontFamily    string        `json:"fontFamily" msgpack:"fontFamily"`
	TextScale     float64       `json:"textScale" msgpack:"textScale"`
	ImageScale    float64       `json:"imageScale" msgpack:"imageScale"`
	LayerPosition LayerPosition `json:"layerPosition" msgpack:"layerPosition"`

	// Artwork is the decoded upload, nil when none. Never serialized.
	Artwork image.Image `json:"-" msgpack:"-"`
}

// NewDesignState builds a state holding the defaults of the given tables
func NewDesignState(tables *OptionTables) *DesignState {
	return &DesignState{
		GarmentColor:  tables.GarmentColors[0].Hex,
		Size:          tables.DefaultSize,
		PlacementZone: tables.Zones[0].ID,
		TextColor:     tables.TextColors[0].Hex,
		FontFamily:    tables.Fonts[0].ID,
		TextScale:     DefaultTextScale,
		ImageScale:    DefaultImageScale,
		LayerPosition: LayerPosition{
			TextX:  DefaultPosition,
			TextY:  DefaultPosition,
			ImageX: DefaultPosition,
			ImageY: DefaultPosition,
		},
	}
}

// HasArtwork reports whether an artwork layer is present
func (s *DesignState) HasArtwork() bool {
	return s.Artwork != nil
}

// RenderText returns the text layer as it is drawn, "" meaning no text layer
func (s *DesignState) RenderText() string {
	return RenderableText(s.Text)
}

// RenderableText trims whitespace and keeps at most MaxTextRunes runes
func RenderableText(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= MaxTextRunes {
		return text
	}
	return string([]rune(text)[:MaxTextRunes])
}

// ClampTextScale bounds a text scale slider value
func ClampTextScale(v float64) float64 {
	return clamp(v, MinTextScale, MaxTextScale)
}

// ClampImageScale bounds an image scale slider value
func ClampImageScale(v float64) float64 {
	return clamp(v, MinImageScale, MaxImageScale)
}

// ClampPosition bounds a normalized layer coordinate
func ClampPosition(v float64) float64 {
	return clamp(v, MinPosition, MaxPosition)
}

func clamp(v, lo, hi float64) float64 {
	// NaN compares false both ways; treat it as the lower bound
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
