package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOption is returned when a value is not part of the injected option tables
var ErrUnknownOption = errors.New("unknown option")

// Zone identifies the named region of the garment that receives artwork and text
type Zone string

const (
	ZoneFrontCenter Zone = "front-center"
	ZoneFrontLeft   Zone = "front-left"
	ZoneBack        Zone = "back"
	ZoneSleeveLeft  Zone = "sleeve-left"
	ZoneSleeveRight Zone = "sleeve-right"
)

// ColorOption is a named swatch (e.g. "Jet Black" -> "#0b0b0b")
type ColorOption struct {
	Name string `json:"name" yaml:"name" msgpack:"name"`
	Hex  string `json:"hex" yaml:"hex" msgpack:"hex"`
}

// ZoneOption pairs a placement zone with the label shown in selects and the order summary
type ZoneOption struct {
	ID    Zone   `json:"id" yaml:"id" msgpack:"id"`
	Label string `json:"label" yaml:"label" msgpack:"label"`
}

// FontOption is a selectable font family. ID must be registered with the renderer's font registry.
type FontOption struct {
	ID    string `json:"id" yaml:"id" msgpack:"id"`
	Label string `json:"label" yaml:"label" msgpack:"label"`
}

// OptionTables holds the fixed, ordered lists the customizer offers.
// Tables are built once at startup and treated as immutable afterwards.
type OptionTables struct {
	GarmentColors []ColorOption `json:"garmentColors" yaml:"garmentColors"`
	TextColors    []ColorOption `json:"textColors" yaml:"textColors"`
	Sizes         []string      `json:"sizes" yaml:"sizes"`
	DefaultSize   string        `json:"defaultSize" yaml:"defaultSize"`
	Zones         []ZoneOption  `json:"zones" yaml:"zones"`
	Fonts         []FontOption  `json:"fonts" yaml:"fonts"`
}

// DefaultOptionTables returns the storefront's stock palette and lists
func DefaultOptionTables() *OptionTables {
	return &OptionTables{
		GarmentColors: []ColorOption{
			{Name: "Jet Black", Hex: "#0b0b0b"},
			{Name: "Storm Grey", Hex: "#2f2f35"},
			{Name: "Ice White", Hex: "#f5f7fa"},
			{Name: "Electric Blue", Hex: "#00a6ff"},
		},
		TextColors: []ColorOption{
			{Name: "White", Hex: "#ffffff"},
			{Name: "Jet Black", Hex: "#0b0b0b"},
			{Name: "Electric Blue", Hex: "#00a6ff"},
			{Name: "Signal Red", Hex: "#ff3b30"},
			{Name: "Lime", Hex: "#a3e635"},
		},
		Sizes:       []string{"XS", "S", "M", "L", "XL", "2XL"},
		DefaultSize: "M",
		Zones: []ZoneOption{
			{ID: ZoneFrontCenter, Label: "Front Center"},
			{ID: ZoneFrontLeft, Label: "Front Left Chest"},
			{ID: ZoneBack, Label: "Back"},
			{ID: ZoneSleeveLeft, Label: "Left Sleeve"},
			{ID: ZoneSleeveRight, Label: "Right Sleeve"},
		},
		Fonts: []FontOption{
			{ID: "go-bold", Label: "Go Bold"},
			{ID: "go-regular", Label: "Go Regular"},
			{ID: "go-medium", Label: "Go Medium"},
			{ID: "go-italic", Label: "Go Italic"},
			{ID: "go-mono", Label: "Go Mono"},
		},
	}
}

// Validate checks that every table is populated and the default size is offered
func (t *OptionTables) Validate() error {
	if len(t.GarmentColors) == 0 {
		return fmt.Errorf("garment colors are required")
	}
	if len(t.TextColors) == 0 {
		return fmt.Errorf("text colors are required")
	}
	if len(t.Sizes) == 0 {
		return fmt.Errorf("sizes are required")
	}
	if len(t.Zones) == 0 {
		return fmt.Errorf("zones are required")
	}
	if len(t.Fonts) == 0 {
		return fmt.Errorf("fonts are required")
	}
	if _, err := t.LookupSize(t.DefaultSize); err != nil {
		return fmt.Errorf("default size: %w", err)
	}
	for _, c := range append(append([]ColorOption{}, t.GarmentColors...), t.TextColors...) {
		if !isHexColor(c.Hex) {
			return fmt.Errorf("color %q has invalid hex %q", c.Name, c.Hex)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can extend tables without touching the original
func (t *OptionTables) Clone() *OptionTables {
	return &OptionTables{
		GarmentColors: append([]ColorOption(nil), t.GarmentColors...),
		TextColors:    append([]ColorOption(nil), t.TextColors...),
		Sizes:         append([]string(nil), t.Sizes...),
		DefaultSize:   t.DefaultSize,
		Zones:         append([]ZoneOption(nil), t.Zones...),
		Fonts:         append([]FontOption(nil), t.Fonts...),
	}
}

// LookupGarmentColor finds a garment color by hex (case-insensitive)
func (t *OptionTables) LookupGarmentColor(hex string) (ColorOption, error) {
	return lookupColor(t.GarmentColors, hex, "garment color")
}

// LookupTextColor finds a text swatch by hex (case-insensitive)
func (t *OptionTables) LookupTextColor(hex string) (ColorOption, error) {
	return lookupColor(t.TextColors, hex, "text color")
}

// LookupSize normalizes and validates a size value
func (t *OptionTables) LookupSize(size string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(size))
	for _, s := range t.Sizes {
		if s == normalized {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: size %q", ErrUnknownOption, size)
}

// LookupZone returns the zone option for id
func (t *OptionTables) LookupZone(id Zone) (ZoneOption, error) {
	for _, z := range t.Zones {
		if z.ID == id {
			return z, nil
		}
	}
	return ZoneOption{}, fmt.Errorf("%w: placement zone %q", ErrUnknownOption, id)
}

// LookupFont returns the font option for id
func (t *OptionTables) LookupFont(id string) (FontOption, error) {
	for _, f := range t.Fonts {
		if f.ID == id {
			return f, nil
		}
	}
	return FontOption{}, fmt.Errorf("%w: font %q", ErrUnknownOption, id)
}

func lookupColor(options []ColorOption, hex, kind string) (ColorOption, error) {
	for _, c := range options {
		if strings.EqualFold(c.Hex, strings.TrimSpace(hex)) {
			return c, nil
		}
	}
	return ColorOption{}, fmt.Errorf("%w: %s %q", ErrUnknownOption, kind, hex)
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
