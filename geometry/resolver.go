// Package geometry maps a canvas size and a placement zone to the rectangles
// of the flat garment illustration. Every function here is pure: the compositor
// and the drag controller call the same resolver so hit-testing matches what is drawn.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"meetzzz-customizer/models"
)

// ErrUnknownZone means a zone value reached the resolver without a rectangle entry
var ErrUnknownZone = errors.New("unknown placement zone")

// ReferenceSize is the canvas edge the corner radii were tuned for
const ReferenceSize = 900.0

// Corner radii at ReferenceSize
const (
	bodyRadius   = 24.0
	hoodRadius   = 20.0
	pocketRadius = 16.0
)

// Rect is an axis-aligned rectangle in surface pixels
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether o lies entirely inside r
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.X+o.W <= r.X+r.W && o.Y+o.H <= r.Y+r.H
}

// Empty reports whether r has no area
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Garment holds the silhouette parts, each with its corner radius
type Garment struct {
	Body   Rect
	Hood   Rect
	Pocket Rect

	BodyRadius   float64
	HoodRadius   float64
	PocketRadius float64
}

// fraction of the body rectangle
type fraction struct {
	x, y, w, h float64
}

func (f fraction) of(body Rect) Rect {
	return Rect{
		X: body.X + body.W*f.x,
		Y: body.Y + body.H*f.y,
		W: body.W * f.w,
		H: body.H * f.h,
	}
}

// zoneTable must cover every models.Zone constant
var zoneTable = map[models.Zone]fraction{
	models.ZoneFrontCenter: {x: 0.25, y: 0.28, w: 0.50, h: 0.22},
	models.ZoneFrontLeft:   {x: 0.12, y: 0.30, w: 0.22, h: 0.16},
	models.ZoneBack:        {x: 0.18, y: 0.24, w: 0.64, h: 0.36},
	models.ZoneSleeveLeft:  {x: 0.03, y: 0.22, w: 0.12, h: 0.34},
	models.ZoneSleeveRight: {x: 0.85, y: 0.22, w: 0.12, h: 0.34},
}

// Zones lists every zone the resolver knows, in a stable order
func Zones() []models.Zone {
	return []models.Zone{
		models.ZoneFrontCenter,
		models.ZoneFrontLeft,
		models.ZoneBack,
		models.ZoneSleeveLeft,
		models.ZoneSleeveRight,
	}
}

// KnownZone reports whether zone has a rectangle entry
func KnownZone(zone models.Zone) bool {
	_, ok := zoneTable[zone]
	return ok
}

// ResolveGarment lays out the body, hood and pocket for a canvas of w x h
func ResolveGarment(w, h float64) Garment {
	bodyW := w * 0.6
	bodyH := h * 0.7
	body := Rect{
		X: (w - bodyW) / 2,
		Y: (h - bodyH) / 2,
		W: bodyW,
		H: bodyH,
	}

	scale := math.Min(w, h) / ReferenceSize

	return Garment{
		Body: body,
		Hood: Rect{
			X: body.X + body.W*0.15,
			Y: body.Y - body.H*0.18,
			W: body.W * 0.7,
			H: body.H * 0.28,
		},
		Pocket: Rect{
			X: body.X + body.W*0.25,
			Y: body.Y + body.H*0.62,
			W: body.W * 0.5,
			H: body.H * 0.14,
		},
		BodyRadius:   bodyRadius * scale,
		HoodRadius:   hoodRadius * scale,
		PocketRadius: pocketRadius * scale,
	}
}

// ResolveZone returns the placement rectangle of zone for a canvas of w x h
func ResolveZone(w, h float64, zone models.Zone) (Rect, error) {
	f, ok := zoneTable[zone]
	if !ok {
		return Rect{}, fmt.Errorf("%w: %q", ErrUnknownZone, zone)
	}
	return f.of(ResolveGarment(w, h).Body), nil
}
