// Package drag maps pointer gestures on the preview element to layer positions.
package drag

import (
	"meetzzz-customizer/geometry"
	"meetzzz-customizer/models"
)

// State is the drag gesture state
type State int

const (
	Idle State = iota
	DraggingText
	DraggingImage
)

func (s State) String() string {
	switch s {
	case DraggingText:
		return "dragging-text"
	case DraggingImage:
		return "dragging-image"
	default:
		return "idle"
	}
}

// Point is a pointer location
type Point struct {
	X, Y float64
}

// Viewport relates the on-screen size of the preview element to the surface resolution
type Viewport struct {
	SurfaceWidth  float64
	SurfaceHeight float64
	DisplayWidth  float64
	DisplayHeight float64
}

// ToSurface converts a display-pixel point to surface pixels, each axis on its own ratio.
// A zero display size means the element is shown at surface resolution.
func (v Viewport) ToSurface(p Point) Point {
	sx, sy := 1.0, 1.0
	if v.DisplayWidth > 0 {
		sx = v.SurfaceWidth / v.DisplayWidth
	}
	if v.DisplayHeight > 0 {
		sy = v.SurfaceHeight / v.DisplayHeight
	}
	return Point{X: p.X * sx, Y: p.Y * sy}
}

// Controller tracks one drag gesture at a time.
// Text always wins the hit-test over artwork, regardless of where the pointer lands.
type Controller struct {
	state State
}

// NewController creates an idle controller
func NewController() *Controller {
	return &Controller{}
}

// State returns the current gesture state
func (c *Controller) State() State {
	return c.state
}

// Begin starts a gesture and picks the layer to drag. The start point does not
// take part in the hit-test while priority is fixed.
func (c *Controller) Begin(design *models.DesignState) State {
	switch {
	case design.RenderText() != "":
		c.state = DraggingText
	case design.HasArtwork():
		c.state = DraggingImage
	default:
		c.state = Idle
	}
	return c.state
}

// Move repositions the dragged layer under p. It reports whether design changed.
func (c *Controller) Move(p Point, view Viewport, design *models.DesignState) (bool, error) {
	if c.state == Idle {
		return false, nil
	}

	area, err := geometry.ResolveZone(view.SurfaceWidth, view.SurfaceHeight, design.PlacementZone)
	if err != nil {
		return false, err
	}
	sp := view.ToSurface(p)
	nx := models.ClampPosition((sp.X - area.X) / area.W)
	ny := models.ClampPosition((sp.Y - area.Y) / area.H)

	pos := &design.LayerPosition
	switch c.state {
	case DraggingText:
		if pos.TextX == nx && pos.TextY == ny {
			return false, nil
		}
		pos.TextX, pos.TextY = nx, ny
	case DraggingImage:
		if pos.ImageX == nx && pos.ImageY == ny {
			return false, nil
		}
		pos.ImageX, pos.ImageY = nx, ny
	}
	return true, nil
}

// End finishes the gesture. There is no inertia or snapping.
func (c *Controller) End() {
	c.state = Idle
}
