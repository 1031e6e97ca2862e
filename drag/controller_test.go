package drag

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetzzz-customizer/geometry"
	"meetzzz-customizer/models"
)

func newDesign() *models.DesignState {
	return models.NewDesignState(models.DefaultOptionTables())
}

var square = Viewport{SurfaceWidth: 1000, SurfaceHeight: 1000, DisplayWidth: 500, DisplayHeight: 500}

// displayPoint returns the display pixel sitting at zone fraction (fx, fy)
func displayPoint(t *testing.T, view Viewport, zone models.Zone, fx, fy float64) Point {
	t.Helper()
	r, err := geometry.ResolveZone(view.SurfaceWidth, view.SurfaceHeight, zone)
	require.NoError(t, err)
	return Point{
		X: (r.X + r.W*fx) * view.DisplayWidth / view.SurfaceWidth,
		Y: (r.Y + r.H*fy) * view.DisplayHeight / view.SurfaceHeight,
	}
}

func TestBeginPriority(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		artwork bool
		want    State
	}{
		{name: "nothing to drag", want: Idle},
		{name: "whitespace text only", text: "   ", want: Idle},
		{name: "artwork only", artwork: true, want: DraggingImage},
		{name: "text only", text: "HI", want: DraggingText},
		{name: "text beats artwork", text: "HI", artwork: true, want: DraggingText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDesign()
			d.Text = tt.text
			if tt.artwork {
				d.Artwork = image.NewNRGBA(image.Rect(0, 0, 10, 10))
			}
			c := NewController()
			assert.Equal(t, tt.want, c.Begin(d))
			assert.Equal(t, tt.want, c.State())
		})
	}
}

func TestDragRecentersImage(t *testing.T) {
	d := newDesign()
	d.Artwork = image.NewNRGBA(image.Rect(0, 0, 10, 10))
	c := NewController()

	require.Equal(t, DraggingImage, c.Begin(d))
	_, err := c.Move(displayPoint(t, square, d.PlacementZone, 0.5, 0.5), square, d)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d.LayerPosition.ImageX, 1e-9)

	changed, err := c.Move(displayPoint(t, square, d.PlacementZone, 0.1, 0.1), square, d)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.InDelta(t, 0.1, d.LayerPosition.ImageX, 1e-9)
	assert.InDelta(t, 0.1, d.LayerPosition.ImageY, 1e-9)
	assert.Equal(t, 0.5, d.LayerPosition.TextX)

	c.End()
	assert.Equal(t, Idle, c.State())
}

func TestDragTextClampsOutsideCanvas(t *testing.T) {
	d := newDesign()
	d.Text = "HI"
	c := NewController()
	c.Begin(d)

	_, err := c.Move(Point{X: -400, Y: 9000}, square, d)
	require.NoError(t, err)
	assert.Equal(t, models.MinPosition, d.LayerPosition.TextX)
	assert.Equal(t, models.MaxPosition, d.LayerPosition.TextY)
	assert.Equal(t, 0.5, d.LayerPosition.ImageX)
}

func TestDragNonSquareDisplayScaling(t *testing.T) {
	view := Viewport{SurfaceWidth: 1000, SurfaceHeight: 1000, DisplayWidth: 800, DisplayHeight: 400}
	d := newDesign()
	d.Text = "HI"
	d.PlacementZone = models.ZoneBack
	c := NewController()
	c.Begin(d)

	_, err := c.Move(displayPoint(t, view, models.ZoneBack, 0.3, 0.7), view, d)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, d.LayerPosition.TextX, 1e-9)
	assert.InDelta(t, 0.7, d.LayerPosition.TextY, 1e-9)
}

func TestMoveWhileIdleIsIgnored(t *testing.T) {
	d := newDesign()
	c := NewController()
	changed, err := c.Move(Point{X: 1, Y: 1}, square, d)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 0.5, d.LayerPosition.TextX)
}

func TestMoveUnknownZone(t *testing.T) {
	d := newDesign()
	d.Text = "HI"
	d.PlacementZone = "collar"
	c := NewController()
	c.Begin(d)
	_, err := c.Move(Point{X: 1, Y: 1}, square, d)
	assert.ErrorIs(t, err, geometry.ErrUnknownZone)
}

func TestClampInvariantUnderRandomDrags(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := newDesign()
	d.Text = "HI"
	d.Artwork = image.NewNRGBA(image.Rect(0, 0, 10, 10))
	c := NewController()

	for i := 0; i < 500; i++ {
		if i%50 == 0 {
			c.End()
			if i%100 == 0 {
				d.Text = ""
			} else {
				d.Text = "HI"
			}
			c.Begin(d)
		}
		p := Point{X: rng.Float64()*3000 - 1000, Y: rng.Float64()*3000 - 1000}
		_, err := c.Move(p, square, d)
		require.NoError(t, err)

		pos := d.LayerPosition
		for _, v := range []float64{pos.TextX, pos.TextY, pos.ImageX, pos.ImageY} {
			assert.GreaterOrEqual(t, v, models.MinPosition)
			assert.LessOrEqual(t, v, models.MaxPosition)
		}
	}
}

func TestViewportZeroDisplay(t *testing.T) {
	v := Viewport{SurfaceWidth: 1000, SurfaceHeight: 1000}
	assert.Equal(t, Point{X: 12, Y: 34}, v.ToSurface(Point{X: 12, Y: 34}))
}
