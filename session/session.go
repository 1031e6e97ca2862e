// Package session owns the per-visitor design state and its preview surface.
// Each Session behaves like a single-threaded UI loop: a mutex serialises every
// mutation, redraw and export, and redraws are batched behind a dirty flag.
package session

import (
	"fmt"
	"image"
	"io"
	"log"
	"sync"
	"time"

	"meetzzz-customizer/drag"
	"meetzzz-customizer/models"
	"meetzzz-customizer/render"
)

// Surface is the raster target a session composites into
type Surface interface {
	render.Canvas
	EncodePNG(w io.Writer) error
	Close() error
}

// artworkReleaser is implemented by surfaces that cache converted artwork
type artworkReleaser interface {
	ReleaseArtwork()
}

// Session is one customizer instance
type Session struct {
	ID string

	mu         sync.Mutex
	tables     *models.OptionTables
	compositor *render.Compositor
	surface    Surface
	state      *models.DesignState
	drag       *drag.Controller

	dirty        bool
	frames       int
	uploadSeq    uint64
	hasUploaded  bool
	lastAccessed time.Time
}

func newSession(id string, tables *models.OptionTables, compositor *render.Compositor, surface Surface) *Session {
	return &Session{
		ID:           id,
		tables:       tables,
		compositor:   compositor,
		surface:      surface,
		state:        models.NewDesignState(tables),
		drag:         drag.NewController(),
		dirty:        true,
		lastAccessed: time.Now(),
	}
}

// State returns a copy of the design state
func (s *Session) State() models.DesignState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return *s.state
}

// View returns the state together with the derived fields the page displays
func (s *Session) View() models.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return models.SessionView{
		ID:         s.ID,
		State:      *s.state,
		HasArtwork: s.state.HasArtwork(),
		UploadSeq:  s.uploadSeq,
		DragState:  s.drag.State().String(),
		Summary:    s.summaryLocked(),
	}
}

// Summary returns the read-only order summary tuple
func (s *Session) Summary() models.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

func (s *Session) summaryLocked() models.Summary {
	summary := models.Summary{Size: s.state.Size}
	if c, err := s.tables.LookupGarmentColor(s.state.GarmentColor); err == nil {
		summary.ColorName = c.Name
	}
	if z, err := s.tables.LookupZone(s.state.PlacementZone); err == nil {
		summary.PlacementLabel = z.Label
	}
	return summary
}

// Apply validates every field of req against the option tables, then applies them together.
// Slider values are clamped here, before they reach the design state.
func (s *Session) Apply(req models.OptionsUpdateRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	next := *s.state
	if req.GarmentColor != nil {
		c, err := s.tables.LookupGarmentColor(*req.GarmentColor)
		if err != nil {
			return err
		}
		next.GarmentColor = c.Hex
	}
	if req.Size != nil {
		size, err := s.tables.LookupSize(*req.Size)
		if err != nil {
			return err
		}
		next.Size = size
	}
	if req.PlacementZone != nil {
		z, err := s.tables.LookupZone(*req.PlacementZone)
		if err != nil {
			return err
		}
		next.PlacementZone = z.ID
	}
	if req.Text != nil {
		next.Text = *req.Text
	}
	if req.TextColor != nil {
		c, err := s.tables.LookupTextColor(*req.TextColor)
		if err != nil {
			return err
		}
		next.TextColor = c.Hex
	}
	if req.FontFamily != nil {
		f, err := s.tables.LookupFont(*req.FontFamily)
		if err != nil {
			return err
		}
		next.FontFamily = f.ID
	}
	if req.TextScale != nil {
		next.TextScale = models.ClampTextScale(*req.TextScale)
	}
	if req.ImageScale != nil {
		next.ImageScale = models.ClampImageScale(*req.ImageScale)
	}

	if !sameParameters(next, *s.state) {
		*s.state = next
		s.dirty = true
	}
	return nil
}

// sameParameters compares every field except the artwork handle
func sameParameters(a, b models.DesignState) bool {
	a.Artwork, b.Artwork = nil, nil
	return a == b
}

// BeginUpload reserves a sequence number for a new artwork decode.
// Any decode started earlier becomes stale.
func (s *Session) BeginUpload() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.uploadSeq++
	return s.uploadSeq
}

// IsLatestUpload reports whether seq is still the newest upload
func (s *Session) IsLatestUpload(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.uploadSeq
}

// CompleteUpload installs a decoded image if seq is still the latest upload.
// It reports whether the image was accepted.
func (s *Session) CompleteUpload(seq uint64, img image.Image) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.uploadSeq {
		log.Printf("⏭️  Session %s: discarding stale artwork decode (seq %d, latest %d)", s.shortID(), seq, s.uploadSeq)
		return false
	}
	if img == nil {
		return false
	}

	s.releaseArtworkLocked()
	s.state.Artwork = img
	if !s.hasUploaded {
		s.state.ImageScale = models.DefaultImageScale
		s.hasUploaded = true
	}
	s.dirty = true
	return true
}

// Reset restores every field to its default and releases the artwork.
// In-flight decodes are invalidated.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.releaseArtworkLocked()
	s.state = models.NewDesignState(s.tables)
	s.drag.End()
	s.uploadSeq++
	s.hasUploaded = false
	s.dirty = true
}

func (s *Session) releaseArtworkLocked() {
	s.state.Artwork = nil
	if r, ok := s.surface.(artworkReleaser); ok {
		r.ReleaseArtwork()
	}
}

// HandlePointer feeds one pointer event to the drag controller
func (s *Session) HandlePointer(ev models.PointerEventRequest) (models.PointerEventResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	var changed bool
	switch ev.Type {
	case models.PointerDown:
		s.drag.Begin(s.state)
	case models.PointerMove:
		w, h := s.surface.Size()
		view := drag.Viewport{
			SurfaceWidth:  float64(w),
			SurfaceHeight: float64(h),
			DisplayWidth:  ev.DisplayWidth,
			DisplayHeight: ev.DisplayHeight,
		}
		var err error
		changed, err = s.drag.Move(drag.Point{X: ev.X, Y: ev.Y}, view, s.state)
		if err != nil {
			return models.PointerEventResponse{}, err
		}
		if changed {
			s.dirty = true
		}
	case models.PointerUp, models.PointerCancel:
		s.drag.End()
	default:
		return models.PointerEventResponse{}, fmt.Errorf("%w: pointer event %q", models.ErrUnknownOption, ev.Type)
	}

	return models.PointerEventResponse{
		DragState:     s.drag.State().String(),
		Changed:       changed,
		LayerPosition: s.state.LayerPosition,
	}, nil
}

// Flush redraws the surface if anything changed since the last frame
func (s *Session) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *Session) flushLocked() error {
	if !s.dirty {
		return nil
	}
	if err := s.compositor.Render(s.surface, s.state); err != nil {
		return fmt.Errorf("failed to render session %s: %w", s.shortID(), err)
	}
	s.dirty = false
	s.frames++
	return nil
}

// Dirty reports whether a redraw is pending
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Frames returns how many redraws the session has performed
func (s *Session) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Export writes the last composited frame as PNG. No new frame is drawn
// unless the surface has never been composited.
func (s *Session) Export(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.frames == 0 {
		if err := s.flushLocked(); err != nil {
			return err
		}
	}
	if err := s.surface.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	return nil
}

// LastAccessed returns when the session was last used
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessed
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseArtworkLocked()
	s.uploadSeq++
	if err := s.surface.Close(); err != nil {
		log.Printf("⚠️  Session %s: failed to close surface: %v", s.shortID(), err)
	}
}

func (s *Session) touch() {
	s.lastAccessed = time.Now()
}

func (s *Session) shortID() string {
	if len(s.ID) > 8 {
		return s.ID[:8]
	}
	return s.ID
}
