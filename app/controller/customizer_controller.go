package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"meetzzz-customizer/models"
	"meetzzz-customizer/service"
	"meetzzz-customizer/session"
	"meetzzz-customizer/utils"
)

const (
	sessionsPath = "/customizer/sessions/"

	// DefaultMaxUploadBytes caps the multipart artwork body
	DefaultMaxUploadBytes = 10 << 20
)

// SnapshotCapturer screenshots a session's mount page
type SnapshotCapturer interface {
	Capture(ctx context.Context, sessionID string) ([]byte, error)
}

// CustomizerController handles HTTP requests for customizer sessions.
// Every handler that mutates a session flushes it once before responding.
type CustomizerController struct {
	manager        *session.Manager
	uploads        *service.UploadService
	pages          *service.PageService
	snapshots      SnapshotCapturer
	brand          string
	maxUploadBytes int64
}

// NewCustomizerController creates a new CustomizerController. snapshots may be nil.
func NewCustomizerController(
	manager *session.Manager,
	uploads *service.UploadService,
	pages *service.PageService,
	snapshots SnapshotCapturer,
	brand string,
) *CustomizerController {
	return &CustomizerController{
		manager:        manager,
		uploads:        uploads,
		pages:          pages,
		snapshots:      snapshots,
		brand:          brand,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
}

// sessionID extracts {id} from /customizer/sessions/{id}[/action]
func sessionID(r *http.Request) string {
	path := strings.TrimPrefix(r.URL.Path, sessionsPath)
	id, _, _ := strings.Cut(path, "/")
	return id
}

// lookup resolves the request's session, writing the error response when it fails
func (c *CustomizerController) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := sessionID(r)
	if id == "" {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return nil, false
	}
	s, err := c.manager.Get(id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return s, true
}

// CreateSession handles POST /customizer/sessions
func (c *CustomizerController) CreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s, err := c.manager.Create()
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", sessionsPath+s.ID)
	writeNegotiated(w, r, http.StatusCreated, s.View())
}

// GetSession handles GET /customizer/sessions/{id}
func (c *CustomizerController) GetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s, ok := c.lookup(w, r)
	if !ok {
		return
	}
	writeNegotiated(w, r, http.StatusOK, s.View())
}

// DeleteSession handles DELETE /customizer/sessions/{id}
func (c *CustomizerController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := c.manager.Delete(sessionID(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateOptions handles PATCH /customizer/sessions/{id}/options
// All fields of one request are applied together and produce a single redraw.
func (c *CustomizerController) UpdateOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s, ok := c.lookup(w, r)
	if !ok {
		return
	}

	var req models.OptionsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if err := s.Apply(req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.Flush(); err != nil {
		writeError(w, err)
		return
	}

	writeNegotiated(w, r, http.StatusOK, s.View())
}

// UploadArtwork handles POST /customizer/sessions/{id}/artwork
// The file is decoded in the background; the response carries the upload's sequence number.
func (c *CustomizerController) UploadArtwork(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s, ok := c.lookup(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadBytes)
	if err := r.ParseMultipartForm(c.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "Artwork file is too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, fmt.Sprintf("Invalid multipart form: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("artwork")
	if err != nil {
		http.Error(w, "artwork file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read artwork: %v", err), http.StatusBadRequest)
		return
	}

	log.Printf("📥 Artwork upload for session %s: %s (%d bytes)", s.ID, header.Filename, len(data))
	seq, _ := c.uploads.Upload(s, header.Filename, data)

	writeJSON(w, http.StatusAccepted, models.UploadResponse{
		Status:    "decoding",
		UploadSeq: seq,
		FileName:  header.Filename,
	})
}

// HandlePointer handles POST /customizer/sessions/{id}/pointer
func (c *CustomizerController) HandlePointer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s, ok := c.lookup(w, r)
	if !ok {
		return
	}

	var ev models.PointerEventRequest
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	resp, err := s.HandlePointer(ev)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.Flush(); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ResetSession handles POST /customizer/sessions/{id}/reset
func (c *CustomizerController) ResetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s, ok := c.lookup(w, r)
	if !ok {
		return
	}

	s.Reset()
	if err := s.Flush(); err != nil {
		writeError(w, err)
		return
	}

	writeNegotiated(w, r, http.StatusOK, s.View())
}

// GetSummary handles GET /customizer/sessions/{id}/summary
func (c *CustomizerController) GetSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s, ok := c.lookup(w, r)
	if !ok {
		return
	}
	writeNegotiated(w, r, http.StatusOK, s.Summary())
}

// GetPreview handles GET /customizer/sessions/{id}/preview.png
func (c *CustomizerController) GetPreview(w http.ResponseWriter, r *http.Request) {
	c.writeFrame(w, r, false)
}

// ExportPreview handles GET /customizer/sessions/{id}/export
// The last composited frame is downloaded as a PNG attachment.
func (c *CustomizerController) ExportPreview(w http.ResponseWriter, r *http.Request) {
	c.writeFrame(w, r, true)
}

func (c *CustomizerController) writeFrame(w http.ResponseWriter, r *http.Request, attachment bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s, ok := c.lookup(w, r)
	if !ok {
		return
	}

	// Encode first so a failure can still produce an error status
	var buf bytes.Buffer
	if err := s.Export(&buf); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if attachment {
		filename := utils.ExportFileName(c.brand)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
		log.Printf("📤 Exporting session %s as %s", s.ID, filename)
	}
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	setNoCache(w)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("❌ Error writing PNG response: %v", err)
	}
}

// GetPage handles GET /customizer/sessions/{id}/page
func (c *CustomizerController) GetPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s, ok := c.lookup(w, r)
	if !ok {
		return
	}

	html, err := c.pages.RenderPage(s, c.manager.Tables())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}

// GetSnapshot handles GET /customizer/sessions/{id}/snapshot.png
func (c *CustomizerController) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if c.snapshots == nil {
		http.Error(w, "Snapshots are not enabled", http.StatusNotImplemented)
		return
	}

	s, ok := c.lookup(w, r)
	if !ok {
		return
	}

	pngData, err := c.snapshots.Capture(r.Context(), s.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pngData)))
	setNoCache(w)
	w.WriteHeader(http.StatusOK)
	w.Write(pngData)
}
