package router

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"meetzzz-customizer/app/controller"
	"meetzzz-customizer/models"
	"meetzzz-customizer/render"
	"meetzzz-customizer/service"
	"meetzzz-customizer/session"
)

const testCanvas = 200

type fakeSnapshots struct {
	captured []string
}

func (f *fakeSnapshots) Capture(ctx context.Context, sessionID string) ([]byte, error) {
	f.captured = append(f.captured, sessionID)
	return []byte("\x89PNG fake"), nil
}

type testServer struct {
	mux       *http.ServeMux
	manager   *session.Manager
	snapshots *fakeSnapshots
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	fonts, err := render.NewDefaultFontRegistry()
	require.NoError(t, err)
	t.Cleanup(func() { _ = fonts.Close() })

	tables := models.DefaultOptionTables()
	manager := session.NewManager(session.Config{
		Tables: tables,
		Width:  testCanvas,
		Height: testCanvas,
		NewSurface: func(w, h int) session.Surface {
			return render.NewSurface(w, h, fonts)
		},
	})
	t.Cleanup(manager.Close)

	pages, err := service.NewPageService("Meetzzz")
	require.NoError(t, err)

	snapshots := &fakeSnapshots{}
	mux := http.NewServeMux()
	RegisterRoutes(mux, &Controllers{
		Options: controller.NewOptionsController(tables),
		Customizer: controller.NewCustomizerController(
			manager,
			service.NewUploadService(service.NewArtworkLoader()),
			pages,
			snapshots,
			"Meetzzz",
		),
	})

	return &testServer{mux: mux, manager: manager, snapshots: snapshots}
}

func (ts *testServer) do(t *testing.T, method, path string, body []byte, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) createSession(t *testing.T) models.SessionView {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/customizer/sessions", nil, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var view models.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func (ts *testServer) patch(t *testing.T, id, body string) *httptest.ResponseRecorder {
	t.Helper()
	return ts.do(t, http.MethodPatch, "/customizer/sessions/"+id+"/options", []byte(body),
		http.Header{"Content-Type": {"application/json"}})
}

func TestPing(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/ping", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/ping", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGetOptions(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/customizer/options", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var tables models.OptionTables
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tables))
	assert.Equal(t, *models.DefaultOptionTables(), tables)
}

func TestGetOptionsMsgpack(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/customizer/options", nil, http.Header{"Accept": {"application/msgpack"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/msgpack", rec.Header().Get("Content-Type"))

	var decoded map[string]interface{}
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, "M", decoded["defaultSize"])
	assert.Len(t, decoded["zones"], 5)
}

func TestCreateSessionReturnsDefaults(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/customizer/sessions", nil, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var view models.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "/customizer/sessions/"+view.ID, rec.Header().Get("Location"))
	assert.Equal(t, "#0b0b0b", view.State.GarmentColor)
	assert.Equal(t, models.ZoneFrontCenter, view.State.PlacementZone)
	assert.Equal(t, "idle", view.DragState)
	assert.Equal(t, models.Summary{ColorName: "Jet Black", Size: "M", PlacementLabel: "Front Center"}, view.Summary)

	rec = ts.do(t, http.MethodGet, "/customizer/sessions", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGetSessionMsgpack(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createSession(t)

	rec := ts.do(t, http.MethodGet, "/customizer/sessions/"+created.ID, nil, http.Header{"Accept": {"application/msgpack"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var view models.SessionView
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, created.ID, view.ID)
	assert.Equal(t, "M", view.State.Size)
}

func TestUpdateOptions(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createSession(t)
	s, err := ts.manager.Get(created.ID)
	require.NoError(t, err)
	framesBefore := s.Frames()

	rec := ts.patch(t, created.ID, `{"garmentColor":"#F5F7FA","size":"xl","placementZone":"back","text":"Night Owl","textScale":9}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var view models.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "XL", view.State.Size)
	assert.Equal(t, models.ZoneBack, view.State.PlacementZone)
	assert.Equal(t, models.MaxTextScale, view.State.TextScale)
	assert.Equal(t, models.Summary{ColorName: "Ice White", Size: "XL", PlacementLabel: "Back"}, view.Summary)

	// every field of one request lands in a single redraw
	assert.Equal(t, framesBefore+1, s.Frames())
}

func TestUpdateOptionsErrors(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createSession(t)

	tests := []struct {
		name   string
		id     string
		body   string
		status int
	}{
		{"unknown color", created.ID, `{"garmentColor":"#123456"}`, http.StatusBadRequest},
		{"unknown zone", created.ID, `{"placementZone":"hood"}`, http.StatusBadRequest},
		{"malformed body", created.ID, `{"size":`, http.StatusBadRequest},
		{"unknown session", "missing", `{"size":"L"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.patch(t, tt.id, tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	s, err := ts.manager.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "#0b0b0b", s.State().GarmentColor)
}

func TestPointerDragMovesText(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createSession(t)
	require.Equal(t, http.StatusOK, ts.patch(t, created.ID, `{"text":"Meetzzz"}`).Code)

	pointer := func(body string) models.PointerEventResponse {
		rec := ts.do(t, http.MethodPost, "/customizer/sessions/"+created.ID+"/pointer", []byte(body), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.PointerEventResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	assert.Equal(t, "dragging-text", pointer(`{"type":"down","x":10,"y":10}`).DragState)

	// front-center on a 200 canvas: body 40,30 120x140; zone 70,69.2 60x30.8
	moved := pointer(`{"type":"move","x":105,"y":84.6,"displayWidth":400,"displayHeight":400}`)
	assert.True(t, moved.Changed)
	assert.InDelta(t, 0.05, moved.LayerPosition.TextX, 1e-9)

	assert.Equal(t, "idle", pointer(`{"type":"up"}`).DragState)

	rec := ts.do(t, http.MethodPost, "/customizer/sessions/"+created.ID+"/pointer", []byte(`{"type":"wheel"}`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadArtwork(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createSession(t)

	var art bytes.Buffer
	require.NoError(t, png.Encode(&art, solidImage(24, 24)))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("artwork", "logo.png")
	require.NoError(t, err)
	_, err = fw.Write(art.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	rec := ts.do(t, http.MethodPost, "/customizer/sessions/"+created.ID+"/artwork", body.Bytes(),
		http.Header{"Content-Type": {mw.FormDataContentType()}})
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp models.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(1), resp.UploadSeq)
	assert.Equal(t, "logo.png", resp.FileName)

	s, err := ts.manager.Get(created.ID)
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return s.View().HasArtwork }, 5*time.Second, 10*time.Millisecond)
}

func TestUploadArtworkRequiresFile(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createSession(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("note", "no file"))
	require.NoError(t, mw.Close())

	rec := ts.do(t, http.MethodPost, "/customizer/sessions/"+created.ID+"/artwork", body.Bytes(),
		http.Header{"Content-Type": {mw.FormDataContentType()}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportDownloadsCurrentFrame(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createSession(t)
	s, err := ts.manager.Get(created.ID)
	require.NoError(t, err)
	frames := s.Frames()

	rec := ts.do(t, http.MethodGet, "/customizer/sessions/"+created.ID+"/export", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="meetzzz-hoodie-preview.png"`, rec.Header().Get("Content-Disposition"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, testCanvas, img.Bounds().Dx())
	assert.Equal(t, testCanvas, img.Bounds().Dy())

	// exporting does not composite a new frame
	assert.Equal(t, frames, s.Frames())
}

func TestPreviewIsInline(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createSession(t)

	rec := ts.do(t, http.MethodGet, "/customizer/sessions/"+created.ID+"/preview.png", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
}

func TestResetAndSummary(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createSession(t)
	require.Equal(t, http.StatusOK, ts.patch(t, created.ID, `{"garmentColor":"#00a6ff","placementZone":"sleeve-left"}`).Code)

	rec := ts.do(t, http.MethodGet, "/customizer/sessions/"+created.ID+"/summary", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"colorName":"Electric Blue","size":"M","placementLabel":"Left Sleeve"}`, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/customizer/sessions/"+created.ID+"/reset", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/customizer/sessions/"+created.ID+"/summary", nil, nil)
	assert.JSONEq(t, `{"colorName":"Jet Black","size":"M","placementLabel":"Front Center"}`, rec.Body.String())
}

func TestPageAndSnapshot(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createSession(t)

	rec := ts.do(t, http.MethodGet, "/customizer/sessions/"+created.ID+"/page", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rec.Body.String(), `id="preview"`)

	rec = ts.do(t, http.MethodGet, "/customizer/sessions/"+created.ID+"/snapshot.png", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{created.ID}, ts.snapshots.captured)
}

func TestDeleteSession(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createSession(t)

	rec := ts.do(t, http.MethodDelete, "/customizer/sessions/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/customizer/sessions/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/customizer/sessions/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownRoutes(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createSession(t)

	rec := ts.do(t, http.MethodGet, "/customizer/sessions/"+created.ID+"/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPut, "/customizer/sessions/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = ts.do(t, http.MethodGet, "/customizer/sessions/"+created.ID+"/options", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
