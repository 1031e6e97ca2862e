package models

// OptionsUpdateRequest represents a PATCH of customizer controls.
// Nil fields are left unchanged.
type OptionsUpdateRequest struct {
	GarmentColor  *string  `json:"garmentColor,omitempty"`
	Size          *string  `json:"size,omitempty"`
	PlacementZone *Zone    `json:"placementZone,omitempty"`
	Text          *string  `json:"text,omitempty"`
	TextColor     *string  `json:"textColor,omitempty"`
	FontFamily    *string  `json:"fontFamily,omitempty"`
	TextScale     *float64 `json:"textScale,omitempty"`
	ImageScale    *float64 `json:"imageScale,omitempty"`
}

// Pointer event types accepted by the pointer endpoint
const (
	PointerDown   = "down"
	PointerMove   = "move"
	PointerUp     = "up"
	PointerCancel = "cancel"
)

// PointerEventRequest represents one pointer or touch event on the preview element.
// X/Y are in display pixels relative to the element's top-left corner.
type PointerEventRequest struct {
	Type          string  `json:"type"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	DisplayWidth  float64 `json:"displayWidth"`
	DisplayHeight float64 `json:"displayHeight"`
}

// PointerEventResponse reports the drag state after an event
type PointerEventResponse struct {
	DragState     string        `json:"dragState"`
	Changed       bool          `json:"changed"`
	LayerPosition LayerPosition `json:"layerPosition"`
}

// UploadResponse is returned when an artwork upload is accepted for decoding
type UploadResponse struct {
	Status    string `json:"status"`
	UploadSeq uint64 `json:"uploadSeq"`
	FileName  string `json:"fileName"`
}

// FontFile describes a font stored in a Drive folder
type FontFile struct {
	DriveFileID string `json:"driveFileId"`
	FileName    string `json:"fileName"`
	MimeType    string `json:"mimeType"`
}
