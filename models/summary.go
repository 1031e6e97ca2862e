package models

// Summary is the read-only tuple the checkout order summary displays
type Summary struct {
	ColorName      string `json:"colorName" msgpack:"colorName"`
	Size           string `json:"size" msgpack:"size"`
	PlacementLabel string `json:"placementLabel" msgpack:"placementLabel"`
}

// SessionView is the response body for session reads
type SessionView struct {
	ID         string      `json:"id" msgpack:"id"`
	State      DesignState `json:"state" msgpack:"state"`
	HasArtwork bool        `json:"hasArtwork" msgpack:"hasArtwork"`
	UploadSeq  uint64      `json:"uploadSeq" msgpack:"uploadSeq"`
	DragState  string      `json:"dragState" msgpack:"dragState"`
	Summary    Summary     `json:"summary" msgpack:"summary"`
}
