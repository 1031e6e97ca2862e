package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"meetzzz-customizer/geometry"
	"meetzzz-customizer/models"
	"meetzzz-customizer/session"
)

const msgpackContentType = "application/msgpack"

// writeJSON encodes v as the JSON response body
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

// writeNegotiated encodes v as msgpack when the client asks for it, JSON otherwise
func writeNegotiated(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	if !strings.Contains(r.Header.Get("Accept"), msgpackContentType) {
		writeJSON(w, status, v)
		return
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	// fields without a msgpack tag fall back to their json name
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		log.Printf("❌ Error encoding msgpack response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", msgpackContentType)
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// writeError maps domain errors to status codes
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrUnknownOption), errors.Is(err, geometry.ErrUnknownZone):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("❌ Internal error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// setNoCache disables caching of a response that changes with every edit
func setNoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
}
