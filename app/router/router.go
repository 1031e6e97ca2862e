package router

import (
	"net/http"
	"strings"

	"meetzzz-customizer/app/controller"
)

type Controllers struct {
	Options    *controller.OptionsController
	Customizer *controller.CustomizerController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes registers every route on the default mux
func SetupRoutes(controllers *Controllers) {
	RegisterRoutes(http.DefaultServeMux, controllers)
}

// RegisterRoutes registers every route on mux
func RegisterRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Option tables for the page's swatches, selects and font list
	mux.HandleFunc("/customizer/options", controllers.Options.GetOptions)

	// Create session
	mux.HandleFunc("/customizer/sessions", controllers.Customizer.CreateSession)

	// Session routes: /customizer/sessions/{id}[/action]
	mux.HandleFunc("/customizer/sessions/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/customizer/sessions/")
		_, action, _ := strings.Cut(path, "/")

		switch action {
		case "":
			// Session by id - handles both GET (state) and DELETE (end session)
			if r.Method == http.MethodGet {
				controllers.Customizer.GetSession(w, r)
			} else if r.Method == http.MethodDelete {
				controllers.Customizer.DeleteSession(w, r)
			} else {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		case "options":
			controllers.Customizer.UpdateOptions(w, r)
		case "artwork":
			controllers.Customizer.UploadArtwork(w, r)
		case "pointer":
			controllers.Customizer.HandlePointer(w, r)
		case "reset":
			controllers.Customizer.ResetSession(w, r)
		case "summary":
			controllers.Customizer.GetSummary(w, r)
		case "preview.png":
			controllers.Customizer.GetPreview(w, r)
		case "export":
			controllers.Customizer.ExportPreview(w, r)
		case "page":
			controllers.Customizer.GetPage(w, r)
		case "snapshot.png":
			controllers.Customizer.GetSnapshot(w, r)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	})
}
