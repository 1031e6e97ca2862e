package service

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"meetzzz-customizer/models"
	"meetzzz-customizer/session"
)

//go:embed templates/customizer.html
var templateFS embed.FS

// PageService renders the page that mounts a session's preview and controls
type PageService struct {
	tmpl  *template.Template
	brand string
}

// NewPageService parses the customizer page template
func NewPageService(brand string) (*PageService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/customizer.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &PageService{tmpl: tmpl, brand: brand}, nil
}

// RenderPage renders the mount page for s
func (p *PageService) RenderPage(s *session.Session, tables *models.OptionTables) ([]byte, error) {
	sessionURL := "/customizer/sessions/" + s.ID

	templateData := struct {
		Brand        string
		SessionID    string
		SessionURL   string
		PreviewURL   string
		ExportURL    string
		MaxTextRunes int
		Tables       *models.OptionTables
		State        models.DesignState
		Summary      models.Summary
	}{
		Brand:        p.brand,
		SessionID:    s.ID,
		SessionURL:   sessionURL,
		PreviewURL:   sessionURL + "/preview.png",
		ExportURL:    sessionURL + "/export",
		MaxTextRunes: models.MaxTextRunes,
		Tables:       tables,
		State:        s.State(),
		Summary:      s.Summary(),
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, templateData); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}
