package controller

import (
	"net/http"

	"meetzzz-customizer/models"
)

// OptionsController serves the option tables the page builds its controls from
type OptionsController struct {
	tables *models.OptionTables
}

// NewOptionsController creates a new OptionsController
func NewOptionsController(tables *models.OptionTables) *OptionsController {
	return &OptionsController{tables: tables}
}

// GetOptions handles GET /customizer/options
func (c *OptionsController) GetOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeNegotiated(w, r, http.StatusOK, c.tables)
}
