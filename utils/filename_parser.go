package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"meetzzz-customizer/models"
)

var fontExtRegex = regexp.MustCompile(`(?i)\.(ttf|otf)$`)

// ParseFontFileName turns a font file name into a font option.
// Example: "Bebas-Neue_Bold.ttf" -> {ID: "bebas-neue-bold", Label: "Bebas Neue Bold"}
func ParseFontFileName(filename string) (*models.FontOption, error) {
	base := filepath.Base(filename)
	if !fontExtRegex.MatchString(base) {
		return nil, fmt.Errorf("invalid font file %q: expected .ttf or .otf", filename)
	}
	name := fontExtRegex.ReplaceAllString(base, "")

	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '.'
	})
	if len(words) == 0 {
		return nil, fmt.Errorf("invalid font file %q: empty name", filename)
	}

	return &models.FontOption{
		ID:    strings.ToLower(strings.Join(words, "-")),
		Label: capitalizeWords(strings.Join(words, " ")),
	}, nil
}

// ExportFileName builds the download name of an exported preview
func ExportFileName(brand string) string {
	brand = strings.ToLower(strings.Join(strings.Fields(brand), "-"))
	if brand == "" {
		brand = "custom"
	}
	return brand + "-hoodie-preview.png"
}

// capitalizeWords capitalizes the first letter of each word
func capitalizeWords(s string) string {
	if s == "" {
		return s
	}
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(string(word[0])) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}
