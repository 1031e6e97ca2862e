package render

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// FontRegistry maps font family IDs to loaded font sources.
// Sources are heavyweight and shared by every surface; faces are created per draw.
type FontRegistry struct {
	mu      sync.RWMutex
	sources map[string]*text.FontSource
}

// NewFontRegistry creates an empty registry
func NewFontRegistry() *FontRegistry {
	return &FontRegistry{sources: make(map[string]*text.FontSource)}
}

// NewDefaultFontRegistry creates a registry holding the embedded Go font families
// under the IDs used by models.DefaultOptionTables.
func NewDefaultFontRegistry() (*FontRegistry, error) {
	r := NewFontRegistry()
	builtin := []struct {
		id   string
		data []byte
	}{
		{"go-bold", gobold.TTF},
		{"go-regular", goregular.TTF},
		{"go-medium", gomedium.TTF},
		{"go-italic", goitalic.TTF},
		{"go-mono", gomono.TTF},
	}
	for _, f := range builtin {
		if err := r.Register(f.id, f.data); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register parses TTF/OTF data and stores it under id, replacing any previous source
func (r *FontRegistry) Register(id string, data []byte) error {
	source, err := text.NewFontSource(data)
	if err != nil {
		return fmt.Errorf("failed to parse font %q: %w", id, err)
	}

	r.mu.Lock()
	old := r.sources[id]
	r.sources[id] = source
	r.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Has reports whether id is registered
func (r *FontRegistry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sources[id]
	return ok
}

// IDs returns the registered IDs in sorted order
func (r *FontRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sources))
	for id := range r.sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Face returns a face of the given family at size pixels
func (r *FontRegistry) Face(id string, size float64) (text.Face, error) {
	r.mu.RLock()
	source, ok := r.sources[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("font %q is not registered", id)
	}
	return source.Face(size), nil
}

// Close releases every font source
func (r *FontRegistry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, source := range r.sources {
		_ = source.Close()
		delete(r.sources, id)
	}
	return nil
}
