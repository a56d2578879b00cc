// Package catalog loads the seed papers and libraries the directory starts with.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/papyrus/internal/domain"
	"github.com/kailas-cloud/papyrus/internal/domain/library"
	"github.com/kailas-cloud/papyrus/internal/domain/paper"
)

//go:embed default.yaml
var defaultCatalog []byte

// Catalog is a validated set of seed records.
type Catalog struct {
	Papers    []paper.Paper
	Libraries []library.Library
}

type fileCatalog struct {
	Papers    []paperEntry   `yaml:"papers"`
	Libraries []libraryEntry `yaml:"libraries"`
}

type paperEntry struct {
	ID        string      `yaml:"id"`
	Title     domain.Text `yaml:"title"`
	Authors   []string    `yaml:"authors"`
	Abstract  domain.Text `yaml:"abstract"`
	Year      int         `yaml:"year"`
	DOI       string      `yaml:"doi"`
	URL       string      `yaml:"url"`
	Journal   string      `yaml:"journal"`
	AISummary domain.Text `yaml:"ai_summary"`
	DateAdded time.Time   `yaml:"date_added"`
}

type libraryEntry struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	PaperIDs  []string  `yaml:"paper_ids"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Default returns the embedded catalog.
func Default() (Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file. An empty path yields the embedded catalog.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog. Paper ids must be unique; libraries
// may reference ids the catalog does not contain.
func Parse(data []byte) (Catalog, error) {
	var f fileCatalog
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}

	out := Catalog{
		Papers:    make([]paper.Paper, 0, len(f.Papers)),
		Libraries: make([]library.Library, 0, len(f.Libraries)),
	}

	seen := make(map[string]struct{}, len(f.Papers))
	for i, e := range f.Papers {
		p, err := paper.New(paper.Params{
			ID:        e.ID,
			Title:     e.Title,
			Authors:   e.Authors,
			Abstract:  e.Abstract,
			Year:      e.Year,
			DOI:       e.DOI,
			URL:       e.URL,
			Journal:   e.Journal,
			AISummary: e.AISummary,
			DateAdded: e.DateAdded,
		})
		if err != nil {
			return Catalog{}, fmt.Errorf("papers[%d]: %w", i, err)
		}
		if _, dup := seen[p.ID()]; dup {
			return Catalog{}, fmt.Errorf("papers[%d]: duplicate id %q", i, p.ID())
		}
		seen[p.ID()] = struct{}{}
		out.Papers = append(out.Papers, p)
	}

	libSeen := make(map[string]struct{}, len(f.Libraries))
	for i, e := range f.Libraries {
		if e.ID == "" {
			return Catalog{}, fmt.Errorf("libraries[%d]: id is required", i)
		}
		if _, dup := libSeen[e.ID]; dup {
			return Catalog{}, fmt.Errorf("libraries[%d]: duplicate id %q", i, e.ID)
		}
		libSeen[e.ID] = struct{}{}
		out.Libraries = append(out.Libraries, library.Reconstruct(e.ID, e.Name, e.PaperIDs, e.CreatedAt))
	}

	return out, nil
}
