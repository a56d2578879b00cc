package paper

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/papyrus/internal/domain"
)

// MaxIDLength is the maximum paper identifier length.
const MaxIDLength = 128

// Params carries the attributes of a paper for construction and hydration.
type Params struct {
	ID        string
	Title     domain.Text
	Authors   []string
	Abstract  domain.Text
	Year      int
	DOI       string
	URL       string
	Journal   string
	AISummary domain.Text
	DateAdded time.Time
}

// Paper is a research paper (immutable value object).
type Paper struct {
	id        string
	title     domain.Text
	authors   []string
	abstract  domain.Text
	year      int
	doi       string
	url       string
	journal   string
	aiSummary domain.Text
	dateAdded time.Time
}

// New validates and creates a Paper.
// ID: non-empty, max 128 chars. Title: at least one language populated.
func New(p Params) (Paper, error) {
	if strings.TrimSpace(p.ID) == "" {
		return Paper{}, fmt.Errorf("paper id is required")
	}
	if len(p.ID) > MaxIDLength {
		return Paper{}, fmt.Errorf("paper id too long (max %d)", MaxIDLength)
	}
	if p.Title.IsEmpty() {
		return Paper{}, fmt.Errorf("paper %q: title needs at least one language", p.ID)
	}
	if p.Year < 0 {
		return Paper{}, fmt.Errorf("paper %q: year must not be negative", p.ID)
	}
	return Reconstruct(p), nil
}

// Reconstruct creates a Paper without validation (storage hydration).
func Reconstruct(p Params) Paper {
	authors := make([]string, len(p.Authors))
	copy(authors, p.Authors)
	return Paper{
		id:        p.ID,
		title:     p.Title,
		authors:   authors,
		abstract:  p.Abstract,
		year:      p.Year,
		doi:       p.DOI,
		url:       p.URL,
		journal:   p.Journal,
		aiSummary: p.AISummary,
		dateAdded: p.DateAdded,
	}
}

// ID returns the paper identifier.
func (p Paper) ID() string { return p.id }

// Title returns the bilingual title.
func (p Paper) Title() domain.Text { return p.title }

// Authors returns a copy of the ordered author list.
func (p Paper) Authors() []string {
	out := make([]string, len(p.authors))
	copy(out, p.authors)
	return out
}

// Abstract returns the bilingual abstract.
func (p Paper) Abstract() domain.Text { return p.abstract }

// Year returns the publication year.
func (p Paper) Year() int { return p.year }

// DOI returns the DOI, empty if unknown.
func (p Paper) DOI() string { return p.doi }

// URL returns the landing page URL, empty if unknown.
func (p Paper) URL() string { return p.url }

// Journal returns the journal name, empty if unknown.
func (p Paper) Journal() string { return p.journal }

// HasJournal reports whether a journal is recorded.
func (p Paper) HasJournal() bool { return p.journal != "" }

// AISummary returns the bilingual AI summary (may be empty).
func (p Paper) AISummary() domain.Text { return p.aiSummary }

// DateAdded returns when the paper entered the catalog (zero if unknown).
func (p Paper) DateAdded() time.Time { return p.dateAdded }

// Params returns the paper attributes, for serialization.
func (p Paper) Params() Params {
	return Params{
		ID:        p.id,
		Title:     p.title,
		Authors:   p.Authors(),
		Abstract:  p.abstract,
		Year:      p.year,
		DOI:       p.doi,
		URL:       p.url,
		Journal:   p.journal,
		AISummary: p.aiSummary,
		DateAdded: p.dateAdded,
	}
}

// TitleContains reports whether the title side for lang contains query,
// case-insensitively.
func (p Paper) TitleContains(lang domain.Language, query string) bool {
	return strings.Contains(strings.ToLower(p.title.For(lang)), strings.ToLower(query))
}

// HasAuthorContaining reports whether any author name contains text,
// case-insensitively.
func (p Paper) HasAuthorContaining(text string) bool {
	needle := strings.ToLower(text)
	for _, a := range p.authors {
		if strings.Contains(strings.ToLower(a), needle) {
			return true
		}
	}
	return false
}
