package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/papyrus/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 1024
	DefaultPage    = 1
)

// Request is a validated directory query.
type Request struct {
	query    string
	language domain.Language
	page     int
}

// New validates and normalizes search parameters.
// The query is matched as given, surrounding spaces included. A blank query is
// allowed and yields no candidates. Defaults: language=en, page=1.
func New(query string, lang domain.Language, page int) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if lang == "" {
		lang = domain.English
	}
	if !lang.IsValid() {
		return Request{}, fmt.Errorf("invalid language: %q", lang)
	}
	if page < 1 {
		page = DefaultPage
	}
	return Request{query: query, language: lang, page: page}, nil
}

// Query returns the query text as submitted.
func (r Request) Query() string { return r.query }

// Language returns the title language searched.
func (r Request) Language() domain.Language { return r.language }

// Page returns the requested page.
func (r Request) Page() int { return r.page }

// IsBlank reports whether the query is empty or whitespace only.
func (r Request) IsBlank() bool { return strings.TrimSpace(r.query) == "" }
