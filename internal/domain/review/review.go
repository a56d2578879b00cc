package review

import (
	"fmt"
	"slices"
	"time"

	"github.com/kailas-cloud/papyrus/internal/domain"
)

// Kind distinguishes how a review was generated.
type Kind string

const (
	// FromPapers is a review synthesized from a set of papers and a prompt.
	FromPapers Kind = "papers"
	// FromPrompt is a review synthesized from a prompt alone.
	FromPrompt Kind = "prompt"
)

// IsValid checks if the kind is supported.
func (k Kind) IsValid() bool { return k == FromPapers || k == FromPrompt }

// promptTitleRunes is how much of the prompt goes into a prompt-based title.
const promptTitleRunes = 30

// LiteratureReview is a generated review. Only the content may change after creation.
type LiteratureReview struct {
	id        string
	kind      Kind
	title     string
	content   string
	createdAt time.Time
	language  domain.Language
	paperIDs  []string
}

// NewID derives a review identifier from the creation time.
func NewID(kind Kind, at time.Time) string {
	if kind == FromPrompt {
		return fmt.Sprintf("review-prompt-%d", at.UnixNano())
	}
	return fmt.Sprintf("review-%d", at.UnixNano())
}

// New creates a review. paperIDs may be empty.
func New(
	kind Kind, title, content string, lang domain.Language,
	paperIDs []string, createdAt time.Time,
) LiteratureReview {
	return Reconstruct(NewID(kind, createdAt), kind, title, content, lang, paperIDs, createdAt)
}

// Reconstruct creates a review without validation (storage hydration).
func Reconstruct(
	id string, kind Kind, title, content string, lang domain.Language,
	paperIDs []string, createdAt time.Time,
) LiteratureReview {
	ids := slices.Clone(paperIDs)
	if ids == nil {
		ids = []string{}
	}
	return LiteratureReview{
		id:        id,
		kind:      kind,
		title:     title,
		content:   content,
		createdAt: createdAt,
		language:  lang,
		paperIDs:  ids,
	}
}

// ID returns the review identifier.
func (r LiteratureReview) ID() string { return r.id }

// Kind returns how the review was generated.
func (r LiteratureReview) Kind() Kind { return r.kind }

// Title returns the review title.
func (r LiteratureReview) Title() string { return r.title }

// Content returns the generated (possibly user-edited) content.
func (r LiteratureReview) Content() string { return r.content }

// CreatedAt returns the creation time.
func (r LiteratureReview) CreatedAt() time.Time { return r.createdAt }

// Language returns the source language.
func (r LiteratureReview) Language() domain.Language { return r.language }

// PaperIDs returns a copy of the contributing paper ids.
func (r LiteratureReview) PaperIDs() []string { return slices.Clone(r.paperIDs) }

// WithContent returns a copy with edited content. No history is kept.
func (r LiteratureReview) WithContent(content string) LiteratureReview {
	next := r
	next.content = content
	next.paperIDs = slices.Clone(r.paperIDs)
	return next
}

// PapersTitle is the title of a paper-based review.
func PapersTitle(lang domain.Language) string {
	if lang == domain.Farsi {
		return "مرور ادبیات"
	}
	return "Literature Review"
}

// PromptTitle is the title of a prompt-based review: the first 30 runes of the
// prompt followed by an ellipsis.
func PromptTitle(lang domain.Language, prompt string) string {
	head := []rune(prompt)
	if len(head) > promptTitleRunes {
		head = head[:promptTitleRunes]
	}
	return fmt.Sprintf("%s: %s...", PapersTitle(lang), string(head))
}
