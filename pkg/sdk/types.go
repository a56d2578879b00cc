package papyrus

import "time"

// Language is a supported content language.
type Language string

// Language constants.
const (
	English Language = "en"
	Farsi   Language = "fa"
)

// SortOrder is the display ordering of search results.
type SortOrder string

// Sort order constants.
const (
	SortRelevance SortOrder = "relevance"
	SortNewest    SortOrder = "newest"
	SortOldest    SortOrder = "oldest"
)

// ReviewKind tells how a review was produced.
type ReviewKind string

// Review kind constants.
const (
	ReviewFromPapers ReviewKind = "papers"
	ReviewFromPrompt ReviewKind = "prompt"
)

// Text is a bilingual string. Either side may be empty.
type Text struct {
	EN string `json:"en"`
	FA string `json:"fa"`
}

// For returns the side of the text for the given language.
func (t Text) For(l Language) string {
	if l == Farsi {
		return t.FA
	}
	return t.EN
}

// Paper is a directory entry.
type Paper struct {
	ID        string    `json:"id"`
	Title     Text      `json:"title"`
	Authors   []string  `json:"authors"`
	Abstract  Text      `json:"abstract"`
	Year      int       `json:"year"`
	DOI       string    `json:"doi"`
	URL       string    `json:"url"`
	Journal   string    `json:"journal,omitempty"` // empty when unknown
	AISummary Text      `json:"ai_summary"`
	DateAdded time.Time `json:"date_added"`
}

// Library is a named, ordered list of paper ids.
type Library struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PaperIDs  []string  `json:"paper_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// Review is a generated literature review.
type Review struct {
	ID        string     `json:"id"`
	Kind      ReviewKind `json:"kind"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Language  Language   `json:"language"`
	PaperIDs  []string   `json:"paper_ids"`
	CreatedAt time.Time  `json:"created_at"`
}

// SearchResult is one page of search results after filtering and sorting.
type SearchResult struct {
	Papers  []Paper `json:"papers"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	HasMore bool    `json:"has_more"`
}
