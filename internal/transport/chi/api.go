package chi

import (
	"time"

	"github.com/kailas-cloud/papyrus/internal/domain"
	domlib "github.com/kailas-cloud/papyrus/internal/domain/library"
	dompaper "github.com/kailas-cloud/papyrus/internal/domain/paper"
	domreview "github.com/kailas-cloud/papyrus/internal/domain/review"
	"github.com/kailas-cloud/papyrus/internal/domain/search/result"
)

// ErrorCode is a stable machine-readable error code.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeValidationFailed   ErrorCode = "validation_failed"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeForbidden          ErrorCode = "forbidden"
	ErrorCodePaperNotFound      ErrorCode = "paper_not_found"
	ErrorCodeLibraryNotFound    ErrorCode = "library_not_found"
	ErrorCodeReviewNotFound     ErrorCode = "review_not_found"
	ErrorCodeNotFound           ErrorCode = "not_found"
	ErrorCodeRateLimited        ErrorCode = "rate_limited"
	ErrorCodeGenerationFailed   ErrorCode = "generation_failed"
	ErrorCodeGenerationTimeout  ErrorCode = "generation_timeout"
	ErrorCodeServiceUnavailable ErrorCode = "service_unavailable"
	ErrorCodeNotImplemented     ErrorCode = "not_implemented"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the error body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// TextResponse is a bilingual text value.
type TextResponse struct {
	EN string `json:"en"`
	FA string `json:"fa"`
}

// PaperResponse is the wire form of a paper.
type PaperResponse struct {
	ID        string        `json:"id"`
	Title     TextResponse  `json:"title"`
	Authors   []string      `json:"authors"`
	Abstract  TextResponse  `json:"abstract"`
	Year      int           `json:"year"`
	DOI       string        `json:"doi,omitempty"`
	URL       string        `json:"url,omitempty"`
	Journal   *string       `json:"journal,omitempty"`
	AISummary *TextResponse `json:"ai_summary,omitempty"`
	DateAdded time.Time     `json:"date_added"`
}

// PaperListResponse wraps a list of papers.
type PaperListResponse struct {
	Items []PaperResponse `json:"items"`
	Total int             `json:"total"`
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Papers  []PaperResponse `json:"papers"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	HasMore bool            `json:"has_more"`
}

// LibraryResponse is the wire form of a library.
type LibraryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PaperIDs  []string  `json:"paper_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// LibraryListResponse wraps a list of libraries.
type LibraryListResponse struct {
	Items []LibraryResponse `json:"items"`
	Total int               `json:"total"`
}

// CreateLibraryRequest is the body of POST /libraries.
type CreateLibraryRequest struct {
	Name string `json:"name"`
}

// RenameLibraryRequest is the body of PATCH /libraries/{id}.
type RenameLibraryRequest struct {
	Name string `json:"name"`
}

// AddPaperRequest is the body of POST /libraries/{id}/papers.
type AddPaperRequest struct {
	PaperID string `json:"paper_id"`
}

// ReviewResponse is the wire form of a literature review.
type ReviewResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	PaperIDs  []string  `json:"paper_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewListResponse wraps a list of reviews.
type ReviewListResponse struct {
	Items []ReviewResponse `json:"items"`
	Total int              `json:"total"`
}

// GenerateReviewRequest is the body of POST /reviews.
type GenerateReviewRequest struct {
	PaperIDs []string `json:"paper_ids"`
	Prompt   string   `json:"prompt"`
	Language string   `json:"language"`
}

// PromptReviewRequest is the body of POST /reviews/prompt.
type PromptReviewRequest struct {
	Prompt     string   `json:"prompt"`
	References []string `json:"references"`
	Language   string   `json:"language"`
}

// UpdateReviewContentRequest is the body of PUT /reviews/{id}/content.
type UpdateReviewContentRequest struct {
	Content *string `json:"content"`
}

// AssistRequest is the body of POST /assist.
type AssistRequest struct {
	Task     string `json:"task"`
	Text     string `json:"text"`
	Language string `json:"language"`
}

// AssistResponse carries the rewritten text.
type AssistResponse struct {
	Task string `json:"task"`
	Text string `json:"text"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string                         `json:"status"`
	Version string                         `json:"version"`
	Checks  map[string]HealthCheckResponse `json:"checks"`
}

// HealthCheckResponse is one component in HealthResponse.
type HealthCheckResponse struct {
	Status    string  `json:"status"`
	Backend   string  `json:"backend,omitempty"`
	LatencyMS float64 `json:"latency_ms"`
}

func textToAPI(t domain.Text) TextResponse {
	return TextResponse{EN: t.EN, FA: t.FA}
}

func paperToAPI(p dompaper.Paper) PaperResponse {
	resp := PaperResponse{
		ID:        p.ID(),
		Title:     textToAPI(p.Title()),
		Authors:   p.Authors(),
		Abstract:  textToAPI(p.Abstract()),
		Year:      p.Year(),
		DOI:       p.DOI(),
		URL:       p.URL(),
		DateAdded: p.DateAdded().UTC(),
	}
	if resp.Authors == nil {
		resp.Authors = []string{}
	}
	if p.HasJournal() {
		j := p.Journal()
		resp.Journal = &j
	}
	if s := p.AISummary(); !s.IsEmpty() {
		t := textToAPI(s)
		resp.AISummary = &t
	}
	return resp
}

func papersToAPI(papers []dompaper.Paper) []PaperResponse {
	out := make([]PaperResponse, len(papers))
	for i, p := range papers {
		out[i] = paperToAPI(p)
	}
	return out
}

func searchToAPI(r result.Result) SearchResponse {
	return SearchResponse{
		Papers:  papersToAPI(r.Papers()),
		Total:   r.Total(),
		Page:    r.Page(),
		HasMore: r.HasMore(),
	}
}

func libraryToAPI(l domlib.Library) LibraryResponse {
	resp := LibraryResponse{
		ID:        l.ID(),
		Name:      l.Name(),
		PaperIDs:  l.PaperIDs(),
		CreatedAt: l.CreatedAt().UTC(),
	}
	if resp.PaperIDs == nil {
		resp.PaperIDs = []string{}
	}
	return resp
}

func reviewToAPI(r domreview.LiteratureReview) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID(),
		Kind:      string(r.Kind()),
		Title:     r.Title(),
		Content:   r.Content(),
		Language:  string(r.Language()),
		PaperIDs:  r.PaperIDs(),
		CreatedAt: r.CreatedAt().UTC(),
	}
}
