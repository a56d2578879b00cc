package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kailas-cloud/papyrus/internal/domain"
	domlib "github.com/kailas-cloud/papyrus/internal/domain/library"
	dompaper "github.com/kailas-cloud/papyrus/internal/domain/paper"
	domreview "github.com/kailas-cloud/papyrus/internal/domain/review"
	"github.com/kailas-cloud/papyrus/internal/domain/search/filter"
	"github.com/kailas-cloud/papyrus/internal/domain/search/order"
	assistuc "github.com/kailas-cloud/papyrus/internal/usecase/assist"
	directoryuc "github.com/kailas-cloud/papyrus/internal/usecase/directory"
	reviewuc "github.com/kailas-cloud/papyrus/internal/usecase/review"
	searchuc "github.com/kailas-cloud/papyrus/internal/usecase/search"
)

// Tools holds the services the tool handlers call.
type Tools struct {
	Directory *directoryuc.Service
	Search    *searchuc.Service
	Reviews   *reviewuc.Service
	Assist    *assistuc.Service
}

// --- Input types ---

type SearchPapersInput struct {
	Query     string `json:"query" jsonschema:"Title substring to match, case-insensitive"`
	Language  string `json:"language,omitempty" jsonschema:"Title side to match: en (default) or fa"`
	Author    string `json:"author,omitempty" jsonschema:"Keep papers with an author containing this text"`
	Journal   string `json:"journal,omitempty" jsonschema:"Keep papers whose journal contains this text"`
	YearStart string `json:"year_start,omitempty" jsonschema:"Lower publication year bound (applied only with year_end)"`
	YearEnd   string `json:"year_end,omitempty" jsonschema:"Upper publication year bound (applied only with year_start)"`
	Year      string `json:"year,omitempty" jsonschema:"Exact publication year, or all"`
	Sort      string `json:"sort,omitempty" jsonschema:"relevance (default), newest or oldest"`
}

type PaperIDInput struct {
	ID string `json:"id" jsonschema:"Paper id"`
}

type ListLibrariesInput struct{}

type LibraryIDInput struct {
	ID string `json:"id" jsonschema:"Library id"`
}

type CreateLibraryInput struct {
	Name string `json:"name" jsonschema:"Library name"`
}

type RenameLibraryInput struct {
	ID   string `json:"id" jsonschema:"Library id"`
	Name string `json:"name" jsonschema:"New library name"`
}

type AddPaperInput struct {
	LibraryID string `json:"library_id" jsonschema:"Library id"`
	PaperID   string `json:"paper_id" jsonschema:"Paper id to add"`
}

type LiteratureReviewInput struct {
	PaperIDs []string `json:"paper_ids" jsonschema:"Ids of the papers to review"`
	Prompt   string   `json:"prompt,omitempty" jsonschema:"Optional focus for the review"`
	Language string   `json:"language,omitempty" jsonschema:"Output language: en (default) or fa"`
}

type PromptReviewInput struct {
	Prompt     string   `json:"prompt" jsonschema:"Review topic"`
	References []string `json:"references,omitempty" jsonschema:"Free-form references to consider"`
	Language   string   `json:"language,omitempty" jsonschema:"Output language: en (default) or fa"`
}

type ReviewIDInput struct {
	ID string `json:"id" jsonschema:"Review id"`
}

type AssistInput struct {
	Task     string `json:"task" jsonschema:"One of paraphrase, cite, expand, shorten"`
	Text     string `json:"text" jsonschema:"Text selection to rewrite"`
	Language string `json:"language,omitempty" jsonschema:"Text language: en (default) or fa"`
}

// --- Output views ---

type paperView struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Year     int      `json:"year"`
	Journal  string   `json:"journal,omitempty"`
	Abstract string   `json:"abstract,omitempty"`
	DOI      string   `json:"doi,omitempty"`
	URL      string   `json:"url,omitempty"`
}

type libraryView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PaperIDs  []string  `json:"paper_ids"`
	CreatedAt time.Time `json:"created_at"`
}

type reviewView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	PaperIDs  []string  `json:"paper_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Handlers ---

func (t *Tools) SearchPapers(ctx context.Context, _ *mcp.CallToolRequest, in SearchPapersInput) (*mcp.CallToolResult, any, error) {
	lang, err := domain.ParseLanguage(in.Language)
	if err != nil {
		return toolError("Invalid language: %v", err), nil, nil
	}
	ord, err := order.Parse(in.Sort)
	if err != nil {
		return toolError("Invalid sort: %v", err), nil, nil
	}
	year, err := filter.ParseYearSelector(in.Year)
	if err != nil {
		return toolError("Invalid year: %v", err), nil, nil
	}

	opts := filter.Reduce(filter.Options{},
		filter.SetAuthor{Value: in.Author},
		filter.SetJournal{Value: in.Journal},
		filter.SetYearStart{Value: in.YearStart},
		filter.SetYearEnd{Value: in.YearEnd},
	)
	if err := opts.Validate(); err != nil {
		return toolError("Invalid filters: %v", err), nil, nil
	}

	res, err := t.Search.Search(ctx, searchuc.Query{
		Text:     in.Query,
		Language: lang,
		Page:     1,
		Filters:  opts,
		Order:    ord,
		Year:     year,
	})
	if err != nil {
		return toolError("Search failed: %v", err), nil, nil
	}
	return toolJSON(papersView(res.Papers(), lang))
}

func (t *Tools) GetPaper(ctx context.Context, _ *mcp.CallToolRequest, in PaperIDInput) (*mcp.CallToolResult, any, error) {
	p, ok, err := t.Directory.GetPaperByID(ctx, in.ID)
	if err != nil {
		return toolError("Failed to get paper: %v", err), nil, nil
	}
	if !ok {
		return toolError("Paper %q not found", in.ID), nil, nil
	}
	return toolJSON(map[string]any{
		"en": paperToView(p, domain.English),
		"fa": paperToView(p, domain.Farsi),
	})
}

func (t *Tools) ListLibraries(ctx context.Context, _ *mcp.CallToolRequest, _ ListLibrariesInput) (*mcp.CallToolResult, any, error) {
	libs, err := t.Directory.GetLibraries(ctx)
	if err != nil {
		return toolError("Failed to list libraries: %v", err), nil, nil
	}
	out := make([]libraryView, len(libs))
	for i, l := range libs {
		out[i] = libraryToView(l)
	}
	return toolJSON(out)
}

func (t *Tools) GetLibraryPapers(ctx context.Context, _ *mcp.CallToolRequest, in LibraryIDInput) (*mcp.CallToolResult, any, error) {
	papers, ok, err := t.Directory.LibraryPapers(ctx, in.ID)
	if err != nil {
		return toolError("Failed to get library papers: %v", err), nil, nil
	}
	if !ok {
		return toolError("Library %q not found", in.ID), nil, nil
	}
	return toolJSON(papersView(papers, domain.English))
}

func (t *Tools) CreateLibrary(ctx context.Context, _ *mcp.CallToolRequest, in CreateLibraryInput) (*mcp.CallToolResult, any, error) {
	if err := domlib.ValidateName(in.Name); err != nil {
		return toolError("Invalid name: %v", err), nil, nil
	}
	l, err := t.Directory.CreateLibrary(ctx, in.Name)
	if err != nil {
		return toolError("Failed to create library: %v", err), nil, nil
	}
	return toolJSON(libraryToView(l))
}

func (t *Tools) RenameLibrary(ctx context.Context, _ *mcp.CallToolRequest, in RenameLibraryInput) (*mcp.CallToolResult, any, error) {
	if err := domlib.ValidateName(in.Name); err != nil {
		return toolError("Invalid name: %v", err), nil, nil
	}
	l, ok, err := t.Directory.RenameLibrary(ctx, in.ID, in.Name)
	if err != nil {
		return toolError("Failed to rename library: %v", err), nil, nil
	}
	if !ok {
		return toolError("Library %q not found", in.ID), nil, nil
	}
	return toolJSON(libraryToView(l))
}

func (t *Tools) AddPaperToLibrary(ctx context.Context, _ *mcp.CallToolRequest, in AddPaperInput) (*mcp.CallToolResult, any, error) {
	if in.PaperID == "" {
		return toolError("paper_id is required"), nil, nil
	}
	ok, err := t.Directory.AddPaperToLibrary(ctx, in.LibraryID, in.PaperID)
	if err != nil {
		return toolError("Failed to add paper: %v", err), nil, nil
	}
	if !ok {
		return toolError("Library %q not found", in.LibraryID), nil, nil
	}
	return toolText("Paper %s is in library %s", in.PaperID, in.LibraryID), nil, nil
}

func (t *Tools) GenerateLiteratureReview(
	ctx context.Context, _ *mcp.CallToolRequest, in LiteratureReviewInput,
) (*mcp.CallToolResult, any, error) {
	if len(in.PaperIDs) == 0 {
		return toolError("paper_ids is required"), nil, nil
	}
	lang, err := domain.ParseLanguage(in.Language)
	if err != nil {
		return toolError("Invalid language: %v", err), nil, nil
	}
	rev, err := t.Reviews.GenerateLiteratureReview(ctx, in.PaperIDs, in.Prompt, lang)
	if err != nil {
		return toolError("Failed to generate review: %v", generationCause(err)), nil, nil
	}
	return toolJSON(reviewToView(rev))
}

func (t *Tools) GeneratePromptReview(
	ctx context.Context, _ *mcp.CallToolRequest, in PromptReviewInput,
) (*mcp.CallToolResult, any, error) {
	if in.Prompt == "" {
		return toolError("prompt is required"), nil, nil
	}
	lang, err := domain.ParseLanguage(in.Language)
	if err != nil {
		return toolError("Invalid language: %v", err), nil, nil
	}
	rev, err := t.Reviews.GeneratePromptBasedReview(ctx, in.Prompt, in.References, lang)
	if err != nil {
		return toolError("Failed to generate review: %v", generationCause(err)), nil, nil
	}
	return toolJSON(reviewToView(rev))
}

func (t *Tools) GetReview(ctx context.Context, _ *mcp.CallToolRequest, in ReviewIDInput) (*mcp.CallToolResult, any, error) {
	rev, ok, err := t.Reviews.GetReview(ctx, in.ID)
	if err != nil {
		return toolError("Failed to get review: %v", err), nil, nil
	}
	if !ok {
		return toolError("Review %q not found", in.ID), nil, nil
	}
	return toolJSON(reviewToView(rev))
}

func (t *Tools) AssistText(ctx context.Context, _ *mcp.CallToolRequest, in AssistInput) (*mcp.CallToolResult, any, error) {
	lang, err := domain.ParseLanguage(in.Language)
	if err != nil {
		return toolError("Invalid language: %v", err), nil, nil
	}
	text, err := t.Assist.Run(ctx, domain.Task(in.Task), in.Text, lang)
	if err != nil {
		return toolError("Failed to %s text: %v", in.Task, generationCause(err)), nil, nil
	}
	return toolText("%s", text), nil, nil
}

// --- Helpers ---

// generationCause reduces a generation error to its sentinel so provider
// internals are not echoed to the agent.
func generationCause(err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return err
	}
	for _, s := range []error{
		domain.ErrRateLimited, domain.ErrGenerationTimeout, domain.ErrGenerationFailed, domain.ErrUnavailable,
	} {
		if errors.Is(err, s) {
			return s
		}
	}
	return err
}

func paperToView(p dompaper.Paper, lang domain.Language) paperView {
	return paperView{
		ID:       p.ID(),
		Title:    p.Title().For(lang),
		Authors:  p.Authors(),
		Year:     p.Year(),
		Journal:  p.Journal(),
		Abstract: p.Abstract().For(lang),
		DOI:      p.DOI(),
		URL:      p.URL(),
	}
}

func papersView(papers []dompaper.Paper, lang domain.Language) []paperView {
	out := make([]paperView, len(papers))
	for i, p := range papers {
		out[i] = paperToView(p, lang)
	}
	return out
}

func libraryToView(l domlib.Library) libraryView {
	return libraryView{ID: l.ID(), Name: l.Name(), PaperIDs: l.PaperIDs(), CreatedAt: l.CreatedAt().UTC()}
}

func reviewToView(r domreview.LiteratureReview) reviewView {
	return reviewView{
		ID:        r.ID(),
		Title:     r.Title(),
		Content:   r.Content(),
		Language:  string(r.Language()),
		PaperIDs:  r.PaperIDs(),
		CreatedAt: r.CreatedAt().UTC(),
	}
}

func toolText(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
