// Package mcptools exposes the paper directory, search and generation services
// as Model Context Protocol tools.
package mcptools

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kailas-cloud/papyrus/internal/version"
	assistuc "github.com/kailas-cloud/papyrus/internal/usecase/assist"
	directoryuc "github.com/kailas-cloud/papyrus/internal/usecase/directory"
	reviewuc "github.com/kailas-cloud/papyrus/internal/usecase/review"
	searchuc "github.com/kailas-cloud/papyrus/internal/usecase/search"
)

// New creates an MCP server with every papyrus tool registered.
func New(
	directory *directoryuc.Service,
	search *searchuc.Service,
	reviews *reviewuc.Service,
	assist *assistuc.Service,
) *mcp.Server {
	t := &Tools{Directory: directory, Search: search, Reviews: reviews, Assist: assist}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "papyrus",
		Version: version.Version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search_papers",
		Description: "Search papers by title substring in English or Farsi, with optional author, journal and year filters and a sort order",
	}, t.SearchPapers)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_paper",
		Description: "Get a paper by id, including its bilingual abstract",
	}, t.GetPaper)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_libraries",
		Description: "List all paper libraries in creation order",
	}, t.ListLibraries)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_library_papers",
		Description: "List the papers of a library, skipping ids that no longer resolve",
	}, t.GetLibraryPapers)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_library",
		Description: "Create an empty library with the given name",
	}, t.CreateLibrary)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "rename_library",
		Description: "Change the display name of a library",
	}, t.RenameLibrary)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_paper_to_library",
		Description: "Add a paper id to a library (no-op if already present)",
	}, t.AddPaperToLibrary)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "generate_literature_review",
		Description: "Generate a literature review from a set of paper ids and an optional focus prompt",
	}, t.GenerateLiteratureReview)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "generate_prompt_review",
		Description: "Generate a literature review from a topic prompt and optional free-form references",
	}, t.GeneratePromptReview)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_review",
		Description: "Get a previously generated literature review by id",
	}, t.GetReview)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "assist_text",
		Description: "Rewrite a text selection: paraphrase, cite, expand or shorten",
	}, t.AssistText)

	return srv
}

// Handler serves srv over the streamable HTTP transport.
func Handler(srv *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return srv }, nil)
}
