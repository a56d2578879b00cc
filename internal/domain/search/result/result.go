package result

import "github.com/kailas-cloud/papyrus/internal/domain/paper"

// Result is one page of directory search candidates.
type Result struct {
	papers  []paper.Paper
	total   int
	page    int
	hasMore bool
}

// New creates a search result. Total is the number of candidates on the page.
func New(papers []paper.Paper, page int, hasMore bool) Result {
	if papers == nil {
		papers = []paper.Paper{}
	}
	return Result{papers: papers, total: len(papers), page: page, hasMore: hasMore}
}

// Empty creates a result with no candidates for the given page.
func Empty(page int) Result { return New(nil, page, false) }

// Papers returns the candidate papers in directory order.
func (r Result) Papers() []paper.Paper { return r.papers }

// Total returns the candidate count.
func (r Result) Total() int { return r.total }

// Page returns the requested page, echoed back.
func (r Result) Page() int { return r.page }

// HasMore reports whether another page exists.
func (r Result) HasMore() bool { return r.hasMore }

// WithPapers returns a copy carrying a derived paper list; total follows the list.
func (r Result) WithPapers(papers []paper.Paper) Result {
	return New(papers, r.page, r.hasMore)
}
