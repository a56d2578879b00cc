package papyrus

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/papyrus/internal/domain/search/filter"
	"github.com/kailas-cloud/papyrus/internal/domain/search/order"
	searchuc "github.com/kailas-cloud/papyrus/internal/usecase/search"
)

// SearchBuilder is a fluent builder for paper searches.
//
// Filters follow the directory rules: author and journal match
// case-insensitively by substring, a year range applies only when both bounds
// parse as integers, and an exact year composes with the range.
type SearchBuilder struct {
	svc *PaperService

	query string
	lang  Language
	page  int

	updates []filter.Update
	sort    SortOrder
	year    *int
}

// Language selects which title side the query matches. Default: English.
func (b *SearchBuilder) Language(l Language) *SearchBuilder {
	b.lang = l
	return b
}

// Page sets the requested page. It is echoed back on the result.
func (b *SearchBuilder) Page(n int) *SearchBuilder {
	b.page = n
	return b
}

// Author keeps papers with an author containing text.
func (b *SearchBuilder) Author(text string) *SearchBuilder {
	b.updates = append(b.updates, filter.SetAuthor{Value: text})
	return b
}

// Journal keeps papers whose journal contains text. Papers without a journal are dropped.
func (b *SearchBuilder) Journal(text string) *SearchBuilder {
	b.updates = append(b.updates, filter.SetJournal{Value: text})
	return b
}

// Years sets the raw year range bounds.
func (b *SearchBuilder) Years(start, end string) *SearchBuilder {
	b.updates = append(b.updates, filter.SetYearStart{Value: start}, filter.SetYearEnd{Value: end})
	return b
}

// Year keeps only papers published in year.
func (b *SearchBuilder) Year(year int) *SearchBuilder {
	b.year = &year
	return b
}

// HasFullText records the full-text flag. It does not narrow results.
func (b *SearchBuilder) HasFullText(v bool) *SearchBuilder {
	b.updates = append(b.updates, filter.SetHasFullText{Value: v})
	return b
}

// Sort sets the result order.
func (b *SearchBuilder) Sort(o SortOrder) *SearchBuilder {
	b.sort = o
	return b
}

// Newest sorts by publication year, descending.
func (b *SearchBuilder) Newest() *SearchBuilder { return b.Sort(SortNewest) }

// Oldest sorts by publication year, ascending.
func (b *SearchBuilder) Oldest() *SearchBuilder { return b.Sort(SortOldest) }

// Do runs the search.
func (b *SearchBuilder) Do(ctx context.Context) (_ SearchResult, err error) {
	start := time.Now()
	defer func() { b.svc.obs.observe(opPaperSearch, start, err) }()

	q, err := b.build()
	if err != nil {
		return SearchResult{}, err
	}
	res, err := b.svc.search.Search(ctx, q)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search papers: %w", err)
	}
	return searchResultFromDomain(res), nil
}

func (b *SearchBuilder) build() (searchuc.Query, error) {
	lang, err := languageToDomain(b.lang)
	if err != nil {
		return searchuc.Query{}, err
	}
	ord, err := order.Parse(string(b.sort))
	if err != nil {
		return searchuc.Query{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	opts := filter.Reduce(filter.Options{}, b.updates...)
	if err := opts.Validate(); err != nil {
		return searchuc.Query{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	year := filter.AllYears()
	if b.year != nil {
		year = filter.ExactYear(*b.year)
	}
	return searchuc.Query{
		Text:     b.query,
		Language: lang,
		Page:     b.page,
		Filters:  opts,
		Order:    ord,
		Year:     year,
	}, nil
}

// String renders the query for logs.
func (b *SearchBuilder) String() string {
	s := fmt.Sprintf("q=%q lang=%s page=%d sort=%s", b.query, b.lang, b.page, b.sort)
	if b.year != nil {
		s += " year=" + strconv.Itoa(*b.year)
	}
	return s
}
