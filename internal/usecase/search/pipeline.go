package search

import (
	"cmp"
	"slices"
	"strings"

	dompaper "github.com/kailas-cloud/papyrus/internal/domain/paper"
	"github.com/kailas-cloud/papyrus/internal/domain/search/filter"
	"github.com/kailas-cloud/papyrus/internal/domain/search/order"
)

// Derive narrows candidates by opts and year, then orders them. Stages run in a
// fixed order: author, journal, year range, exact year, sort. Every narrowing stage
// is monotonic. candidates is never modified.
//
// opts.HasFullText is accepted but not applied: papers carry no full-text attribute.
func Derive(candidates []dompaper.Paper, opts filter.Options, ord order.Order, year filter.YearSelector) []dompaper.Paper {
	if len(candidates) == 0 {
		return []dompaper.Paper{}
	}

	out := slices.Clone(candidates)
	if opts.IsEmpty() && year.IsAll() && ord == order.Relevance {
		return out
	}

	if opts.Author != "" {
		out = keep(out, func(p dompaper.Paper) bool { return p.HasAuthorContaining(opts.Author) })
	}

	if opts.Journal != "" {
		needle := strings.ToLower(opts.Journal)
		out = keep(out, func(p dompaper.Paper) bool {
			return p.HasJournal() && strings.Contains(strings.ToLower(p.Journal()), needle)
		})
	}

	if start, end, ok := opts.YearRange.Bounds(); ok {
		out = keep(out, func(p dompaper.Paper) bool { return p.Year() >= start && p.Year() <= end })
	}

	if y, ok := year.Year(); ok {
		out = keep(out, func(p dompaper.Paper) bool { return p.Year() == y })
	}

	switch ord {
	case order.Newest:
		slices.SortStableFunc(out, func(a, b dompaper.Paper) int { return cmp.Compare(b.Year(), a.Year()) })
	case order.Oldest:
		slices.SortStableFunc(out, func(a, b dompaper.Paper) int { return cmp.Compare(a.Year(), b.Year()) })
	}

	return out
}

// keep filters papers in place; callers pass a slice they own.
func keep(papers []dompaper.Paper, pred func(dompaper.Paper) bool) []dompaper.Paper {
	out := papers[:0]
	for _, p := range papers {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}
