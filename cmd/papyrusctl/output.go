package main

import (
	"encoding/json"
	"fmt"
	"strings"

	papyrus "github.com/kailas-cloud/papyrus/pkg/sdk"
)

// TitleTruncateLen is the title width in human-readable listings.
const TitleTruncateLen = 60

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v) //nolint:wrapcheck // writer errors are final
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) printPapers(papers []papyrus.Paper, lang papyrus.Language) error {
	if !a.human {
		if papers == nil {
			papers = []papyrus.Paper{}
		}
		return a.printJSON(papers)
	}
	if len(papers) == 0 {
		a.printf("No papers found\n")
		return nil
	}
	for _, p := range papers {
		a.printf("  %-4s %d  %s\n", p.ID, p.Year, truncate(p.Title.For(lang), TitleTruncateLen))
	}
	return nil
}

func (a *app) printReview(r papyrus.Review) error {
	if !a.human {
		return a.printJSON(r)
	}
	a.printf("%s  [%s]\n%s\n\n%s\n", r.Title, r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Content)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// splitList parses a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
