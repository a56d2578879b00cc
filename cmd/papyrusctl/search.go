package main

import (
	"strings"

	"github.com/spf13/cobra"

	papyrus "github.com/kailas-cloud/papyrus/pkg/sdk"
)

type searchFlags struct {
	lang      string
	author    string
	journal   string
	yearStart string
	yearEnd   string
	year      int
	sort      string
	page      int
}

func newSearchCmd(a *app) *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search paper titles",
		Long: `Search paper titles by case-insensitive substring, then filter and sort.

Examples:
  papyrusctl search quantum
  papyrusctl search "an" --sort newest --journal nature
  papyrusctl search کوانتومی --lang fa --from 2020 --to 2024`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd, args[0], f)
		},
	}
	cmd.Flags().StringVar(&f.lang, "lang", "en", "Title language to match: en or fa")
	cmd.Flags().StringVar(&f.author, "author", "", "Keep papers with an author containing this text")
	cmd.Flags().StringVar(&f.journal, "journal", "", "Keep papers whose journal contains this text")
	cmd.Flags().StringVar(&f.yearStart, "from", "", "Lower year bound (needs --to)")
	cmd.Flags().StringVar(&f.yearEnd, "to", "", "Upper year bound (needs --from)")
	cmd.Flags().IntVar(&f.year, "year", 0, "Exact publication year (0 = all)")
	cmd.Flags().StringVar(&f.sort, "sort", "relevance", "Sort order: relevance, newest, oldest")
	cmd.Flags().IntVar(&f.page, "page", 1, "Page number")
	return cmd
}

func (a *app) runSearch(cmd *cobra.Command, query string, f searchFlags) error {
	ctx := cmd.Context()
	c, err := a.client(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	lang := papyrus.Language(strings.ToLower(f.lang))
	b := c.Papers().Search(query).
		Language(lang).
		Page(f.page).
		Author(f.author).
		Journal(f.journal).
		Years(f.yearStart, f.yearEnd).
		Sort(papyrus.SortOrder(f.sort))
	if f.year != 0 {
		b = b.Year(f.year)
	}

	res, err := b.Do(ctx)
	if err != nil {
		return err //nolint:wrapcheck // SDK errors carry context
	}
	if !a.human {
		return a.printJSON(res)
	}
	a.printf("%d papers (page %d):\n\n", res.Total, res.Page)
	return a.printPapers(res.Papers, lang)
}
