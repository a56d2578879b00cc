package main

import (
	"github.com/spf13/cobra"

	papyrus "github.com/kailas-cloud/papyrus/pkg/sdk"
)

func newPapersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "papers",
		Short: "List or show papers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			papers, err := c.Papers().List(cmd.Context())
			if err != nil {
				return err //nolint:wrapcheck // SDK errors carry context
			}
			return a.printPapers(papers, papyrus.English)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a paper with both language sides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			p, err := c.Papers().Get(cmd.Context(), args[0])
			if err != nil {
				return err //nolint:wrapcheck // SDK errors carry context
			}
			if !a.human {
				return a.printJSON(p)
			}
			a.printf("%s\n%s\n\n%d  %s\n\n%s\n", p.Title.EN, p.Title.FA, p.Year, p.Journal, p.Abstract.EN)
			return nil
		},
	})
	return cmd
}
