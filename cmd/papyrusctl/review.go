package main

import (
	"strings"

	"github.com/spf13/cobra"

	papyrus "github.com/kailas-cloud/papyrus/pkg/sdk"
)

func newReviewCmd(a *app) *cobra.Command {
	var (
		lang   string
		prompt string
		papers string
		refs   string
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Generate literature reviews",
	}
	cmd.PersistentFlags().StringVar(&lang, "lang", "en", "Review language: en or fa")

	fromPapers := &cobra.Command{
		Use:   "papers",
		Short: "Review a set of papers",
		Long: `Generate a literature review of the given papers.

Examples:
  papyrusctl review papers --ids 1,3
  papyrusctl review papers --ids 2 --prompt "adaptation strategies" --lang fa`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			r, err := c.Reviews().FromPapers(cmd.Context(), splitList(papers), prompt,
				papyrus.Language(strings.ToLower(lang)))
			if err != nil {
				return err //nolint:wrapcheck // SDK errors carry context
			}
			return a.printReview(r)
		},
	}
	fromPapers.Flags().StringVar(&papers, "ids", "", "Comma-separated paper ids")
	fromPapers.Flags().StringVar(&prompt, "prompt", "", "Optional focus for the review")
	_ = fromPapers.MarkFlagRequired("ids")

	fromPrompt := &cobra.Command{
		Use:   "prompt <topic>",
		Short: "Review a topic from a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			r, err := c.Reviews().FromPrompt(cmd.Context(), args[0], splitList(refs),
				papyrus.Language(strings.ToLower(lang)))
			if err != nil {
				return err //nolint:wrapcheck // SDK errors carry context
			}
			return a.printReview(r)
		},
	}
	fromPrompt.Flags().StringVar(&refs, "refs", "", "Comma-separated free-form references")

	cmd.AddCommand(fromPapers, fromPrompt)
	return cmd
}
