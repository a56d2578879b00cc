package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	papyrus "github.com/kailas-cloud/papyrus/pkg/sdk"
)

var assistTasks = []string{"paraphrase", "cite", "expand", "shorten"}

func newAssistCmd(a *app) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:       "assist <task> <text>",
		Short:     "Rewrite a text selection: " + strings.Join(assistTasks, ", "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: assistTasks,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			out, err := c.Assist(cmd.Context(), papyrus.Task(args[0]), args[1],
				papyrus.Language(strings.ToLower(lang)))
			if err != nil {
				return err //nolint:wrapcheck // SDK errors carry context
			}
			if !a.human {
				return a.printJSON(map[string]string{"task": args[0], "text": out})
			}
			fmt.Fprintln(a.out, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "en", "Text language: en or fa")
	return cmd
}
