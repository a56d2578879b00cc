package main

import (
	"github.com/spf13/cobra"

	papyrus "github.com/kailas-cloud/papyrus/pkg/sdk"
)

func newLibrariesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "libraries",
		Aliases: []string{"libs"},
		Short:   "List and manage paper libraries",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			libs, err := c.Libraries().List(cmd.Context())
			if err != nil {
				return err //nolint:wrapcheck // SDK errors carry context
			}
			if !a.human {
				if libs == nil {
					libs = []papyrus.Library{}
				}
				return a.printJSON(libs)
			}
			for _, l := range libs {
				a.printf("  %-36s %-24s %d papers\n", l.ID, l.Name, len(l.PaperIDs))
			}
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create an empty library",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.client(cmd.Context())
				if err != nil {
					return err
				}
				defer c.Close()

				l, err := c.Libraries().Create(cmd.Context(), args[0])
				if err != nil {
					return err //nolint:wrapcheck // SDK errors carry context
				}
				if !a.human {
					return a.printJSON(l)
				}
				a.printf("Created library %s (%s)\n", l.Name, l.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename <library-id> <name>",
			Short: "Change a library's display name",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.client(cmd.Context())
				if err != nil {
					return err
				}
				defer c.Close()

				l, err := c.Libraries().Rename(cmd.Context(), args[0], args[1])
				if err != nil {
					return err //nolint:wrapcheck // SDK errors carry context
				}
				if !a.human {
					return a.printJSON(l)
				}
				a.printf("Renamed library %s to %s\n", l.ID, l.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <library-id> <paper-id>",
			Short: "Add a paper to a library",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.client(cmd.Context())
				if err != nil {
					return err
				}
				defer c.Close()

				if err := c.Libraries().AddPaper(cmd.Context(), args[0], args[1]); err != nil {
					return err //nolint:wrapcheck // SDK errors carry context
				}
				l, err := c.Libraries().Get(cmd.Context(), args[0])
				if err != nil {
					return err //nolint:wrapcheck // SDK errors carry context
				}
				if !a.human {
					return a.printJSON(l)
				}
				a.printf("Library %s now has %d papers\n", l.Name, len(l.PaperIDs))
				return nil
			},
		},
		&cobra.Command{
			Use:   "papers <library-id>",
			Short: "List the papers of a library",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.client(cmd.Context())
				if err != nil {
					return err
				}
				defer c.Close()

				papers, err := c.Libraries().Papers(cmd.Context(), args[0])
				if err != nil {
					return err //nolint:wrapcheck // SDK errors carry context
				}
				return a.printPapers(papers, papyrus.English)
			},
		},
	)
	return cmd
}
