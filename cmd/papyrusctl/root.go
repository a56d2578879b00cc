package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/papyrus/internal/version"
	papyrus "github.com/kailas-cloud/papyrus/pkg/sdk"
)

// app carries the persistent flags every command reads.
type app struct {
	out     io.Writer
	human   bool
	dbPath  string
	catalog string
	verbose bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:   "papyrusctl",
		Short: "Search papers and draft literature reviews from the terminal",
		Long: `papyrusctl runs the papyrus paper directory in-process.

Without --db every invocation starts from the bundled catalog in memory.
With --db the directory, libraries and reviews persist in a SQLite file.
All commands print JSON unless --human is set.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.PersistentFlags().BoolVar(&a.human, "human", false, "Use human-readable output instead of JSON")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite file to persist data in (default: in-memory)")
	root.PersistentFlags().StringVar(&a.catalog, "catalog", "", "YAML catalog to seed from (default: bundled catalog)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log SDK operations to stderr")

	root.AddCommand(
		newSearchCmd(a),
		newPapersCmd(a),
		newLibrariesCmd(a),
		newReviewCmd(a),
		newAssistCmd(a),
	)
	return root
}

// client opens the SDK. Seeding is idempotent, so libraries created in a
// persistent file survive later invocations.
func (a *app) client(ctx context.Context) (*papyrus.Client, error) {
	var opts []papyrus.Option
	if a.dbPath != "" {
		opts = append(opts, papyrus.WithSQLite(a.dbPath))
	}
	if a.catalog != "" {
		opts = append(opts, papyrus.WithCatalog(a.catalog))
	}
	if a.verbose {
		opts = append(opts, papyrus.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	return papyrus.New(ctx, opts...) //nolint:wrapcheck // SDK errors are prefixed
}
