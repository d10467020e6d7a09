package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/zenquote/internal/app"
	"github.com/jsamuelsen/zenquote/internal/domain"
)

func newBookmarksCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmarks",
		Aliases: []string{"bm"},
		Short:   "Manage bookmarked quotes",
	}

	cmd.AddCommand(
		newBookmarksListCommand(o),
		newBookmarksAddCommand(o),
		newBookmarksRemoveCommand(o),
		newBookmarksToggleCommand(o),
		newBookmarksExportCommand(o),
	)

	return cmd
}

func newBookmarksListCommand(o *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List bookmarks, most recent first",
		Args:    cobra.NoArgs,
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n bookmarks (0 for all)")

	cmd.RunE = o.withRuntime(false, func(cmd *cobra.Command, _ []string, rt *Runtime) error {
		out := o.printer(cmd, rt)

		items := rt.Bookmarks.All()
		if len(items) == 0 {
			cmd.PrintErrln("No bookmarks yet.")
			return nil
		}

		if limit > 0 && limit < len(items) {
			items = items[:limit]
		}

		for i := range items {
			out.Bookmark(i, &items[i])
		}

		return nil
	})

	return cmd
}

// quoteFlags reads a quote from --text and --author.
type quoteFlags struct {
	text   string
	author string
}

func (f *quoteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.text, "text", "t", "", "quote text")
	cmd.Flags().StringVarP(&f.author, "author", "a", "", "quote author")
	_ = cmd.MarkFlagRequired("text")
	_ = cmd.MarkFlagRequired("author")
}

func (f *quoteFlags) quote() (*domain.Quote, error) {
	return domain.NewQuote(f.text, f.author, time.Now())
}

func newBookmarksAddCommand(o *rootOptions) *cobra.Command {
	f := &quoteFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Bookmark a quote",
		Args:  cobra.NoArgs,
	}
	f.register(cmd)

	cmd.RunE = o.withRuntime(false, func(cmd *cobra.Command, _ []string, rt *Runtime) error {
		q, err := f.quote()
		if err != nil {
			return err
		}

		added, err := rt.Bookmarks.Add(cmd.Context(), q)
		if err != nil {
			warn(cmd, "bookmark not saved: %v", err)
		}

		out := o.printer(cmd, rt)
		if added {
			out.Highlight("Bookmarked %s", q.ID)
		} else {
			out.Line("Already bookmarked.")
		}

		return nil
	})

	return cmd
}

func newBookmarksRemoveCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a bookmark by id",
		Args:    cobra.ExactArgs(1),
	}

	cmd.ValidArgsFunction = o.completeBookmarkIDs

	cmd.RunE = o.withRuntime(false, func(cmd *cobra.Command, args []string, rt *Runtime) error {
		removed, err := rt.Bookmarks.Remove(cmd.Context(), args[0])
		if err != nil {
			warn(cmd, "removal not saved: %v", err)
		}

		out := o.printer(cmd, rt)
		if removed {
			out.Line("Removed %s", args[0])
		} else {
			out.Line("No bookmark with id %s.", args[0])
		}

		return nil
	})

	return cmd
}

func newBookmarksToggleCommand(o *rootOptions) *cobra.Command {
	f := &quoteFlags{}

	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Bookmark a quote, or remove it if its text is already bookmarked",
		Args:  cobra.NoArgs,
	}
	f.register(cmd)

	cmd.RunE = o.withRuntime(false, func(cmd *cobra.Command, _ []string, rt *Runtime) error {
		q, err := f.quote()
		if err != nil {
			return err
		}

		added, err := rt.Bookmarks.Toggle(cmd.Context(), q)
		if err != nil {
			warn(cmd, "change not saved: %v", err)
		}

		out := o.printer(cmd, rt)
		if added {
			out.Highlight("Bookmarked %s", q.ID)
		} else {
			out.Line("Bookmark removed.")
		}

		return nil
	})

	return cmd
}

func newBookmarksExportCommand(o *rootOptions) *cobra.Command {
	format := formatValue(app.FormatJSON)
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all bookmarks as JSON or YAML",
		Args:  cobra.NoArgs,
	}

	cmd.Flags().VarP(&format, "format", "f", "json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")

	cmd.RunE = o.withRuntime(false, func(cmd *cobra.Command, _ []string, rt *Runtime) (err error) {
		var w io.Writer = cmd.OutOrStdout()

		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			defer func() {
				if closeErr := f.Close(); closeErr != nil && err == nil {
					err = fmt.Errorf("closing export file: %w", closeErr)
				}
			}()
			w = f
		}

		return rt.Bookmarks.Export(w, string(format))
	})

	return cmd
}
