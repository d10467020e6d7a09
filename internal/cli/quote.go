package cli

import (
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/zenquote/internal/domain"
)

type quoteOptions struct {
	category domain.Category
	copy     bool
	share    bool
	bookmark bool
}

func newQuoteCommand(o *rootOptions) *cobra.Command {
	q := &quoteOptions{}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Print a fresh quote",
		Example: `  zenquote quote
  zenquote quote --category wisdom --bookmark
  zenquote quote -c hope --copy`,
		Args: cobra.NoArgs,
	}

	flags := cmd.Flags()
	flags.VarP(newCategoryValue(&q.category), "category", "c", "quote category")
	flags.BoolVar(&q.copy, "copy", false, "copy the quote to the clipboard")
	flags.BoolVar(&q.share, "share", false, "open the share page in the browser")
	flags.BoolVarP(&q.bookmark, "bookmark", "b", false, "bookmark the quote")

	_ = cmd.RegisterFlagCompletionFunc("category", completeCategories)

	cmd.RunE = o.withRuntime(false, func(cmd *cobra.Command, _ []string, rt *Runtime) error {
		return runQuote(cmd, o, rt, q)
	})

	return cmd
}

func runQuote(cmd *cobra.Command, o *rootOptions, rt *Runtime, q *quoteOptions) error {
	ctx := cmd.Context()
	out := o.printer(cmd, rt)

	snap := rt.Widget.SetCategory(ctx, q.category)
	quote := snap.Quote

	if q.bookmark && !snap.Bookmarked {
		added, err := rt.Bookmarks.Add(ctx, quote)
		if err != nil {
			warn(cmd, "bookmark kept for this run only: %v", err)
		}
		snap.Bookmarked = added || snap.Bookmarked
	}

	status := []string{snap.Category.String()}
	if snap.Bookmarked {
		status = append(status, "★ bookmarked")
	}

	out.Quote(quote, status...)

	return copyAndShare(cmd, rt, quote, q.copy, q.share)
}

// copyAndShare runs the requested clipboard and browser actions for quote.
func copyAndShare(cmd *cobra.Command, rt *Runtime, quote *domain.Quote, doCopy, doShare bool) error {
	ctx := cmd.Context()

	if doCopy {
		if err := rt.Sharer.Copy(ctx, quote); err != nil {
			return err
		}
		cmd.PrintErrln("Copied to clipboard.")
	}

	if doShare {
		if err := rt.Sharer.Share(ctx, quote); err != nil {
			return err
		}
		cmd.PrintErrln("Opened " + rt.Sharer.ShareURL(quote))
	}

	return nil
}
