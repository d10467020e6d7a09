package cli

import (
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/zenquote/internal/domain"
)

func newCopyCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy <bookmark-id>",
		Short: "Copy a bookmarked quote to the clipboard",
		Args:  cobra.ExactArgs(1),
	}

	cmd.ValidArgsFunction = o.completeBookmarkIDs

	cmd.RunE = o.withRuntime(false, func(cmd *cobra.Command, args []string, rt *Runtime) error {
		q, err := rt.Bookmarks.Get(args[0])
		if err != nil {
			return err
		}

		return copyAndShare(cmd, rt, q, true, false)
	})

	return cmd
}

func newShareCommand(o *rootOptions) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "share <bookmark-id>",
		Short: "Share a bookmarked quote",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "print the share URL instead of opening it")
	cmd.ValidArgsFunction = o.completeBookmarkIDs

	cmd.RunE = o.withRuntime(false, func(cmd *cobra.Command, args []string, rt *Runtime) error {
		q, err := rt.Bookmarks.Get(args[0])
		if err != nil {
			return err
		}

		if printOnly {
			o.printer(cmd, rt).Line("%s", rt.Sharer.ShareURL(q))
			return nil
		}

		return copyAndShare(cmd, rt, q, false, true)
	})

	return cmd
}

// completeBookmarkIDs offers stored bookmark ids with their text as description.
func (o *rootOptions) completeBookmarkIDs(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var ids []string

	complete := o.withRuntime(false, func(_ *cobra.Command, _ []string, rt *Runtime) error {
		for _, q := range rt.Bookmarks.All() {
			ids = append(ids, q.ID+"\t"+domain.FormatQuote(&q))
		}
		return nil
	})

	if err := complete(cmd, args); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	return ids, cobra.ShellCompDirectiveNoFileComp
}
