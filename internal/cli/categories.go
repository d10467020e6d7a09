package cli

import (
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/zenquote/internal/domain"
)

func newCategoriesCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List quote categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := o.plainPrinter(cmd)

			for _, c := range domain.Categories() {
				if c.IsGeneral() {
					out.Highlight("%s (default)", c)
					continue
				}
				out.Line("%s", c)
			}

			return nil
		},
	}
}
