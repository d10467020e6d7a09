package cli

import (
	"github.com/spf13/cobra"
)

func newVersionCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := o.build
			out := o.plainPrinter(cmd)

			out.Line("zenquote %s", b.Version)
			out.Line("commit:     %s", b.Commit)
			out.Line("built:      %s", b.BuildTime)
			out.Line("go version: %s", b.GoVersion)

			return nil
		},
	}
}
