package cli

import (
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/zenquote/internal/domain"
)

const toggleArg = "toggle"

func newThemeCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the colour theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(domain.ThemeLight), string(domain.ThemeDark), toggleArg},
	}

	cmd.RunE = o.withRuntime(false, func(cmd *cobra.Command, args []string, rt *Runtime) error {
		ctx := cmd.Context()

		var (
			theme domain.Theme
			err   error
		)

		switch {
		case len(args) == 0:
			theme = rt.Preferences.Theme(ctx)

		case args[0] == toggleArg:
			theme, err = rt.Preferences.ToggleTheme(ctx)

		default:
			theme, err = domain.ParseTheme(args[0])
			if err != nil {
				return err
			}
			err = rt.Preferences.SetTheme(ctx, theme)
		}

		if err != nil {
			warn(cmd, "theme not saved: %v", err)
		}

		newPrinter(cmd.OutOrStdout(), theme, o.plain).Highlight("%s", theme)

		return nil
	})

	return cmd
}
