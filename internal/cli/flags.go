package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jsamuelsen/zenquote/internal/app"
	"github.com/jsamuelsen/zenquote/internal/domain"
)

var (
	_ pflag.Value = (*categoryValue)(nil)
	_ pflag.Value = (*formatValue)(nil)
)

// categoryValue parses --category case-insensitively.
type categoryValue domain.Category

func newCategoryValue(c *domain.Category) *categoryValue {
	if *c == "" {
		*c = domain.CategoryGeneral
	}

	return (*categoryValue)(c)
}

func (v *categoryValue) String() string {
	return string(*v)
}

func (v *categoryValue) Set(s string) error {
	c, err := domain.ParseCategory(s)
	if err != nil {
		return fmt.Errorf("must be one of %s", strings.Join(categoryNames(), ", "))
	}

	*v = categoryValue(c)

	return nil
}

func (v *categoryValue) Type() string {
	return "category"
}

func categoryNames() []string {
	cats := domain.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.String()
	}

	return names
}

func completeCategories(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return categoryNames(), cobra.ShellCompDirectiveNoFileComp
}

// formatValue is the bookmark export format.
type formatValue string

func (v *formatValue) String() string {
	return string(*v)
}

func (v *formatValue) Set(s string) error {
	switch f := strings.ToLower(s); f {
	case app.FormatJSON, app.FormatYAML:
		*v = formatValue(f)
		return nil
	case "yml":
		*v = app.FormatYAML
		return nil
	default:
		return fmt.Errorf("must be %s or %s", app.FormatJSON, app.FormatYAML)
	}
}

func (v *formatValue) Type() string {
	return "format"
}
