package cli

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	browserkit "github.com/luizaranda/go-browserkit"
	"github.com/luizaranda/go-browserkit/pkg/internal"
)

func (c *cli) catalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the helpers by category",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			catalog := browserkit.Catalog()
			categories := make([]string, 0, len(catalog))
			for category := range catalog {
				categories = append(categories, category)
			}
			sort.Strings(categories)

			table := uitable.New()
			table.AddRow("CATEGORY", "HELPERS")
			for _, category := range categories {
				table.AddRow(category, strings.Join(catalog[category], ", "))
			}
			_, err := fmt.Fprintln(c.out, table)
			return err
		},
	}
}

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			table := uitable.New()
			table.RightAlign(0)
			table.Separator = " "
			table.AddRow("version:", internal.Version)
			table.AddRow("userAgent:", internal.UserAgent())
			table.AddRow("goVersion:", runtime.Version())
			table.AddRow("platform:", runtime.GOOS+"/"+runtime.GOARCH)
			_, err := fmt.Fprintln(c.out, table)
			return err
		},
	}
}
