package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/luizaranda/go-browserkit/pkg/querystring"
)

func (c *cli) qsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qs",
		Short: "Encode, decode and edit query strings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "encode KEY=VALUE...",
			Short: "Encode pairs into a query string, keys sorted",
			RunE: func(_ *cobra.Command, args []string) error {
				params := make(map[string]any, len(args))
				for _, arg := range args {
					key, value, ok := strings.Cut(arg, "=")
					if !ok {
						return fmt.Errorf("cli: %q is not KEY=VALUE", arg)
					}
					params[key] = value
				}
				_, err := fmt.Fprintln(c.out, querystring.ToQueryString(params))
				return err
			},
		},
		&cobra.Command{
			Use:   "decode QUERY",
			Short: "Decode a query string into a key and value table",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				params := querystring.FromQueryString(args[0])
				keys := make([]string, 0, len(params))
				for k := range params {
					keys = append(keys, k)
				}
				sort.Strings(keys)

				table := uitable.New()
				table.MaxColWidth = 80
				table.AddRow("KEY", "VALUE")
				for _, k := range keys {
					table.AddRow(k, params[k])
				}
				_, err := fmt.Fprintln(c.out, table)
				return err
			},
		},
		&cobra.Command{
			Use:   "replace QUERY KEY VALUE",
			Short: "Set KEY to VALUE in a query string",
			Args:  cobra.ExactArgs(3),
			RunE: func(_ *cobra.Command, args []string) error {
				_, err := fmt.Fprintln(c.out, querystring.ReplaceQueryParam(args[0], args[1], args[2]))
				return err
			},
		},
	)
	return cmd
}
