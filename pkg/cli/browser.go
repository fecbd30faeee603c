package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	browserkit "github.com/luizaranda/go-browserkit"
	"github.com/luizaranda/go-browserkit/pkg/browser"
	"github.com/luizaranda/go-browserkit/pkg/log"
)

func (c *cli) retinaCommand() *cobra.Command {
	var (
		pageURL string
		scale   float64
	)
	cmd := &cobra.Command{
		Use:   "retina",
		Short: "Report whether a page renders at a device pixel ratio of 2 or more",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []browser.Option
			if scale > 0 {
				opts = append(opts, browser.WithDeviceScaleFactor(scale))
			}
			s, err := c.newSession(cmd.Context(), pageURL, opts...)
			if err != nil {
				return err
			}
			defer s.Close()

			_, err = fmt.Fprintln(c.out, browserkit.IsRetina(cmd.Context(), s))
			return err
		},
	}
	cmd.Flags().StringVar(&pageURL, "url", "", "page to open, a blank page when empty")
	cmd.Flags().Float64Var(&scale, "scale", 0, "device scale factor to emulate, 0 keeps the browser's")
	return cmd
}

func (c *cli) loadScriptCommand() *cobra.Command {
	var (
		before string
		attrs  []string
	)
	cmd := &cobra.Command{
		Use:   "load-script PAGE SRC",
		Short: "Open PAGE and load the script SRC into it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrMap := make(map[string]string, len(attrs))
			for _, a := range attrs {
				k, v, ok := strings.Cut(a, "=")
				if !ok || k == "" {
					return fmt.Errorf("cli: attribute %q is not name=value", a)
				}
				attrMap[k] = v
			}

			ctx := cmd.Context()
			s, err := c.newSession(ctx, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if err := browserkit.LoadScript(ctx, s, args[1], before, attrMap); err != nil {
				return err
			}
			log.Info(ctx, "script loaded", log.String("page", args[0]), log.String("src", args[1]))
			_, err = fmt.Fprintln(c.out, "loaded", args[1])
			return err
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "CSS selector of the element to insert the script before")
	cmd.Flags().StringArrayVar(&attrs, "attr", nil, "script attribute as name=value, repeatable")
	return cmd
}
