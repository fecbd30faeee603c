package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luizaranda/go-browserkit/pkg/requests"
)

type requestFlags struct {
	data        string
	headers     []string
	cache       string
	mode        string
	credentials string
	redirect    string
	referrer    string
	referrerSet bool
	params      []string
	targetID    string
	browser     bool
}

func (c *cli) requestCommand(method string) *cobra.Command {
	var f requestFlags
	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " URL",
		Short: fmt.Sprintf("Send a %s request and print the unwrapped payload", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.referrerSet = cmd.Flags().Changed("referrer")
			return c.runRequest(cmd.Context(), method, args[0], &f)
		},
	}

	flags := cmd.Flags()
	if method != http.MethodGet {
		flags.StringVarP(&f.data, "data", "d", "", "request body, JSON is sent as given and anything else as text")
	}
	flags.StringArrayVarP(&f.headers, "header", "H", nil, "request header as name:value, repeatable")
	flags.StringVar(&f.cache, "cache", "", `fetch cache mode, "true" or "false"`)
	flags.StringVar(&f.mode, "mode", "", "fetch mode: cors, no-cors, same-origin or navigate")
	flags.StringVar(&f.credentials, "credentials", "", "credentials: omit, same-origin or include")
	flags.StringVar(&f.redirect, "redirect", "", "redirect mode: follow, manual or error")
	flags.StringVar(&f.referrer, "referrer", "", "referrer, empty for none")
	flags.StringArrayVar(&f.params, "param", nil, "URL template param as name=value, repeatable")
	flags.StringVar(&f.targetID, "target-id", "", "low cardinality name for the request metrics")
	flags.BoolVar(&f.browser, "browser", false, "send the request from a headless browser")
	return cmd
}

func (c *cli) runRequest(ctx context.Context, method, url string, f *requestFlags) error {
	opts, err := f.options()
	if err != nil {
		return err
	}
	body := f.body()

	client, release, err := c.requestClient(ctx, f.browser)
	if err != nil {
		return err
	}
	defer release()

	var payload any
	switch method {
	case http.MethodPost:
		payload, err = client.Post(ctx, url, body, opts...)
	case http.MethodPut:
		payload, err = client.Put(ctx, url, body, opts...)
	case http.MethodDelete:
		payload, err = client.Delete(ctx, url, body, opts...)
	default:
		payload, err = client.Get(ctx, url, opts...)
	}
	if err != nil {
		return err
	}
	return c.printPayload(payload)
}

func (f *requestFlags) options() ([]requests.RequestOption, error) {
	var opts []requests.RequestOption

	for _, h := range f.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("cli: header %q is not name:value", h)
		}
		opts = append(opts, requests.WithHeader(strings.TrimSpace(name), strings.TrimSpace(value)))
	}

	for _, p := range f.params {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("cli: param %q is not name=value", p)
		}
		opts = append(opts, requests.WithParam(name, value))
	}

	switch f.cache {
	case "":
	case "true":
		opts = append(opts, requests.WithCache(true))
	case "false":
		opts = append(opts, requests.WithCache(false))
	default:
		opts = append(opts, requests.WithCache(f.cache))
	}

	if f.mode != "" {
		opts = append(opts, requests.WithMode(f.mode))
	}
	if f.credentials != "" {
		opts = append(opts, requests.WithCredentials(f.credentials))
	}
	if f.redirect != "" {
		opts = append(opts, requests.WithRedirect(f.redirect))
	}
	if f.referrerSet {
		opts = append(opts, requests.WithReferrer(f.referrer))
	}
	if f.targetID != "" {
		opts = append(opts, requests.WithTargetID(f.targetID))
	}
	return opts, nil
}

// body passes --data through as JSON text when it is valid JSON, scalars
// included, and as plain text otherwise.
func (f *requestFlags) body() any {
	if f.data == "" {
		return nil
	}
	if _json.Valid([]byte(f.data)) {
		return json.RawMessage(f.data)
	}
	return f.data
}
