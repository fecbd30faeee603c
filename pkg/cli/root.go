// Package cli implements the browserkit command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/luizaranda/go-browserkit/pkg/app"
	"github.com/luizaranda/go-browserkit/pkg/browser"
	"github.com/luizaranda/go-browserkit/pkg/log"
	"github.com/luizaranda/go-browserkit/pkg/requests"
	"github.com/luizaranda/go-browserkit/pkg/telemetry"
	"github.com/luizaranda/go-browserkit/pkg/transport/httpclient"
)

var _json = sonic.Config{SortMapKeys: true, EscapeHTML: false}.Froze()

type cli struct {
	v          *viper.Viper
	configPath string
	cfg        Config

	app  *app.Application
	span telemetry.Span

	out    io.Writer
	errOut io.Writer
}

// Run executes the command line args and returns the process exit code.
func Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	c := &cli{v: newViper(), out: out, errOut: errOut}

	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if err != nil && c.span != nil {
		c.span.NoticeError(err)
	}
	if err = errors.Join(err, c.shutdown()); err != nil {
		fmt.Fprintln(errOut, "Error:", err)
		return 1
	}
	return 0
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "browserkit",
		Short:             "Browser helpers from the command line",
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (YAML, JSON or TOML)")
	flags.String("log-level", "info", "log level")
	flags.String("log-format", "json", "log format: json or console")
	flags.Duration("timeout", 10*time.Second, "HTTP timeout, 0 disables it")
	flags.String("origin", "", "origin the HTTP requests are sent from")
	flags.String("remote-url", "", "DevTools websocket URL of a running browser")
	flags.Bool("headless", true, "run the started browser headless")

	for key, name := range map[string]string{
		"log.level":          "log-level",
		"log.format":         "log-format",
		"http.timeout":       "timeout",
		"http.origin":        "origin",
		"browser.remote_url": "remote-url",
		"browser.headless":   "headless",
	} {
		// Lookup never returns nil for the flags declared above.
		_ = c.v.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(
		c.requestCommand("GET"),
		c.requestCommand("POST"),
		c.requestCommand("PUT"),
		c.requestCommand("DELETE"),
		c.qsCommand(),
		c.retinaCommand(),
		c.loadScriptCommand(),
		c.catalogCommand(),
		c.versionCommand(),
	)
	return root
}

// setup loads the configuration and starts the Application every command
// runs within.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(c.v, c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("cli: log.level: %w", err)
	}

	logOpts := []log.Option{log.WithWriter(zapcore.AddSync(c.errOut))}
	switch cfg.Log.Format {
	case "", "json":
	case "console":
		logOpts = append(logOpts, log.WithConsoleEncoding())
	default:
		return fmt.Errorf("cli: log.format must be json or console, got %q", cfg.Log.Format)
	}

	a, err := app.New(
		app.WithLogLevel(level),
		app.WithLogOptions(logOpts...),
		app.WithTelemetry(telemetry.Config{
			ApplicationName: cfg.Telemetry.AppName,
			NewRelicLicense: cfg.Telemetry.NewRelicLicense,
			StatsdAddress:   cfg.Telemetry.StatsdAddress,
		}),
	)
	if err != nil {
		return err
	}
	c.app = a

	ctx, span := telemetry.StartSpan(a.Context(cmd.Context()), cmd.CommandPath())
	c.span = span
	cmd.SetContext(ctx)
	return nil
}

func (c *cli) shutdown() error {
	if c.app == nil {
		return nil
	}
	if c.span != nil {
		c.span.Finish()
	}
	return c.app.Shutdown()
}

// requestClient returns the client the request commands use: a headless
// browser fetch when viaBrowser is set, the HTTP fetcher otherwise. The
// returned func releases what the client holds.
func (c *cli) requestClient(ctx context.Context, viaBrowser bool) (*requests.Client, func(), error) {
	if viaBrowser {
		s, err := c.newSession(ctx, c.cfg.HTTP.Origin)
		if err != nil {
			return nil, nil, err
		}
		return requests.New(s), s.Close, nil
	}

	httpOpts := []httpclient.Option{httpclient.WithTimeout(c.cfg.HTTP.Timeout)}
	if c.cfg.HTTP.UserAgent != "" {
		httpOpts = append(httpOpts, httpclient.WithUserAgent(c.cfg.HTTP.UserAgent))
	}

	release := func() {}
	if c.cfg.HTTP.CacheMiB > 0 {
		cache := httpclient.NewLocalCache(httpclient.MiB(c.cfg.HTTP.CacheMiB))
		httpOpts = append(httpOpts, httpclient.WithCache(cache))
		release = func() { _ = cache.Close() }
	}

	fetcherOpts := []requests.HTTPFetcherOption{requests.WithRequester(httpclient.New(httpOpts...))}
	if c.cfg.HTTP.Origin != "" {
		fetcherOpts = append(fetcherOpts, requests.WithOrigin(c.cfg.HTTP.Origin))
	}

	fetcher, err := requests.NewHTTPFetcher(fetcherOpts...)
	if err != nil {
		release()
		return nil, nil, err
	}
	return requests.New(fetcher), release, nil
}

func (c *cli) newSession(ctx context.Context, startURL string, opts ...browser.Option) (*browser.Session, error) {
	base := []browser.Option{browser.WithHeadless(c.cfg.Browser.Headless)}
	if c.cfg.Browser.RemoteURL != "" {
		base = append(base, browser.WithRemoteURL(c.cfg.Browser.RemoteURL))
	}
	if startURL != "" {
		base = append(base, browser.WithStartURL(startURL))
	}
	return browser.NewSession(ctx, append(base, opts...)...)
}

func (c *cli) printPayload(payload any) error {
	if s, ok := payload.(string); ok {
		_, err := fmt.Fprintln(c.out, s)
		return err
	}
	b, err := _json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("cli: encoding payload: %w", err)
	}
	_, err = fmt.Fprintln(c.out, string(b))
	return err
}
