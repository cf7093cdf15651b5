// Package cli implements the reqtrace command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/samvad-hq/reqtrace/internal/config"
	"github.com/samvad-hq/reqtrace/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	headers     []string
	timeout     time.Duration
	noColor     bool
	verbose     bool
	showHeaders bool
	jsonPath    string
	selector    string
	title       bool
	limit       int
}

// CLI carries the state shared by every reqtrace subcommand.
type CLI struct {
	out    io.Writer
	errOut io.Writer
	opts   options

	cfg   *config.Config
	sugar *zap.SugaredLogger
	log   *logger.ZapLogger
}

// Execute runs reqtrace with args and returns the process exit code.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) int {
	c := &CLI{out: out, errOut: errOut}
	cmd := c.Command()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(ctx)
	if c.log != nil {
		_ = c.log.Close()
	}
	if err != nil {
		fmt.Fprintf(errOut, "reqtrace: %v\n", err)
	}
	return exitCode(err)
}

// Command builds the cobra command tree.
func (c *CLI) Command() *cobra.Command {
	root := &cobra.Command{
		Use:   "reqtrace",
		Short: "Send HTTP requests with accumulated headers and traced round trips.",
		Long: `reqtrace sends GET, form POST and JSON POST requests through one
request facade. Headers given with -H accumulate on top of the configured
default headers; every round trip is logged and, when sinks or storage are
configured, recorded as a trace.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.StringArrayVarP(&c.opts.headers, "header", "H", nil, "Extra request header as 'Name: value' (repeatable)")
	flags.DurationVar(&c.opts.timeout, "timeout", 0, "Per-request timeout (default from REQTRACE_TIMEOUT_MS)")
	flags.BoolVar(&c.opts.noColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&c.opts.verbose, "verbose", "v", false, "Log request/response blocks at debug level")

	root.AddCommand(c.getCmd(), c.postFormCmd(), c.postJSONCmd(), c.tracesCmd())
	return root
}

func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.opts.noColor {
		color.NoColor = true
	}

	cfg, err := config.Load()
	if err != nil {
		return configError{fmt.Errorf("load config: %w", err)}
	}
	if c.opts.verbose {
		cfg.LogLevel = "debug"
	}
	if c.opts.timeout > 0 {
		cfg.Timeout = c.opts.timeout
	}

	sugar, err := logger.Init(cfg)
	if err != nil {
		return configError{fmt.Errorf("init logger: %w", err)}
	}

	c.cfg = cfg
	c.sugar = sugar
	c.log = logger.NewZapLogger(sugar)
	c.log.DebugObj("reqtrace starting", "command", cmd.Name())
	return nil
}

func (c *CLI) requestHeaders() (map[string]string, error) {
	out := map[string]string{}
	for _, h := range c.opts.headers {
		if err := config.ParseHeaderInto(out, h); err != nil {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
	}
	return out, nil
}
