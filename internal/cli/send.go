package cli

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/samvad-hq/reqtrace/internal/extract"
	"github.com/samvad-hq/reqtrace/pkg/facade"
	"github.com/spf13/cobra"
)

func (c *CLI) getCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <url> [query]",
		Short: "Send a GET request; query is k1=v1&k2=v2",
		Example: `  reqtrace get http://127.0.0.1:17891/index 'k1=v1&k2=v2'
  reqtrace get https://example.com --title`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 2 {
				query = args[1]
			}
			return c.send(cmd, facade.MethodGet, args[0], query)
		},
	}
	c.addOutputFlags(cmd)
	return cmd
}

func (c *CLI) postFormCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post-form <url> <body>",
		Short: "Send a POST request with a pre-encoded body",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.send(cmd, facade.MethodPostForm, args[0], args[1])
		},
	}
	c.addOutputFlags(cmd)
	return cmd
}

func (c *CLI) postJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "post-json <url> <json>",
		Short:   "Send a POST request with a JSON body",
		Example: `  reqtrace post-json http://127.0.0.1:17891/index '{"email":"123456@163.com"}' --json-path data.token`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload any
			if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(args[1], &payload); err != nil {
				return fmt.Errorf("%w: invalid json body: %v", errUsage, err)
			}
			return c.send(cmd, facade.MethodPostJSON, args[0], payload)
		},
	}
	c.addOutputFlags(cmd)
	return cmd
}

func (c *CLI) addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&c.opts.showHeaders, "include", "i", false, "Print response headers")
	cmd.Flags().StringVar(&c.opts.jsonPath, "json-path", "", "Print only the value at this gjson path")
	cmd.Flags().StringVar(&c.opts.selector, "select", "", "Print only the text of nodes matching this CSS selector")
	cmd.Flags().BoolVar(&c.opts.title, "title", false, "Print only the HTML page title")
}

func (c *CLI) send(cmd *cobra.Command, method facade.Method, url string, payload any) error {
	headers, err := c.requestHeaders()
	if err != nil {
		return err
	}

	rt, err := c.newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.close(); err != nil {
			c.log.ErrorObj("runtime close failed", "error", err.Error())
		}
	}()

	res, err := rt.facade.SendRequest(cmd.Context(), method, url, payload, headers, c.cfg.Timeout)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.TimedOut() {
		printTimeout(out, method, url)
		return fmt.Errorf("%w after %s", errTimedOut, c.cfg.Timeout)
	}

	resp := res.Response
	printResponseHead(out, method, url, resp, c.opts.showHeaders)
	return c.printBody(cmd, resp.Body)
}

func (c *CLI) printBody(cmd *cobra.Command, body []byte) error {
	out := cmd.OutOrStdout()
	switch {
	case c.opts.jsonPath != "":
		val, ok := extract.JSONPath(body, c.opts.jsonPath)
		if !ok {
			return fmt.Errorf("json path %q not found in response", c.opts.jsonPath)
		}
		fmt.Fprintln(out, val)
	case c.opts.selector != "":
		matches, err := extract.CSS(body, c.opts.selector)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, strings.Join(matches, "\n"))
	case c.opts.title:
		title, err := extract.Title(body)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, title)
	default:
		fmt.Fprintln(out, string(body))
	}
	return nil
}
