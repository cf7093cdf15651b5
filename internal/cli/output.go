package cli

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/samvad-hq/reqtrace/pkg/facade"
	"github.com/samvad-hq/reqtrace/pkg/trace"
)

func statusColor(code int) *color.Color {
	switch {
	case code >= 500:
		return color.New(color.FgRed, color.Bold)
	case code >= 400:
		return color.New(color.FgYellow)
	case code >= 300:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgGreen)
	}
}

func printResponseHead(w io.Writer, method facade.Method, url string, resp *facade.Response, showHeaders bool) {
	bold := color.New(color.Bold).SprintFunc()
	status := statusColor(resp.StatusCode).SprintFunc()

	fmt.Fprintf(w, "%s %s -> %s (%dms)\n",
		bold(strings.ToUpper(method.String())), url,
		status(fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))),
		resp.Elapsed.Milliseconds())

	if !showHeaders {
		return
	}
	keys := make([]string, 0, len(resp.Header))
	for k := range resp.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %s\n", k, strings.Join(resp.Header[k], ", "))
	}
	fmt.Fprintln(w)
}

func printTimeout(w io.Writer, method facade.Method, url string) {
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %s -> %s\n", strings.ToUpper(method.String()), url, yellow("TIMEOUT"))
}

func printTraces(w io.Writer, recs []trace.Record) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "no traces recorded")
		return
	}
	for _, rec := range recs {
		outcome := rec.Outcome
		if rec.Outcome == trace.OutcomeSuccess {
			outcome = statusColor(rec.StatusCode).Sprint(rec.StatusCode)
		} else {
			outcome = color.New(color.FgYellow).Sprint(outcome)
		}
		fmt.Fprintf(w, "%s  %-9s  %-7s  %6dms  %s  %s\n",
			rec.StartedAt.Format("2006-01-02T15:04:05Z"),
			rec.Method, outcome, rec.ElapsedMs, rec.URL, rec.ID)
	}
}
