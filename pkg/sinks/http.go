package sinks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samvad-hq/reqtrace/pkg/httpclient"
	"github.com/samvad-hq/reqtrace/pkg/trace"
)

// httpSink delivers each record as a JSON document to a webhook.
type httpSink struct {
	id     string
	method string
	url    string
	client *resty.Client
}

func newHTTPSink(_ context.Context, cfg SinkConfig) (Sink, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("sink %q missing http configuration", cfg.ID)
	}

	method := strings.ToUpper(cfg.HTTP.Method)
	if method == "" {
		method = httpDefaultMethod
	}

	client := httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds)*time.Second).
		SetHeaders(cfg.HTTP.Headers).
		SetHeader("Content-Type", "application/json")

	return &httpSink{id: cfg.ID, method: method, url: cfg.HTTP.URL, client: client}, nil
}

func (h *httpSink) ID() string   { return h.id }
func (h *httpSink) Type() string { return TypeHTTP }

func (h *httpSink) Send(ctx context.Context, rec trace.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal trace record: %w", err)
	}

	resp, err := h.client.R().SetContext(ctx).SetBody(payload).Execute(h.method, h.url)
	if err != nil {
		return fmt.Errorf("%s %s: %w", h.method, h.url, err)
	}
	if resp.IsError() {
		reason := strings.TrimSpace(trace.Snippet(string(resp.Body()), 512))
		return fmt.Errorf("%s %s: status %d: %s", h.method, h.url, resp.StatusCode(), reason)
	}
	return nil
}
