// Package facade sends GET, form POST and JSON POST requests through a shared
// transport while accumulating headers across calls and logging every round
// trip.
//
// A Facade is not safe for concurrent use. Its header set is mutated by every
// call that supplies headers, so callers sharing one instance must serialize
// access themselves.
package facade

import (
	"context"
	"fmt"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/samvad-hq/reqtrace/pkg/httpclient"
	"github.com/samvad-hq/reqtrace/pkg/trace"
)

const (
	// DefaultTimeout applies when a call passes a non-positive timeout.
	DefaultTimeout = time.Second
	// maxLoggedBody is the number of characters of a request body written to the log.
	maxLoggedBody = 512
	// maxTracedResponse bounds the response body kept in trace records.
	maxTracedResponse = 512
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Logger is the logging surface the facade writes to. *zap.SugaredLogger
// satisfies it.
type Logger interface {
	Debug(args ...interface{})
	Errorf(template string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(...interface{})          {}
func (nopLogger) Errorf(string, ...interface{}) {}

// Facade owns an accumulating header set and dispatches requests through a
// shared httpclient.Client.
type Facade struct {
	client   httpclient.Client
	log      Logger
	headers  Headers
	recorder trace.Recorder
	now      func() time.Time
}

// Option customizes a Facade at construction.
type Option func(*Facade)

// WithDefaultHeaders seeds the header set.
func WithDefaultHeaders(h Headers) Option {
	return func(f *Facade) {
		f.headers = h.Clone()
	}
}

// WithRecorder hands a trace record for every completed call to rec.
func WithRecorder(rec trace.Recorder) Option {
	return func(f *Facade) {
		f.recorder = rec
	}
}

// WithNow overrides the clock used for trace timestamps.
func WithNow(now func() time.Time) Option {
	return func(f *Facade) {
		if now != nil {
			f.now = now
		}
	}
}

// New builds a facade around client. A nil client falls back to a resty
// client and a nil log discards output.
func New(client httpclient.Client, log Logger, opts ...Option) *Facade {
	if client == nil {
		client = httpclient.NewRestyClient()
	}
	if log == nil {
		log = nopLogger{}
	}
	f := &Facade{
		client:  client,
		log:     log,
		headers: Headers{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetDefaultHeaders replaces the header set with a copy of h. It does not merge.
func (f *Facade) SetDefaultHeaders(h Headers) *Facade {
	f.headers = h.Clone()
	return f
}

// Headers returns a copy of the accumulated header set.
func (f *Facade) Headers() Headers {
	return f.headers.Clone()
}

// Get issues a GET with query in "k1=v1&k2=v2" form.
func (f *Facade) Get(ctx context.Context, url, query string, headers Headers, timeout time.Duration) (Result, error) {
	return f.SendRequest(ctx, MethodGet, url, query, headers, timeout)
}

// PostForm issues a POST with a pre-encoded body.
func (f *Facade) PostForm(ctx context.Context, url, body string, headers Headers, timeout time.Duration) (Result, error) {
	return f.SendRequest(ctx, MethodPostForm, url, body, headers, timeout)
}

// PostJSON issues a POST with v encoded as JSON.
func (f *Facade) PostJSON(ctx context.Context, url string, v any, headers Headers, timeout time.Duration) (Result, error) {
	return f.SendRequest(ctx, MethodPostJSON, url, v, headers, timeout)
}

// SendRequest merges headers into the facade's header set, logs the request,
// dispatches it and logs the response.
//
// A timeout is logged and reported as a Result with OutcomeTimeout and a nil
// error. Any other transport fault is returned as *TransportError.
func (f *Facade) SendRequest(ctx context.Context, method Method, url string, payload any, headers Headers, timeout time.Duration) (Result, error) {
	if !method.Valid() {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
	if len(headers) > 0 {
		f.headers.Merge(headers)
	}

	desc, err := f.describe(method, url, payload, timeout)
	if err != nil {
		return Result{}, err
	}
	return f.dispatch(ctx, desc)
}

// descriptor is the per-call view of a request. headers is exactly the set
// written to the wire, the log and the trace record.
type descriptor struct {
	method  Method
	url     string
	query   string
	params  map[string]string
	body    []byte
	headers Headers
	timeout time.Duration
}

func (f *Facade) describe(method Method, url string, payload any, timeout time.Duration) (descriptor, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	desc := descriptor{
		method:  method,
		url:     url,
		headers: f.headers.Clone(),
		timeout: timeout,
	}

	switch method {
	case MethodGet:
		query, ok := payload.(string)
		if !ok && payload != nil {
			return descriptor{}, fmt.Errorf("%w: get expects a query string, got %T", ErrInvalidPayload, payload)
		}
		params, err := parseQuery(query)
		if err != nil {
			return descriptor{}, err
		}
		desc.query = query
		desc.params = params
	case MethodPostForm:
		switch body := payload.(type) {
		case string:
			desc.body = []byte(body)
		case []byte:
			desc.body = body
		case nil:
		default:
			return descriptor{}, fmt.Errorf("%w: post_form expects an encoded body, got %T", ErrInvalidPayload, payload)
		}
	case MethodPostJSON:
		body, err := json.Marshal(payload)
		if err != nil {
			return descriptor{}, fmt.Errorf("%w: encode json: %v", ErrInvalidPayload, err)
		}
		desc.body = body
	default:
		return descriptor{}, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	if ct := method.contentType(); ct != "" && !desc.headers.has("Content-Type") {
		desc.headers["Content-Type"] = ct
	}
	return desc, nil
}

func (f *Facade) dispatch(ctx context.Context, desc descriptor) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	f.logRequest(desc)

	callCtx, cancel := context.WithTimeout(ctx, desc.timeout)
	defer cancel()

	start := f.now()
	var (
		resp httpclient.Response
		err  error
	)
	switch desc.method {
	case MethodGet:
		resp, err = f.client.Get(callCtx, desc.url, desc.params, desc.headers)
	case MethodPostForm, MethodPostJSON:
		resp, err = f.client.Post(callCtx, desc.url, desc.headers, desc.body)
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedMethod, desc.method)
	}
	elapsed := f.now().Sub(start)

	if err != nil {
		if httpclient.IsTimeout(err) {
			f.log.Errorf("http %s request time out(%ss)!", desc.method.verb(), formatSeconds(desc.timeout))
			f.record(ctx, desc, nil, start, elapsed)
			return Result{Outcome: OutcomeTimeout}, nil
		}
		terr := &TransportError{Method: desc.method, URL: desc.url, Err: err}
		f.log.Errorf("%v", terr)
		return Result{}, terr
	}

	out := &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header().Clone(),
		Body:       resp.Body(),
		URL:        resp.URL(),
		Elapsed:    elapsed,
	}
	f.logResponse(out)
	f.record(ctx, desc, out, start, elapsed)
	return Result{Outcome: OutcomeSuccess, Response: out}, nil
}

func (f *Facade) record(ctx context.Context, desc descriptor, resp *Response, start time.Time, elapsed time.Duration) {
	if f.recorder == nil {
		return
	}
	rec := trace.NewRecord(desc.method.String(), desc.url, start)
	rec.RequestHeaders = desc.headers
	rec.Query = desc.query
	rec.RequestBody = truncateChars(string(desc.body), maxLoggedBody)
	rec.TimeoutMs = desc.timeout.Milliseconds()
	rec.Outcome = trace.OutcomeTimeout
	rec.ElapsedMs = elapsed.Milliseconds()
	if resp != nil {
		rec.Outcome = trace.OutcomeSuccess
		rec.FinalURL = resp.URL
		rec.StatusCode = resp.StatusCode
		rec.ResponseHeaders = flattenHeader(resp.Header)
		rec.ResponseBody = trace.Snippet(string(resp.Body), maxTracedResponse)
	}
	if err := f.recorder.Record(ctx, rec); err != nil {
		f.log.Errorf("record trace %s: %v", rec.ID, err)
	}
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
