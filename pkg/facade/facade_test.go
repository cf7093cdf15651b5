package facade

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/reqtrace/pkg/httpclient"
	"github.com/samvad-hq/reqtrace/pkg/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeResponse struct {
	status int
	header http.Header
	body   []byte
	url    string
}

func (r *fakeResponse) Body() []byte        { return r.body }
func (r *fakeResponse) StatusCode() int     { return r.status }
func (r *fakeResponse) Header() http.Header { return r.header }
func (r *fakeResponse) URL() string         { return r.url }

// fakeClient records every call and replies with resp or err.
type fakeClient struct {
	calls   int
	method  string
	url     string
	params  map[string]string
	headers map[string]string
	body    []byte
	resp    *fakeResponse
	err     error
}

func (c *fakeClient) Get(_ context.Context, u string, params, headers map[string]string) (httpclient.Response, error) {
	c.calls++
	c.method, c.url, c.params, c.headers = http.MethodGet, u, params, headers
	return c.reply(u)
}

func (c *fakeClient) Post(_ context.Context, u string, headers map[string]string, body []byte) (httpclient.Response, error) {
	c.calls++
	c.method, c.url, c.headers, c.body = http.MethodPost, u, headers, body
	return c.reply(u)
}

func (c *fakeClient) reply(u string) (httpclient.Response, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.resp != nil {
		return c.resp, nil
	}
	return &fakeResponse{status: http.StatusOK, header: http.Header{"X-Reply": {"1"}}, body: []byte("ok"), url: u}, nil
}

func newObserved(client httpclient.Client, opts ...Option) (*Facade, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(client, zap.New(core).Sugar(), opts...), logs
}

const mockURL = "http://127.0.0.1:17891/index"

func TestHeaderMergeOverridesOverlappingKeys(t *testing.T) {
	f, _ := newObserved(&fakeClient{})

	_, err := f.Get(context.Background(), mockURL, "", Headers{"A": "1", "B": "1"}, 0)
	require.NoError(t, err)
	_, err = f.Get(context.Background(), mockURL, "", Headers{"B": "2", "C": "2"}, 0)
	require.NoError(t, err)

	assert.Equal(t, Headers{"A": "1", "B": "2", "C": "2"}, f.Headers())
}

func TestHeaderKeysAreCaseSensitive(t *testing.T) {
	f, _ := newObserved(&fakeClient{})

	_, err := f.Get(context.Background(), mockURL, "", Headers{"x-test": "lower"}, 0)
	require.NoError(t, err)
	_, err = f.Get(context.Background(), mockURL, "", Headers{"X-Test": "upper"}, 0)
	require.NoError(t, err)

	assert.Len(t, f.Headers(), 2)
}

func TestSetDefaultHeadersReplacesWholesale(t *testing.T) {
	f, _ := newObserved(&fakeClient{}, WithDefaultHeaders(Headers{"Old": "1"}))
	_, err := f.Get(context.Background(), mockURL, "", Headers{"Merged": "1"}, 0)
	require.NoError(t, err)

	h := Headers{"X-Test-Method": "X-Test-Post"}
	got := f.SetDefaultHeaders(h)

	assert.Same(t, f, got)
	assert.Equal(t, h, f.Headers())

	// the facade keeps its own copy
	h["Later"] = "1"
	assert.NotContains(t, f.Headers(), "Later")
}

func TestGetParsesQueryIntoParams(t *testing.T) {
	client := &fakeClient{}
	f, _ := newObserved(client)

	res, err := f.Get(context.Background(), mockURL, "k1=v1&k2=v2", nil, 500*time.Millisecond)
	require.NoError(t, err)
	require.True(t, res.OK())

	assert.Equal(t, map[string]string{"k1": "v1", "k2": "v2"}, client.params)
	assert.Equal(t, http.MethodGet, client.method)
}

func TestGetMalformedQueryFailsBeforeDispatch(t *testing.T) {
	client := &fakeClient{}
	f, _ := newObserved(client)

	_, err := f.Get(context.Background(), mockURL, "k1=v1&bad", nil, 0)
	require.ErrorIs(t, err, ErrMalformedQuery)
	assert.Zero(t, client.calls)
}

func TestPostJSONLogsTruncatedBodyButSendsAll(t *testing.T) {
	client := &fakeClient{}
	f, logs := newObserved(client)
	payload := map[string]string{"data": strings.Repeat("x", 1000)}

	_, err := f.PostJSON(context.Background(), mockURL, payload, nil, 0)
	require.NoError(t, err)

	full := string(client.body)
	require.Greater(t, len(full), maxLoggedBody)
	assert.Equal(t, `{"data":"`+strings.Repeat("x", 1000)+`"}`, full)

	entries := logs.FilterMessageSnippet("Request: " + mockURL).All()
	require.Len(t, entries, 1)
	msg := entries[0].Message
	start := strings.Index(msg, "Body: \n") + len("Body: \n")
	end := strings.Index(msg[start:], "\n* "+divLine)
	require.Positive(t, end)
	assert.Equal(t, full[:maxLoggedBody], msg[start:start+end])
}

func TestPostJSONSetsContentTypeOnWireOnly(t *testing.T) {
	client := &fakeClient{}
	f, _ := newObserved(client)

	_, err := f.PostJSON(context.Background(), mockURL, map[string]int{"a": 1}, Headers{"X": "1"}, 0)
	require.NoError(t, err)

	assert.Equal(t, "application/json", client.headers["Content-Type"])
	assert.Equal(t, Headers{"X": "1"}, f.Headers())
}

func TestPostJSONKeepsCallerContentType(t *testing.T) {
	client := &fakeClient{}
	f, _ := newObserved(client)

	_, err := f.PostJSON(context.Background(), mockURL, map[string]int{"a": 1}, Headers{"content-type": "text/json; charset=utf-8"}, 0)
	require.NoError(t, err)

	assert.Equal(t, "text/json; charset=utf-8", client.headers["content-type"])
	assert.NotContains(t, client.headers, "Content-Type")
}

func TestPostFormSendsBodyVerbatim(t *testing.T) {
	client := &fakeClient{}
	f, logs := newObserved(client)

	_, err := f.PostForm(context.Background(), mockURL, `{"email":"a@b.c"}`, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, `{"email":"a@b.c"}`, string(client.body))
	assert.Equal(t, 1, logs.FilterMessageSnippet(`Body: `+"\n"+`{"email":"a@b.c"}`).Len())
}

func TestPostFormContentTypeMatchesLogAndWire(t *testing.T) {
	var wire []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wire = r.Header.Values("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var got []trace.Record
	rec := trace.RecorderFunc(func(_ context.Context, r trace.Record) error {
		got = append(got, r)
		return nil
	})
	f, logs := newObserved(httpclient.NewRestyClient(), WithRecorder(rec))

	_, err := f.PostForm(context.Background(), srv.URL, "a=1&b=2", nil, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{"application/x-www-form-urlencoded"}, wire)
	assert.Equal(t, 1, logs.FilterMessageSnippet("* Content-Type: application/x-www-form-urlencoded").Len())
	require.Len(t, got, 1)
	assert.Equal(t, "application/x-www-form-urlencoded", got[0].RequestHeaders["Content-Type"])
	assert.Empty(t, f.Headers())

	_, err = f.PostForm(context.Background(), srv.URL, "a=1", Headers{"Content-Type": "text/plain"}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{"text/plain"}, wire)
	assert.Equal(t, 1, logs.FilterMessageSnippet("* Content-Type: text/plain").Len())
}

func TestTimeoutReturnsAbsenceAndLogsOnce(t *testing.T) {
	client := &fakeClient{err: &url.Error{Op: "Get", URL: mockURL, Err: context.DeadlineExceeded}}
	f, logs := newObserved(client)

	res, err := f.Get(context.Background(), mockURL, "k1=v1", nil, 500*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, res.TimedOut())
	assert.Nil(t, res.Response)

	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "0.5")
	assert.Equal(t, "http get request time out(0.5s)!", errs[0].Message)
}

func TestTransportFaultPropagates(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	f, logs := newObserved(&fakeClient{err: cause})

	res, err := f.PostForm(context.Background(), mockURL, "a=1", nil, 0)
	require.Error(t, err)
	assert.False(t, res.TimedOut())

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, MethodPostForm, terr.Method)
	assert.ErrorIs(t, err, cause)

	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errs, 1)
	assert.NotContains(t, errs[0].Message, "time out")
}

func TestUnsupportedMethodHasNoSideEffects(t *testing.T) {
	client := &fakeClient{}
	f, logs := newObserved(client)

	_, err := f.SendRequest(context.Background(), Method(42), mockURL, "", Headers{"A": "1"}, 0)
	require.ErrorIs(t, err, ErrUnsupportedMethod)

	_, perr := ParseMethod("bogus")
	require.ErrorIs(t, perr, ErrUnsupportedMethod)

	assert.Zero(t, client.calls)
	assert.Zero(t, logs.Len())
	assert.Empty(t, f.Headers())
}

func TestHeadersAccumulateAcrossCalls(t *testing.T) {
	f, logs := newObserved(&fakeClient{})

	_, err := f.Get(context.Background(), mockURL, "", Headers{"X-First": "1"}, 0)
	require.NoError(t, err)
	_, err = f.Get(context.Background(), mockURL, "", Headers{"X-Second": "2"}, 0)
	require.NoError(t, err)
	_, err = f.Get(context.Background(), mockURL, "", nil, 0)
	require.NoError(t, err)

	requests := logs.FilterMessageSnippet("Request: ").All()
	require.Len(t, requests, 3)
	last := requests[2].Message
	assert.Contains(t, last, "* X-First: 1")
	assert.Contains(t, last, "* X-Second: 2")
}

func TestInvalidPayloadRejected(t *testing.T) {
	client := &fakeClient{}
	f, _ := newObserved(client)

	_, err := f.SendRequest(context.Background(), MethodGet, mockURL, 12, nil, 0)
	require.ErrorIs(t, err, ErrInvalidPayload)
	_, err = f.SendRequest(context.Background(), MethodPostForm, mockURL, map[string]string{}, nil, 0)
	require.ErrorIs(t, err, ErrInvalidPayload)
	_, err = f.PostJSON(context.Background(), mockURL, make(chan int), nil, 0)
	require.ErrorIs(t, err, ErrInvalidPayload)
	assert.Zero(t, client.calls)
}

func TestRecorderReceivesTraces(t *testing.T) {
	var got []trace.Record
	rec := trace.RecorderFunc(func(_ context.Context, r trace.Record) error {
		got = append(got, r)
		return nil
	})
	startedAt := time.Date(2024, 5, 1, 10, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	f, _ := newObserved(&fakeClient{}, WithRecorder(rec), WithNow(func() time.Time { return startedAt }))

	_, err := f.Get(context.Background(), mockURL, "k1=v1", Headers{"A": "1"}, 0)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
	assert.True(t, got[0].StartedAt.Equal(startedAt))
	assert.Equal(t, time.UTC, got[0].StartedAt.Location())
	assert.Zero(t, got[0].ElapsedMs)
	assert.Equal(t, "get", got[0].Method)
	assert.Equal(t, "k1=v1", got[0].Query)
	assert.Equal(t, trace.OutcomeSuccess, got[0].Outcome)
	assert.Equal(t, http.StatusOK, got[0].StatusCode)
	assert.Equal(t, map[string]string{"A": "1"}, got[0].RequestHeaders)
}

func TestRecorderFailureDoesNotChangeOutcome(t *testing.T) {
	rec := trace.RecorderFunc(func(context.Context, trace.Record) error { return errors.New("sink down") })
	f, logs := newObserved(&fakeClient{}, WithRecorder(rec))

	res, err := f.Get(context.Background(), mockURL, "", nil, 0)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestFacadeAgainstRestyTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "X-Test-Get", r.Header.Get("X-Test-Method"))
		assert.Equal(t, "v1", r.URL.Query().Get("k1"))
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	f, logs := newObserved(httpclient.NewRestyClient())
	f.SetDefaultHeaders(Headers{"X-Test-Method": "X-Test-Get"})

	res, err := f.Get(context.Background(), srv.URL+"/index", "k1=v1&k2=v2", nil, time.Second)
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.Equal(t, http.StatusOK, res.Response.StatusCode)
	assert.Equal(t, "hello", string(res.Response.Body))
	assert.Equal(t, 1, logs.FilterMessageSnippet("Status Code: 200").Len())
}
