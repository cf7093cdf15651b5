package facade

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
)

var divLine = strings.Repeat("-", 60)

// block accumulates "* "-prefixed lines that are written as one log entry.
type block struct {
	sb strings.Builder
}

func (b *block) line(text string) {
	b.sb.WriteString("* ")
	b.sb.WriteString(text)
	b.sb.WriteByte('\n')
}

func (b *block) div() { b.line(divLine) }

func (b *block) String() string { return strings.TrimSuffix(b.sb.String(), "\n") }

func (f *Facade) logRequest(desc descriptor) {
	var b block
	b.div()
	b.line("Request: " + desc.url)
	b.div()
	b.line("Headers:")
	for _, k := range desc.headers.sortedKeys() {
		b.line(k + ": " + desc.headers[k])
	}
	b.div()
	if desc.method == MethodGet {
		b.line("Query: " + desc.query)
	} else {
		b.line("Body: \n" + truncateChars(string(desc.body), maxLoggedBody))
	}
	b.div()
	b.line("END")
	f.log.Debug(b.String())
}

func (f *Facade) logResponse(resp *Response) {
	var b block
	b.div()
	b.line("Url: " + resp.URL)
	b.line("Status Code: " + strconv.Itoa(resp.StatusCode))
	b.div()
	b.line("Headers:")
	flat := flattenHeader(resp.Header)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.line(k + ": " + flat[k])
	}
	b.div()
	b.line("Body: \n" + string(resp.Body))
	b.div()
	b.line("END")
	f.log.Debug(b.String())
}

// truncateChars keeps the first max characters of s.
func truncateChars(s string, max int) string {
	if len(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

func flattenHeader(h http.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, vs := range h {
		out[k] = strings.Join(vs, ", ")
	}
	return out
}
