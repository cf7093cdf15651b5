package facade

import (
	"fmt"
	"strings"
)

// Method selects which request variant SendRequest issues.
type Method int

const (
	MethodGet Method = iota + 1
	MethodPostForm
	MethodPostJSON
)

// ParseMethod maps a method name to its Method. It accepts the names printed
// by Method.String plus post_data as an alias for post_form.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "get":
		return MethodGet, nil
	case "post_form", "post_data":
		return MethodPostForm, nil
	case "post_json":
		return MethodPostJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMethod, name)
	}
}

// Valid reports whether m is one of the recognized variants.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPostForm, MethodPostJSON:
		return true
	default:
		return false
	}
}

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "get"
	case MethodPostForm:
		return "post_form"
	case MethodPostJSON:
		return "post_json"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// verb is the HTTP verb in lower case, used in log lines.
func (m Method) verb() string {
	if m == MethodGet {
		return "get"
	}
	return "post"
}

// contentType is attached to requests whose headers name no Content-Type.
func (m Method) contentType() string {
	switch m {
	case MethodPostForm:
		return "application/x-www-form-urlencoded"
	case MethodPostJSON:
		return "application/json"
	default:
		return ""
	}
}
