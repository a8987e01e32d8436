package grocery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/Apurer/grocery-store-client/internal/domains/items/ports"
)

const maxErrorBody = 64 << 10

// Error describes a failed store call. It matches one of ports.ErrTransport,
// ports.ErrServer or ports.ErrNotFound through errors.Is.
type Error struct {
	Op         string
	Kind       error
	StatusCode int
	Detail     string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func transportError(op string, err error) *Error {
	return &Error{Op: op, Kind: ports.ErrTransport, Err: err}
}

// errorBody covers both FastAPI's {"detail": ...} and RFC 7807 problem documents.
type errorBody struct {
	Title   string          `json:"title"`
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}

func responseError(op string, res *http.Response) *Error {
	kind := ports.ErrServer
	if res.StatusCode == http.StatusNotFound {
		kind = ports.ErrNotFound
	}
	raw, err := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	if err != nil {
		return &Error{Op: op, Kind: kind, StatusCode: res.StatusCode, Detail: res.Status, Err: err}
	}
	return &Error{Op: op, Kind: kind, StatusCode: res.StatusCode, Detail: errorMessage(raw, res.Status)}
}

func errorMessage(raw []byte, fallback string) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return fallback
	}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return truncate(string(raw))
	}
	if detail := detailText(body.Detail); detail != "" {
		if title := strings.TrimSpace(body.Title); title != "" && title != detail {
			return title + ": " + detail
		}
		return detail
	}
	if msg := strings.TrimSpace(body.Message); msg != "" {
		return msg
	}
	if title := strings.TrimSpace(body.Title); title != "" {
		return title
	}
	return fallback
}

// detailText flattens the detail member; FastAPI sends a list of objects on validation errors.
func detailText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return truncate(string(raw))
	}
	return truncate(buf.String())
}

func truncate(s string) string {
	const limit = 512
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
