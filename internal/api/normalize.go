package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// DetailKind tags the shape of a server "detail" field.
type DetailKind int

const (
	DetailAbsent DetailKind = iota
	DetailString
	DetailStructured
)

func (k DetailKind) String() string {
	switch k {
	case DetailString:
		return "string"
	case DetailStructured:
		return "structured"
	default:
		return "absent"
	}
}

// Detail is the server-provided "detail" of a response body: a plain string,
// any other JSON value re-encoded compactly by stringifyJSON, or absent.
type Detail struct {
	Kind DetailKind
	Text string
	Raw  json.RawMessage
}

// String renders the detail the way it is surfaced as an error message.
func (d Detail) String() string {
	switch d.Kind {
	case DetailString:
		return d.Text
	case DetailStructured:
		return string(d.Raw)
	default:
		return ""
	}
}

// Value returns the detail as a Go value: string, decoded JSON, or nil.
func (d Detail) Value() any {
	switch d.Kind {
	case DetailString:
		return d.Text
	case DetailStructured:
		var v any
		if err := json.Unmarshal(d.Raw, &v); err != nil {
			return string(d.Raw)
		}
		return v
	default:
		return nil
	}
}

// IsZero reports an absent detail, so `omitzero` fields drop it.
func (d Detail) IsZero() bool {
	return d.Kind == DetailAbsent
}

// UnmarshalJSON accepts any JSON value, so a success body whose detail is
// an object or array still decodes.
func (d *Detail) UnmarshalJSON(data []byte) error {
	*d = parseDetail(data)
	return nil
}

// MarshalJSON encodes the detail as its original JSON value.
func (d Detail) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case DetailString:
		return json.Marshal(d.Text)
	case DetailStructured:
		return d.Raw, nil
	default:
		return []byte("null"), nil
	}
}

func parseDetail(raw json.RawMessage) Detail {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Detail{Kind: DetailAbsent}
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return Detail{Kind: DetailString, Text: s}
		}
	}
	text, err := stringifyJSON(raw)
	if err != nil {
		return Detail{Kind: DetailStructured, Raw: append(json.RawMessage(nil), raw...)}
	}
	return Detail{Kind: DetailStructured, Raw: json.RawMessage(text)}
}

// stringifyJSON re-encodes raw compactly with key order kept, numbers in
// their shortest form (1.50 becomes 1.5, 1e3 becomes 1000) and strings
// without HTML escaping. The result matches what a JavaScript client gets
// from JSON.stringify on the parsed value.
func stringifyJSON(raw []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	type frame struct {
		object bool
		n      int
	}
	var (
		buf   bytes.Buffer
		stack []frame
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && (d == '}' || d == ']') {
			stack = stack[:len(stack)-1]
			buf.WriteByte(byte(d))
			continue
		}
		if len(stack) > 0 {
			top := &stack[len(stack)-1]
			switch {
			case top.object && top.n%2 == 1:
				buf.WriteByte(':')
			case top.n > 0:
				buf.WriteByte(',')
			}
			top.n++
		}
		switch v := tok.(type) {
		case json.Delim:
			buf.WriteByte(byte(v))
			stack = append(stack, frame{object: v == '{'})
		case string:
			if err := writeJSONString(&buf, v); err != nil {
				return nil, err
			}
		case json.Number:
			buf.WriteString(jsNumber(string(v)))
		case bool:
			buf.WriteString(strconv.FormatBool(v))
		case nil:
			buf.WriteString("null")
		}
	}
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// jsNumber formats a JSON number literal the way JavaScript prints it:
// shortest round-trip digits, exponent form only below 1e-6 or from 1e21.
func jsNumber(lit string) string {
	f, err := strconv.ParseFloat(lit, 64)
	if math.IsInf(f, 0) {
		return "null"
	}
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return lit
	}
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[0]
		exp = strings.TrimLeft(exp[1:], "0")
		return mant + "e" + string(sign) + exp
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// newAPIError classifies a non-2xx response body. op describes the attempted
// operation and only appears in the synthesized fallback message.
func newAPIError(op string, status int, body []byte, requestID string) *APIError {
	text := strings.TrimSpace(string(body))
	apiErr := &APIError{
		StatusCode: status,
		Body:       text,
		Op:         op,
		RequestID:  requestID,
	}

	if text != "" && json.Valid(body) {
		apiErr.Structured = true
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err == nil {
			apiErr.Detail = parseDetail(fields["detail"])
			switch apiErr.Detail.Kind {
			case DetailString:
				if strings.TrimSpace(apiErr.Detail.Text) != "" {
					apiErr.Message = apiErr.Detail.Text
					return apiErr
				}
			case DetailStructured:
				apiErr.Message = string(apiErr.Detail.Raw)
				return apiErr
			}
			var message string
			if raw, ok := fields["message"]; ok && json.Unmarshal(raw, &message) == nil && strings.TrimSpace(message) != "" {
				apiErr.Message = message
				return apiErr
			}
		}
	}

	if text != "" {
		apiErr.Message = text
		return apiErr
	}
	apiErr.Message = fmt.Sprintf("failed to %s: request failed with status %d", op, status)
	return apiErr
}

// CanonicalizeIDs fills a missing or null "id" on each record from the first
// populated alias field. raw may be a single object or an array; anything
// else is returned as is. Records that already carry an id are untouched,
// so applying it twice yields the same bytes as applying it once.
func CanonicalizeIDs(raw json.RawMessage, aliases ...string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(aliases) == 0 || len(trimmed) == 0 {
		return raw, nil
	}

	switch trimmed[0] {
	case '{':
		var rec map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return nil, err
		}
		if !canonicalizeRecord(rec, aliases) {
			return raw, nil
		}
		return json.Marshal(rec)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		changed := false
		for i, item := range items {
			item = bytes.TrimSpace(item)
			if len(item) == 0 || item[0] != '{' {
				continue
			}
			var rec map[string]json.RawMessage
			if err := json.Unmarshal(item, &rec); err != nil {
				return nil, err
			}
			if !canonicalizeRecord(rec, aliases) {
				continue
			}
			out, err := json.Marshal(rec)
			if err != nil {
				return nil, err
			}
			items[i] = out
			changed = true
		}
		if !changed {
			return raw, nil
		}
		return json.Marshal(items)
	default:
		return raw, nil
	}
}

func canonicalizeRecord(rec map[string]json.RawMessage, aliases []string) bool {
	if present(rec["id"]) {
		return false
	}
	for _, alias := range aliases {
		if v := rec[alias]; present(v) {
			rec["id"] = v
			return true
		}
	}
	return false
}

func present(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && !bytes.Equal(v, []byte("null"))
}

// canonicalizeEnvelope applies CanonicalizeIDs to one field of a JSON object
// body. Bodies that are not objects, or lack the field, pass through.
func canonicalizeEnvelope(body []byte, field string, aliases []string) ([]byte, error) {
	if len(aliases) == 0 || field == "" {
		return body, nil
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return body, nil
	}
	records, ok := env[field]
	if !ok {
		return body, nil
	}
	normalized, err := CanonicalizeIDs(records, aliases...)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(normalized, records) {
		return body, nil
	}
	env[field] = normalized
	return json.Marshal(env)
}
