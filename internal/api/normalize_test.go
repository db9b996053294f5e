package api

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"
)

func TestNewAPIError_MessagePriority(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		body           string
		wantMessage    string
		wantKind       DetailKind
		wantStructured bool
	}{
		{
			name:           "string detail wins over message",
			status:         400,
			body:           `{"detail":"Tax name already exists","message":"ignored"}`,
			wantMessage:    "Tax name already exists",
			wantKind:       DetailString,
			wantStructured: true,
		},
		{
			name:           "array detail is stringified",
			status:         422,
			body:           `{"detail":[{"msg":"field required"}]}`,
			wantMessage:    `[{"msg":"field required"}]`,
			wantKind:       DetailStructured,
			wantStructured: true,
		},
		{
			name:           "object detail keeps key order and drops whitespace",
			status:         422,
			body:           `{"detail": {"zeta": 1, "alpha": [1, 2]}, "message": "ignored"}`,
			wantMessage:    `{"zeta":1,"alpha":[1,2]}`,
			wantKind:       DetailStructured,
			wantStructured: true,
		},
		{
			name:           "message used without detail",
			status:         403,
			body:           `{"message":"Forbidden for this store"}`,
			wantMessage:    "Forbidden for this store",
			wantKind:       DetailAbsent,
			wantStructured: true,
		},
		{
			name:           "blank string detail falls through to message",
			status:         400,
			body:           `{"detail":"  ","message":"Bad input"}`,
			wantMessage:    "Bad input",
			wantKind:       DetailString,
			wantStructured: true,
		},
		{
			name:           "null detail is absent",
			status:         400,
			body:           `{"detail":null,"message":"Bad input"}`,
			wantMessage:    "Bad input",
			wantKind:       DetailAbsent,
			wantStructured: true,
		},
		{
			name:           "json without detail or message uses raw text",
			status:         500,
			body:           `{"error":"boom"}`,
			wantMessage:    `{"error":"boom"}`,
			wantKind:       DetailAbsent,
			wantStructured: true,
		},
		{
			name:           "non-json body uses trimmed text",
			status:         502,
			body:           "  <html>Bad Gateway</html>\n",
			wantMessage:    "<html>Bad Gateway</html>",
			wantKind:       DetailAbsent,
			wantStructured: false,
		},
		{
			name:           "empty body synthesizes message",
			status:         500,
			body:           "",
			wantMessage:    "failed to fetch taxes: request failed with status 500",
			wantKind:       DetailAbsent,
			wantStructured: false,
		},
		{
			name:           "whitespace body synthesizes message",
			status:         404,
			body:           "  \n",
			wantMessage:    "failed to fetch taxes: request failed with status 404",
			wantKind:       DetailAbsent,
			wantStructured: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newAPIError("fetch taxes", tt.status, []byte(tt.body), "")
			if err.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMessage)
			}
			if err.Detail.Kind != tt.wantKind {
				t.Errorf("Detail.Kind = %s, want %s", err.Detail.Kind, tt.wantKind)
			}
			if err.Structured != tt.wantStructured {
				t.Errorf("Structured = %v, want %v", err.Structured, tt.wantStructured)
			}
			if err.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.status)
			}
			if !strings.Contains(err.Error(), tt.wantMessage) {
				t.Errorf("Error() = %q does not include message", err.Error())
			}
		})
	}
}

func TestNewAPIError_EmptyBodyMentionsStatus(t *testing.T) {
	for _, status := range []int{400, 401, 404, 409, 500, 503} {
		err := newAPIError("update tax", status, nil, "")
		if !strings.Contains(err.Message, strconv.Itoa(status)) {
			t.Errorf("status %d: message %q lacks status code", status, err.Message)
		}
	}
}

func TestDetail_Value(t *testing.T) {
	d := parseDetail(json.RawMessage(`[{"msg":"field required","loc":["body","name"]}]`))
	v, ok := d.Value().([]any)
	if !ok || len(v) != 1 {
		t.Fatalf("Value() = %#v", d.Value())
	}

	s := parseDetail(json.RawMessage(`"nope"`))
	if s.Value() != "nope" || s.String() != "nope" {
		t.Errorf("string detail = %#v", s)
	}

	n := parseDetail(json.RawMessage(`42`))
	if n.Kind != DetailStructured || n.String() != "42" {
		t.Errorf("numeric detail = %#v", n)
	}

	if parseDetail(nil).Value() != nil {
		t.Error("absent detail should have nil value")
	}

	out, err := json.Marshal(map[string]Detail{"detail": d})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"detail":[{"msg":"field required","loc":["body","name"]}]}` {
		t.Errorf("MarshalJSON = %s", out)
	}
}

func TestCanonicalizeIDs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		aliases []string
		want    string
	}{
		{
			name:    "alias populates id",
			input:   `{"tax_id":5,"tax_name":"GST"}`,
			aliases: []string{"tax_id"},
			want:    `{"id":5,"tax_id":5,"tax_name":"GST"}`,
		},
		{
			name:    "existing id is kept",
			input:   `{"id":9,"tax_id":5}`,
			aliases: []string{"tax_id"},
			want:    `{"id":9,"tax_id":5}`,
		},
		{
			name:    "null id is replaced",
			input:   `{"id":null,"delivery_charge_id":"12"}`,
			aliases: []string{"delivery_charge_id"},
			want:    `{"delivery_charge_id":"12","id":"12"}`,
		},
		{
			name:    "null alias is ignored",
			input:   `{"tax_id":null}`,
			aliases: []string{"tax_id"},
			want:    `{"tax_id":null}`,
		},
		{
			name:    "arrays are handled element-wise",
			input:   `[{"tax_id":1},{"id":2},"x",{"tax_id":3}]`,
			aliases: []string{"tax_id"},
			want:    `[{"id":1,"tax_id":1},{"id":2},"x",{"id":3,"tax_id":3}]`,
		},
		{
			name:    "first populated alias wins",
			input:   `{"a":null,"b":7,"c":8}`,
			aliases: []string{"a", "b", "c"},
			want:    `{"a":null,"b":7,"c":8,"id":7}`,
		},
		{
			name:    "scalars pass through",
			input:   `"hello"`,
			aliases: []string{"tax_id"},
			want:    `"hello"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once, err := CanonicalizeIDs(json.RawMessage(tt.input), tt.aliases...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertJSONEqual(t, tt.want, string(once))

			twice, err := CanonicalizeIDs(once, tt.aliases...)
			if err != nil {
				t.Fatalf("unexpected error on second pass: %v", err)
			}
			if string(twice) != string(once) {
				t.Errorf("not idempotent: once=%s twice=%s", once, twice)
			}
		})
	}
}

func TestCanonicalizeIDs_UnchangedInputIsReturnedAsIs(t *testing.T) {
	in := json.RawMessage(`{ "id" : 1, "tax_id" : 2 }`)
	out, err := CanonicalizeIDs(in, "tax_id")
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != string(in) {
		t.Errorf("expected untouched bytes, got %s", out)
	}
}

func TestCanonicalizeEnvelope(t *testing.T) {
	body := []byte(`{"detail":"ok","total":1,"data":[{"tax_id":5}]}`)
	out, err := canonicalizeEnvelope(body, "data", []string{"tax_id"})
	if err != nil {
		t.Fatal(err)
	}
	assertJSONEqual(t, `{"detail":"ok","total":1,"data":[{"id":5,"tax_id":5}]}`, string(out))

	same, err := canonicalizeEnvelope([]byte(`[1,2]`), "data", []string{"tax_id"})
	if err != nil || string(same) != `[1,2]` {
		t.Errorf("non-object body should pass through, got %s, %v", same, err)
	}
}

func assertJSONEqual(t *testing.T, want, got string) {
	t.Helper()
	var w, g any
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("bad want JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(got), &g); err != nil {
		t.Fatalf("bad got JSON %q: %v", got, err)
	}
	wb, _ := json.Marshal(w)
	gb, _ := json.Marshal(g)
	if string(wb) != string(gb) {
		t.Errorf("JSON mismatch\nwant: %s\n got: %s", wb, gb)
	}
}

func TestStringifyJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"zeta": 1, "alpha": [1, 2]}`, `{"zeta":1,"alpha":[1,2]}`},
		{`{"amount": 1.50, "big": 1e3, "neg": -0, "tiny": 2E-7}`, `{"amount":1.5,"big":1000,"neg":0,"tiny":2e-7}`},
		{`[1e21, 123456789012345678901234]`, `[1e+21,1.2345678901234568e+23]`},
		{`{"html": "<b>&</b>", "quote": "a\"b", "nl": "x\ny"}`, `{"html":"<b>&</b>","quote":"a\"b","nl":"x\ny"}`},
		{`{"u": "é"}`, `{"u":"é"}`},
		{`[true, false, null, {}, []]`, `[true,false,null,{},[]]`},
		{`42.0`, `42`},
	}

	for _, tt := range tests {
		got, err := stringifyJSON([]byte(tt.raw))
		if err != nil {
			t.Errorf("%s: %v", tt.raw, err)
			continue
		}
		if string(got) != tt.want {
			t.Errorf("%s: got %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestNewAPIError_StructuredDetailNormalizesNumbers(t *testing.T) {
	err := newAPIError("create tax", 422, []byte(`{"detail": {"percentage": 100.0, "max": 1.50}}`), "")
	if err.Message != `{"percentage":100,"max":1.5}` {
		t.Errorf("Message = %s", err.Message)
	}
}
