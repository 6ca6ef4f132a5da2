package linter

import (
	"encoding/json"
	"testing"

	"github.com/sofmeright/ruleforge/src/rule"
)

func TestRequestEncoding(t *testing.T) {
	req := Request{
		File:   "a.js",
		Source: "var x = 1",
		Rules: map[string]rule.Candidate{
			"semi": {Severity: rule.SeverityError, Options: []rule.Option{{Value: "always"}}},
		},
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round trip: %v", err)
	}

	rules, ok := decoded["rules"].(map[string]any)
	if !ok {
		t.Fatalf("rules missing: %s", data)
	}
	arr, ok := rules["semi"].([]any)
	if !ok || len(arr) != 2 {
		t.Fatalf("semi should encode positionally: %v", rules["semi"])
	}
	if arr[0] != "error" || arr[1] != "always" {
		t.Fatalf("semi = %v", arr)
	}
}

func TestDecodeResponse(t *testing.T) {
	diags, err := DecodeResponse([]byte(`{"diagnostics":[{"rule":"semi","line":3,"message":"missing semicolon"}]}`))
	if err != nil {
		t.Fatalf("DecodeResponse: %v", err)
	}
	if len(diags) != 1 || diags[0].Rule != "semi" || diags[0].Line != 3 {
		t.Fatalf("diagnostics = %v", diags)
	}
}

func TestDecodeResponseInBandError(t *testing.T) {
	if _, err := DecodeResponse([]byte(`{"error":"config invalid"}`)); err == nil {
		t.Fatalf("expected in-band error to surface")
	}
}

func TestDecodeResponseGarbage(t *testing.T) {
	if _, err := DecodeResponse([]byte("Segmentation fault")); err == nil {
		t.Fatalf("expected decode error for non-JSON output")
	}
}

func TestVersionRegexp(t *testing.T) {
	cases := map[string]string{
		"v8.57.0":                   "v8.57.0",
		"eslint version 9.1.0\n":    "9.1.0",
		"ruff 0.4.8 (linux x86_64)": "0.4.8",
		"2.0-beta.1":                "2.0-beta.1",
	}
	for in, want := range cases {
		if got := versionRe.FindString(in); got != want {
			t.Fatalf("versionRe(%q) = %q, want %q", in, got, want)
		}
	}
	if got := versionRe.FindString("no digits here"); got != "" {
		t.Fatalf("versionRe matched %q", got)
	}
}
