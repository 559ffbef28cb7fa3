package repl

import (
	"slices"
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{name: "no call", input: "color: red", cursor: 10},
		{name: "first arg", input: "rgb(", cursor: 4, wantName: "rgb", wantInCall: true},
		{name: "first arg with value", input: "rgb(12", cursor: 6, wantName: "rgb", wantInCall: true},
		{name: "second arg", input: "rgb(12,", cursor: 7, wantName: "rgb", wantIndex: 1, wantInCall: true},
		{name: "third arg", input: "rgb(1, 2, 3", cursor: 11, wantName: "rgb", wantIndex: 2, wantInCall: true},
		{name: "class semicolon", input: "extend: Pad(1px; 2", cursor: 18, wantName: "Pad", wantIndex: 1, wantInCall: true},
		{
			name:       "nested inner",
			input:      "mix(darken(@a, 10%",
			cursor:     18,
			wantName:   "darken",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "nested outer after inner closes",
			input:      "mix(darken(@a, 10%), ",
			cursor:     21,
			wantName:   "mix",
			wantIndex:  1,
			wantInCall: true,
		},
		{name: "closed call", input: "rgb(1, 2, 3)", cursor: 12},
		{name: "bare paren", input: "(1, 2", cursor: 5},
		{name: "hyphenated name", input: "font-x(a", cursor: 8, wantName: "font-x", wantInCall: true},
		{name: "cursor mid input", input: "rgb(1, 2)", cursor: 5, wantName: "rgb", wantInCall: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)
			if got.name != tt.wantName || got.argIndex != tt.wantIndex || got.inCall != tt.wantInCall {
				t.Errorf("detectFunctionCall(%q, %d) = %+v, want {name:%s argIndex:%d inCall:%v}",
					tt.input, tt.cursor, got, tt.wantName, tt.wantIndex, tt.wantInCall)
			}
		})
	}
}

func TestGetSignature(t *testing.T) {
	src := newFakeSource()

	tests := []struct {
		name       string
		call       string
		wantParams []string
		wantSep    string
		wantOK     bool
	}{
		{name: "class", call: "Pad", wantParams: []string{"x", "y"}, wantSep: "; ", wantOK: true},
		{name: "class without params", call: "Box", wantSep: "; ", wantOK: true},
		{name: "builtin", call: "rgba", wantParams: []string{"red", "green", "blue", "alpha"}, wantSep: ", ", wantOK: true},
		{name: "builtin case insensitive", call: "DARKEN", wantParams: []string{"color", "amount"}, wantSep: ", ", wantOK: true},
		{name: "unknown", call: "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, sep, ok := getSignature(src, tt.call)
			if ok != tt.wantOK || sep != tt.wantSep || !slices.Equal(params, tt.wantParams) {
				t.Errorf("getSignature(%q) = (%v, %q, %v), want (%v, %q, %v)",
					tt.call, params, sep, ok, tt.wantParams, tt.wantSep, tt.wantOK)
			}
		})
	}
}

func TestBuiltinParamsCoverFunctions(t *testing.T) {
	for _, name := range []string{"rgb", "hsl", "lighten", "mix", "fade", "spin", "calc"} {
		if _, ok := builtinParams[name]; !ok {
			t.Errorf("builtinParams missing %q", name)
		}
	}
}

func TestRenderSignatureHint(t *testing.T) {
	got := renderSignatureHint("mix", []string{"color1", "color2", "weight"}, ", ", 1)

	for _, part := range []string{"mix", "color1", "color2", "weight", ", "} {
		if !strings.Contains(got, part) {
			t.Errorf("renderSignatureHint() = %q, missing %q", got, part)
		}
	}
}
