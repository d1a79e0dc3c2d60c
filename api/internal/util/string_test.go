package util

import "testing"

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  \n```json\n{}\n```  ", "{}"},
		{"", ""},
	}
	for _, c := range cases {
		if got := StripCodeFences(c.in); got != c.want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestClampRunes(t *testing.T) {
	if got := ClampRunes("hello", 10); got != "hello" {
		t.Errorf("Expected unmodified string, got %q", got)
	}
	if got := ClampRunes("hello", 3); got != "hel" {
		t.Errorf("Expected 'hel', got %q", got)
	}
	// Rune-safe, not byte-safe
	if got := ClampRunes("مرحبا", 2); got != "مر" {
		t.Errorf("Expected 'مر', got %q", got)
	}
}
