// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"testing"

	"github.com/creachadair/jstream"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `""`},
		{" ", `" "`},
		{"a\t\nb\r", `"a\t\nb\r"`},
		{"\x00\x01\x02", "\"\x00\x01\x02\""},
		{`a "b c\" d"`, `"a \"b c\\\" d\""`},
		{"\xef\xbf\xbd", "\"\xef\xbf\xbd\""},
		{`\ufffd`, `"\\ufffd"`},
		{"/path/to", `"/path/to"`},
	}
	for _, test := range tests {
		got := jstream.Quote(test.input)
		if got != test.want {
			t.Errorf("Input: %#q\nGot:  %#q\nWant: %#q", test.input, got, test.want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
		fail  bool
	}{
		{``, ``, true},                                    // missing quotes
		{`"`, ``, true},                                   // missing quotes
		{`"missing quote`, ``, true},                      // missing quotes
		{`missing quote"`, ``, true},                      // missing quotes
		{`"a" "b"`, ``, true},                             // extra input
		{`"trailing\"`, ``, true},                         // escaped close quote
		{`""`, ``, false},                                 // ok
		{`"ok go"`, "ok go", false},                       // ok
		{`"abc\ndef"`, "abc\ndef", false},                 // C escapes
		{`"\tabc\n"`, "\tabc\n", false},                   // C escapes
		{`"\b\f\n\r\t"`, "\b\f\n\r\t", false},             // C escapes
		{`"\/\q"`, "/q", false},                           // other escapes
		{`"a \u0026 b"`, "a & b", false},                  // short Unicode escape
		{`"\u00e9\u4E2D"`, "\xc3\xa9\xe4\xb8\xad", false}, // multibyte
		{`"\ud83d\ude00!"`, "\U0001F600!", false},         // surrogate pair
		{`"\u"`, "\xef\xbf\xbd", false},                   // incomplete Unicode escape
		{`"\u00"`, "\xef\xbf\xbd", false},                 // incomplete Unicode escape
		{`"\u00x9"`, "\xef\xbf\xbdx9", false},             // invalid Unicode escape
		{`"\u019 "`, "\xef\xbf\xbd ", false},              // invalid Unicode escape
		{`"a\"b"`, `a"b`, false},                          // ok
		{`"a\\b\\cd"`, `a\b\cd`, false},                   // ok
	}

	for _, test := range tests {
		got, err := jstream.Unquote(test.input)
		if err != nil {
			if !test.fail {
				t.Errorf("Unquote(%#q): got %v, want no error", test.input, err)
			} else {
				t.Logf("Unquote(%#q): got expected error: %v", test.input, err)
			}
		} else if test.fail {
			t.Errorf("Unquote(%#q): got nil, want error", test.input)
		}
		if cmp := string(got); cmp != test.want {
			t.Errorf("Unquote(%#q): got %#q, want %#q", test.input, cmp, test.want)
		}
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	for _, s := range []string{"", "plain", "tab\there", `"quoted"`, `back\slash`, "line\r\nbreak", "\xc3\xbcnicode"} {
		got, err := jstream.Unquote(jstream.Quote(s))
		if err != nil {
			t.Errorf("Unquote(Quote(%#q)): unexpected error: %v", s, err)
		} else if string(got) != s {
			t.Errorf("Unquote(Quote(%#q)): got %#q", s, got)
		}
	}
}
