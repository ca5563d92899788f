// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func init() { log.SetOutput(io.Discard) }

func TestRun(t *testing.T) {
	const doc = `{"a":{"b":[1,{"name":"Frank \"Lloyd\" Wright"}]},"n":1.5e3,"o":{"x":[true]},"t":null}`

	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatalf("Write input: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		stdin    string
		wantCode int
		wantOut  string
	}{
		{"String", []string{"-key", "name"}, doc, 0, "Frank \"Lloyd\" Wright\n"},
		{"Number", []string{"-key", "n"}, doc, 0, "1.5e3\n"},
		{"Object", []string{"-key", "o", "-raw"}, doc, 0, `{"x":[true]}`},
		{"Literal", []string{"-key", "t"}, doc, 0, "\n"},
		{"File", []string{"-key", "b", path}, "", 0, `[1,{"name":"Frank \"Lloyd\" Wright"}]` + "\n"},
		{"Dash", []string{"-key", "n", "-"}, doc, 0, "1.5e3\n"},
		{"NotFound", []string{"-key", "missing"}, doc, 1, ""},
		{"TooDeep", []string{"-key", "name", "-depth", "2"}, doc, 1, ""},
		{"NoKey", nil, doc, 2, ""},
		{"TooManyFiles", []string{"-key", "a", path, path}, "", 2, ""},
		{"NoSuchFile", []string{"-key", "a", path + ".missing"}, "", 1, ""},
		{"BadFlag", []string{"-nonesuch"}, doc, 2, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			code := run(tc.args, strings.NewReader(tc.stdin), &out)
			if code != tc.wantCode {
				t.Errorf("run(%q): exit %d, want %d", tc.args, code, tc.wantCode)
			}
			if got := out.String(); got != tc.wantOut {
				t.Errorf("run(%q): output %#q, want %#q", tc.args, got, tc.wantOut)
			}
		})
	}
}
