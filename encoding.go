// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"errors"
	"strings"

	"github.com/creachadair/jstream/internal/escape"
	"go4.org/mem"
)

// Quote encodes src as a JSON string value, escaping it the same way a
// Builder does by default. Double quotation marks are added.
func Quote(src string) string { return string(escape.Quote(mem.S(src), false)) }

// Unquote decodes a JSON string value the same way Reader.Stream does.
// Double quotation marks are removed, and escape sequences are replaced with
// their unescaped equivalents.
//
// Unquote reports an error if src is not a single quoted string.
func Unquote(src string) ([]byte, error) {
	if len(src) < 2 || !strings.HasPrefix(src, `"`) || !strings.HasSuffix(src, `"`) {
		return nil, errors.New("missing quotations")
	}
	r := NewReader(strings.NewReader(src))
	dec := make([]byte, 0, len(src)-2)
	if err := r.Stream(func(b byte) { dec = append(dec, b) }); err != nil {
		return nil, err
	} else if r.pos != len(src) {
		return nil, errors.New("extra input after string")
	}
	return dec, nil
}
