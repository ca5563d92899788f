// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package gemini

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/creachadair/jstream"
)

// DefaultBaseURL is the API root used when a Client does not set one.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ErrNoContent is reported when a response has no text to extract.
var ErrNoContent = errors.New("no content in response")

// IsImageModel reports whether the model named by c generates images, which
// changes the response modalities it must be asked for.
func (c *Config) IsImageModel() bool { return strings.Contains(c.Model, "image-generation") }

// EncodeRequest writes the body of a generateContent request asking question
// to b, and returns b.Err. The formatting settings of b are respected, so
// for example the sampling parameters are written with the precision of b.
//
// The system instruction is omitted if it is empty. Callers should enable
// strict escaping on b if question may contain control characters.
func (c *Config) EncodeRequest(b *jstream.Builder, question string) error {
	b.BeginObject()

	b.Key("tools")
	b.BeginArray()
	if c.GoogleSearch {
		emptyTool(b, "googleSearch")
	}
	if c.CodeExecution {
		emptyTool(b, "codeExecution")
	}
	b.EndArray()

	b.Key("generationConfig")
	b.BeginObject()
	b.Key("temperature")
	b.Float(c.Temperature)
	b.Key("topP")
	b.Float(c.TopP)
	b.Key("topK")
	b.Float(c.TopK)
	b.Key("maxOutputTokens")
	b.Int(int64(c.MaxTokens))
	b.Key("responseModalities")
	if c.IsImageModel() {
		jstream.Values(b, []string{"IMAGE", "TEXT"})
	} else {
		jstream.Values(b, []string{"TEXT"})
		b.Key("responseMimeType")
		b.String("text/plain")
	}
	b.EndObject()

	if c.SystemInstruction != "" {
		b.Key("systemInstruction")
		b.BeginObject()
		textParts(b, c.SystemInstruction)
		b.EndObject()
	}

	b.Key("contents")
	b.BeginArray()
	b.BeginObject()
	b.Key("role")
	b.String("user")
	textParts(b, question)
	b.EndObject()
	b.EndArray()

	b.EndObject()
	return b.Err()
}

// emptyTool writes {"name":{}}.
func emptyTool(b *jstream.Builder, name string) {
	b.BeginObject()
	b.Key(name)
	b.BeginObject()
	b.EndObject()
	b.EndObject()
}

// textParts writes "parts":[{"text":text}].
func textParts(b *jstream.Builder, text string) {
	b.Key("parts")
	b.BeginArray()
	b.BeginObject()
	b.Key("text")
	b.String(text)
	b.EndObject()
	b.EndArray()
}

// Endpoint returns the URL of the generateContent method for the model of c,
// relative to base. If base == "", DefaultBaseURL is used.
func (c *Config) Endpoint(base string) string {
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimSuffix(base, "/") + "/models/" + url.PathEscape(c.Model) + ":generateContent"
}

// ExtractText copies the first text value in a generateContent response from
// r to w, decoding escapes as it goes. It reports ErrNoContent if the
// response contains no text.
func ExtractText(r io.Reader, w io.Writer) (int64, error) {
	jr := jstream.NewReader(r)
	if !jr.Find("text") {
		err := jr.Err()
		if errors.Is(err, jstream.ErrKeyNotFound) || err == io.EOF {
			return 0, ErrNoContent
		}
		return 0, fmt.Errorf("reading response: %w", err)
	}
	if jr.Kind() != jstream.String {
		return 0, fmt.Errorf("text is a %v, not a string", jr.Kind())
	}
	return jr.WriteTo(w)
}
