// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package gemini

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/creachadair/jstream"
	"golang.org/x/time/rate"
)

// DefaultBufferSize is the size of the request buffer used by a Client that
// does not set one.
const DefaultBufferSize = 4096

// maxMessage bounds the length of an error message kept from a failed call.
const maxMessage = 512

// A Client sends questions to the generateContent API.
type Client struct {
	Config *Config

	// HTTP is the client used to send requests. If nil, http.DefaultClient
	// is used.
	HTTP *http.Client

	// If set, Limiter paces requests. Ask waits for it before each request.
	Limiter *rate.Limiter

	// BaseURL is the API root. If empty, DefaultBaseURL is used.
	BaseURL string

	// BufferSize is the capacity of the request buffer. If zero,
	// DefaultBufferSize is used. A question that does not fit fails with an
	// error wrapping jstream.ErrBufferFull.
	BufferSize int
}

// APIError is the concrete type of errors reported for unsuccessful HTTP
// responses.
type APIError struct {
	Status  int    // HTTP status code
	Message string // from the error response, if available
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gemini: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("gemini: %d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// Ask sends question to the model and copies the text of the answer to w as
// it arrives. It returns the number of bytes written to w.
func (c *Client) Ask(ctx context.Context, question string, w io.Writer) (int64, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return 0, err
		}
	}

	size := c.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	b := jstream.NewBuilder(make([]byte, size))
	b.SetStrict(true)
	if err := c.Config.EncodeRequest(b, question); err != nil {
		return 0, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Config.Endpoint(c.BaseURL), bytes.NewReader(b.Bytes()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.Config.APIKey)

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	rsp, err := hc.Do(req)
	if err != nil {
		return 0, err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode < 200 || rsp.StatusCode > 299 {
		return 0, &APIError{Status: rsp.StatusCode, Message: errorMessage(rsp.Body)}
	}
	return ExtractText(rsp.Body, w)
}

// errorMessage returns a prefix of the first "message" string in r, or "".
func errorMessage(r io.Reader) string {
	jr := jstream.NewReader(r)
	if !jr.Find("message") || jr.Kind() != jstream.String {
		return ""
	}
	var msg []byte
	for c := range jr.All() {
		if len(msg) == maxMessage {
			break
		}
		msg = append(msg, c)
	}
	return string(msg)
}
