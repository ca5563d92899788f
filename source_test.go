// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/creachadair/jstream"
)

// fakePoller is a Poller fed by a test.
type fakePoller struct {
	mu     sync.Mutex
	data   []byte
	closed bool
}

func (f *fakePoller) Available() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.data) != 0
}

func (f *fakePoller) Read() byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.data[0]
	f.data = f.data[1:]
	return b
}

func (f *fakePoller) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.closed
}

func (f *fakePoller) send(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = append(f.data, s...)
}

func (f *fakePoller) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func TestPollSourceDrain(t *testing.T) {
	p := &fakePoller{data: []byte("abc"), closed: true}
	s := jstream.NewPollSource(context.Background(), p)

	var got []byte
	for {
		b, err := s.ReadByte()
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("ReadByte: unexpected error: %v", err)
		}
		got = append(got, b)
	}
	if string(got) != "abc" {
		t.Errorf("ReadByte: got %q, want abc", got)
	}
}

func TestPollSourceRead(t *testing.T) {
	p := &fakePoller{data: []byte("hello")}
	s := jstream.NewPollSource(context.Background(), p)

	buf := make([]byte, 3)
	if n, err := s.Read(buf); err != nil || n != 3 || string(buf) != "hel" {
		t.Errorf("Read: got %d, %v, %q; want 3, nil, hel", n, err, buf[:n])
	}
	if n, err := s.Read(buf); err != nil || n != 2 || string(buf[:n]) != "lo" {
		t.Errorf("Read: got %d, %v, %q; want 2, nil, lo", n, err, buf[:n])
	}
	if n, err := s.Read(nil); n != 0 || err != nil {
		t.Errorf("Read(nil): got %d, %v; want 0, nil", n, err)
	}
	p.close()
	if n, err := s.Read(buf); n != 0 || err != io.EOF {
		t.Errorf("Read at end: got %d, %v; want 0, EOF", n, err)
	}
}

func TestPollSourceCancel(t *testing.T) {
	p := new(fakePoller) // connected, but never produces anything
	ctx, cancel := context.WithCancel(context.Background())
	s := jstream.NewPollSource(ctx, p)
	s.SetInterval(time.Microsecond)

	time.AfterFunc(10*time.Millisecond, cancel)
	if _, err := s.ReadByte(); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadByte: got %v, want %v", err, context.Canceled)
	}

	r := jstream.NewReader(s)
	if r.Find("k") {
		t.Error("Find: unexpectedly succeeded")
	}
	if err := r.Err(); !errors.Is(err, context.Canceled) {
		t.Errorf("Find: got %v, want %v", err, context.Canceled)
	}
}

func TestPollSourceReader(t *testing.T) {
	p := new(fakePoller)
	s := jstream.NewPollSource(context.Background(), p)
	s.SetInterval(0) // use the default

	// Deliver the document in pieces, as a slow network peer would.
	chunks := []string{`junk {"candidates":[{"con`, `tent":{"parts":[{"te`, `xt":"it wo`, `rks"}]}}]}`}
	go func() {
		defer p.close()
		for _, c := range chunks {
			time.Sleep(2 * time.Millisecond)
			p.send(c)
		}
	}()

	r := jstream.NewReader(s)
	if !r.Find("text") {
		t.Fatalf("Find: %v", r.Err())
	}
	var buf bytes.Buffer
	if _, err := r.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if got := buf.String(); got != "it works" {
		t.Errorf("Value: got %q, want %q", got, "it works")
	}
	if r.Find("text") {
		t.Error("Find after end: unexpectedly succeeded")
	}
}
