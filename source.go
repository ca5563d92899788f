// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"context"
	"io"
	"time"
)

// A Poller is a non-blocking byte stream, such as a serial port or a network
// client whose data arrives a piece at a time.
type Poller interface {
	// Available reports whether a byte can be read without waiting.
	Available() bool

	// Read consumes and returns the next byte. It is only called when
	// Available has reported true.
	Read() byte

	// Connected reports whether more bytes may still arrive.
	Connected() bool
}

// DefaultPollInterval is the time a PollSource waits between checks of its
// Poller, unless changed with SetInterval.
const DefaultPollInterval = time.Millisecond

// A PollSource adapts a Poller to the blocking io.Reader and io.ByteReader
// interfaces used by a Reader. While no data are available, it waits for the
// Poller to produce some, yielding between checks.
type PollSource struct {
	ctx  context.Context
	p    Poller
	wait time.Duration
}

// NewPollSource constructs a PollSource that reads from p until p is
// disconnected and drained, or until ctx ends.
func NewPollSource(ctx context.Context, p Poller) *PollSource {
	return &PollSource{ctx: ctx, p: p, wait: DefaultPollInterval}
}

// SetInterval sets the time s waits between checks of its Poller.
// If d <= 0, DefaultPollInterval is used.
func (s *PollSource) SetInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultPollInterval
	}
	s.wait = d
}

// ReadByte returns the next byte from the Poller, waiting for one to arrive
// if necessary. It reports io.EOF once the Poller is disconnected and has no
// more data, or the error from the context if it ends first.
func (s *PollSource) ReadByte() (byte, error) {
	if err := s.await(); err != nil {
		return 0, err
	}
	return s.p.Read(), nil
}

// Read implements io.Reader. It waits for at least one byte, then returns as
// many as are available without waiting further.
func (s *PollSource) Read(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	if err := s.await(); err != nil {
		return 0, err
	}
	n := 0
	for n < len(data) && s.p.Available() {
		data[n] = s.p.Read()
		n++
	}
	return n, nil
}

func (s *PollSource) await() error {
	var t *time.Timer
	defer func() {
		if t != nil {
			t.Stop()
		}
	}()
	for !s.p.Available() {
		if !s.p.Connected() {
			// The producer may have delivered its last bytes as it disconnected.
			if s.p.Available() {
				return nil
			}
			return io.EOF
		}
		if t == nil {
			t = time.NewTimer(s.wait)
		} else {
			t.Reset(s.wait)
		}
		select {
		case <-s.ctx.Done():
			return s.ctx.Err()
		case <-t.C:
		}
	}
	return nil
}
