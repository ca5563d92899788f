// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jstream implements a bounded-buffer JSON writer and a streaming
// JSON key finder, for handling JSON in a fixed amount of memory.
//
// # Building
//
// The Builder type writes JSON text into a buffer supplied by the caller.
// The buffer is never grown or reallocated. Construct a builder from a byte
// slice and describe the structure of the output with method calls:
//
//	var buf [256]byte
//	b := jstream.NewBuilder(buf[:])
//	b.BeginObject()
//	b.Key("name")
//	b.String("yak")
//	b.Key("sizes")
//	jstream.Values(b, []int{1, 2, 3})
//	b.EndObject()
//	fmt.Println(b.Text()) // {"name":"yak","sizes":[1,2,3]}
//
// Output that does not fit is dropped, leaving a valid prefix of the intended
// text. Check Err to find out whether that happened:
//
//	if err := b.Err(); err != nil {
//	   log.Fatalf("Output truncated: %v", err)
//	}
//
// # Finding
//
// The Reader type searches a JSON document read from an io.Reader for an
// object member with a given key, descending into nested objects and arrays,
// and streams the value of that member without buffering the document:
//
//	r := jstream.NewReader(rsp.Body)
//	if !r.Find("text") {
//	   log.Fatalf("No text found: %v", r.Err())
//	}
//	if _, err := r.WriteTo(os.Stdout); err != nil {
//	   log.Fatalf("Copy failed: %v", err)
//	}
//
// String values are decoded as they are streamed; other values are delivered
// as written. The Reader does not validate the input, and any text before the
// first "{" or "[" is ignored.
//
// Data that arrive from a non-blocking stream can be adapted with a
// PollSource, which waits for input to become available.
package jstream
