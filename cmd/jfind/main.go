// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Program jfind prints the value of the first member of a JSON document
// with a given key. The document is read from the named file, or from
// standard input, and is not held in memory.
//
// Usage:
//
//	jfind -key name [-raw] [-depth n] [file]
//
// String values are printed with escapes decoded and without quotes; other
// values are printed as they appear in the input. The exit status is 1 if
// the key was not found.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/creachadair/jstream"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("jfind: ")
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("jfind", flag.ContinueOnError)
	key := fs.String("key", "", "Key to search for (required)")
	raw := fs.Bool("raw", false, "Do not add a newline after the value")
	depth := fs.Int("depth", 0, "Maximum nesting depth to search (0 means no limit)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: jfind -key name [options] [file]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *key == "" && !isSet(fs, "key") {
		log.Print("You must provide a -key to search for")
		return 2
	} else if fs.NArg() > 1 {
		log.Print("At most one input file may be given")
		return 2
	}

	in := stdin
	if fs.NArg() == 1 && fs.Arg(0) != "-" {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			log.Printf("Open input: %v", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	r := jstream.NewReader(in)
	r.LimitDepth(*depth)
	if !r.Find(*key) {
		log.Printf("Key %q not found: %v", *key, r.Err())
		return 1
	}
	if r.Kind() == jstream.Literal {
		log.Printf("Warning: the value of %q is a literal (true, false, or null)", *key)
	}

	w := bufio.NewWriter(stdout)
	if _, err := r.WriteTo(w); err != nil {
		log.Printf("Copy value: %v", err)
		return 1
	}
	if !*raw {
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		log.Printf("Write output: %v", err)
		return 1
	}
	return 0
}

// isSet reports whether the flag with the given name was set on the command
// line, even to its default value.
func isSet(fs *flag.FlagSet, name string) (ok bool) {
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			ok = true
		}
	})
	return
}
