// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Program ask sends questions to a Gemini model and prints the answers.
//
// Usage:
//
//	ask [-config path] [-set field=value ...] [-save] [question...]
//
// If question words are given, they are joined into a single question.
// Otherwise each non-empty line of standard input is asked in turn.
//
// Settings are read from a JSON config file (comments allowed), and may be
// changed with -set using the field names of the file. With -save, the
// updated settings are written back to the file. If the file does not
// specify an API key, the GEMINI_API_KEY environment variable is used.
package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/creachadair/jstream/gemini"
	"golang.org/x/time/rate"
)

type setFlags []string

func (s *setFlags) String() string { return strings.Join(*s, ", ") }

func (s *setFlags) Set(v string) error {
	if _, _, ok := strings.Cut(v, "="); !ok {
		return errors.New("want field=value")
	}
	*s = append(*s, v)
	return nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("ask: ")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout))
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "ask.json"
	}
	return filepath.Join(dir, "ask", "config.json")
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) int {
	var sets setFlags
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath(), "Path of the config file")
	save := fs.Bool("save", false, "Save the updated settings to the config file")
	rps := fs.Float64("rps", 0, "Maximum requests per second (0 means no limit)")
	baseURL := fs.String("url", "", "API base URL (default "+gemini.DefaultBaseURL+")")
	fs.Var(&sets, "set", "Change a setting (field=value; repeatable)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Printf("Loading config: %v", err)
		return 1
	}
	for _, s := range sets {
		field, value, _ := strings.Cut(s, "=")
		if err := cfg.Set(field, value); err != nil {
			log.Printf("Setting %s: %v", field, err)
			return 1
		}
	}
	if *save {
		if err := saveConfig(*configPath, cfg); err != nil {
			log.Printf("Saving config: %v", err)
			return 1
		}
		if fs.NArg() == 0 {
			return 0
		}
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		log.Print("No API key: set token in the config file or GEMINI_API_KEY")
		return 1
	}

	c := &gemini.Client{Config: cfg, BaseURL: *baseURL}
	if *rps > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(*rps), 1)
	}

	out := bufio.NewWriter(stdout)
	defer out.Flush()
	ask := func(q string) error {
		if _, err := c.Ask(ctx, q, out); err != nil {
			return err
		}
		out.WriteByte('\n')
		return out.Flush()
	}

	if fs.NArg() != 0 {
		if err := ask(strings.Join(fs.Args(), " ")); err != nil {
			log.Printf("Ask: %v", err)
			return 1
		}
		return 0
	}

	code := 0
	sc := bufio.NewScanner(stdin)
	for sc.Scan() {
		q := strings.TrimSpace(sc.Text())
		if q == "" {
			continue
		}
		if err := ask(q); err != nil {
			if ctx.Err() != nil {
				log.Printf("Interrupted: %v", err)
				return 1
			}
			log.Printf("Ask %q: %v", q, err)
			code = 1
		}
	}
	if err := sc.Err(); err != nil {
		log.Printf("Reading questions: %v", err)
		return 1
	}
	return code
}

// loadConfig reads the config file at path. A missing file yields the
// default settings.
func loadConfig(path string) (*gemini.Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return gemini.DefaultConfig(), nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()
	return gemini.LoadConfig(f)
}

// saveConfig writes cfg to the file at path. The settings are encoded in full
// before the file is replaced, so a failure leaves any existing file intact.
func saveConfig(path string, cfg *gemini.Config) error {
	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) // no-op once renamed
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return os.Rename(f.Name(), path)
}
