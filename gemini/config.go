// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package gemini builds requests for the Gemini generateContent API in a
// fixed buffer, and streams the text of its answers without buffering the
// response.
package gemini

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/creachadair/jstream"
	"github.com/goccy/go-json"
	"github.com/tailscale/hujson"
)

// Config holds the settings for a conversation with a model.
type Config struct {
	Model             string  `json:"model"`
	APIKey            string  `json:"token"`
	SystemInstruction string  `json:"systemInstruction,omitempty"`
	MaxTokens         int     `json:"maxTokens"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"TopP"`
	TopK              float64 `json:"TopK"`
	CodeExecution     bool    `json:"codeExecution"`
	GoogleSearch      bool    `json:"googleSearch"`
}

// DefaultConfig returns a Config with the default settings. The APIKey is
// empty and must be filled in by the caller.
func DefaultConfig() *Config {
	return &Config{
		Model:       "gemini-2.0-flash",
		MaxTokens:   100,
		Temperature: 0.7,
		TopP:        0.95,
		TopK:        40,
	}
}

// Set updates the setting named by field from its string representation.
// Boolean settings are enabled by the value "enable" and disabled by
// anything else. Field names match the keys of the JSON encoding; string
// fields also accept a leading underscore.
func (c *Config) Set(field, value string) error {
	switch strings.TrimPrefix(field, "_") {
	case "model":
		c.Model = value
		return nil
	case "token":
		c.APIKey = value
		return nil
	case "systemInstruction":
		c.SystemInstruction = value
		return nil
	}
	switch field {
	case "maxTokens":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", field, err)
		}
		c.MaxTokens = v
	case "temperature", "TopP", "TopK":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", field, err)
		}
		*c.floatField(field) = v
	case "codeExecution":
		c.CodeExecution = value == "enable"
	case "googleSearch":
		c.GoogleSearch = value == "enable"
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

func (c *Config) floatField(name string) *float64 {
	switch name {
	case "temperature":
		return &c.Temperature
	case "TopP":
		return &c.TopP
	}
	return &c.TopK
}

// LoadConfig reads a Config from r. The input is JSON, optionally with
// comments and trailing commas. Settings not mentioned in the input keep
// their default values.
func LoadConfig(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(std, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// configPrecision is the number of decimal places saved for sampling
// parameters.
const configPrecision = 4

// WriteTo writes c to w as indented JSON, in a form LoadConfig accepts.
func (c *Config) WriteTo(w io.Writer) (int64, error) {
	var buf [4096]byte
	b := jstream.NewBuilder(buf[:])
	b.SetPretty(true)
	b.SetStrict(true)
	b.SetPrecision(configPrecision)

	b.BeginObject()
	b.Key("model")
	b.String(c.Model)
	b.Key("token")
	b.String(c.APIKey)
	if c.SystemInstruction != "" {
		b.Key("systemInstruction")
		b.String(c.SystemInstruction)
	}
	b.Key("maxTokens")
	b.Int(int64(c.MaxTokens))
	b.Key("temperature")
	b.Float(c.Temperature)
	b.Key("TopP")
	b.Float(c.TopP)
	b.Key("TopK")
	b.Float(c.TopK)
	b.Key("codeExecution")
	b.Bool(c.CodeExecution)
	b.Key("googleSearch")
	b.Bool(c.GoogleSearch)
	b.EndObject()

	if err := b.Err(); err != nil {
		if errors.Is(err, jstream.ErrBufferFull) {
			return 0, fmt.Errorf("config too large to encode: %w", err)
		}
		return 0, err
	}
	// The terminator slot always has room for the trailing newline.
	n, err := w.Write(append(b.Bytes(), '\n'))
	return int64(n), err
}
