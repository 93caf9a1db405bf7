// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Config is the JSON or YAML form of a Policy. Every field is optional; an
// absent field keeps the DefaultPolicy value. Embed it in your own
// configuration structs and call Policy to build the retry policy.
//
//	{
//	  "max_attempts": 5,
//	  "initial_delay": "250ms",
//	  "max_delay": "2s",
//	  "exempt_status_codes": [400, 401, 403, 404]
//	}
type Config struct {
	// MaxAttempts is the attempt budget. Negative means unbounded.
	MaxAttempts *int `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
	// InitialDelay is parsed with time.ParseDuration. Example: "1s".
	InitialDelay *string `json:"initial_delay,omitempty" yaml:"initial_delay,omitempty"`
	// MaxDelay is parsed with time.ParseDuration. Example: "5s".
	MaxDelay *string `json:"max_delay,omitempty" yaml:"max_delay,omitempty"`
	// ExemptStatusCodes replaces the default exempt list. An explicit
	// empty list exempts nothing, and is kept when encoded.
	ExemptStatusCodes []int `json:"exempt_status_codes" yaml:"exempt_status_codes"`
}

// ParseConfig decodes a JSON retry configuration.
func ParseConfig(data []byte) (*Config, error) {
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("retryhttp/retry: parse config: %w", err)
	}
	return &c, nil
}

// ParseYAMLConfig decodes a YAML retry configuration. The keys are the
// same as in the JSON form.
func ParseYAMLConfig(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("retryhttp/retry: parse config: %w", err)
	}
	return &c, nil
}

// LoadConfig reads and decodes the retry configuration at path. Files
// ending in .yaml or .yml are decoded as YAML, anything else as JSON.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("retryhttp/retry: read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAMLConfig(data)
	default:
		return ParseConfig(data)
	}
}

// Policy builds a validated Policy from the configuration, starting
// from DefaultPolicy. The returned policy has no hook; set OnRetry on
// it if the client's default logging hook is not wanted.
func (c *Config) Policy() (*Policy, error) {
	p := DefaultPolicy()

	if c.MaxAttempts != nil {
		p.MaxAttempts = *c.MaxAttempts
	}

	if c.InitialDelay != nil {
		d, err := time.ParseDuration(*c.InitialDelay)
		if err != nil {
			return nil, fmt.Errorf("retryhttp/retry: initial_delay: %w", err)
		}
		p.InitialDelay = d
	}

	if c.MaxDelay != nil {
		d, err := time.ParseDuration(*c.MaxDelay)
		if err != nil {
			return nil, fmt.Errorf("retryhttp/retry: max_delay: %w", err)
		}
		p.MaxDelay = d
	}

	if c.ExemptStatusCodes != nil {
		p.ExemptStatusCodes = make([]int, len(c.ExemptStatusCodes))
		copy(p.ExemptStatusCodes, c.ExemptStatusCodes)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// ConfigOf returns the configuration which reproduces p's budget,
// delays and exempt status codes. The exempt list is never nil, so a
// policy which exempts nothing encodes as an empty list. The Decider and OnRetry fields have
// no configuration form and are not represented.
func ConfigOf(p *Policy) *Config {
	maxAttempts := p.MaxAttempts
	initialDelay := p.InitialDelay.String()
	maxDelay := p.MaxDelay.String()
	c := &Config{
		MaxAttempts:  &maxAttempts,
		InitialDelay: &initialDelay,
		MaxDelay:     &maxDelay,
	}
	c.ExemptStatusCodes = make([]int, len(p.ExemptStatusCodes))
	copy(c.ExemptStatusCodes, p.ExemptStatusCodes)
	return c
}
