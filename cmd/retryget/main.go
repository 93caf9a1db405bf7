// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gogama/retryhttp/retry"
	"github.com/joho/godotenv"
	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
)

type Globals struct {
	LogLevel     string           `env:"LOG_LEVEL"           enum:"debug,info,warn,error" default:"info" help:"Log level."`
	Config       string           `env:"RETRY_CONFIG"        type:"path"                              help:"Retry policy file, JSON or YAML."`
	MaxAttempts  optionalInt      `env:"RETRY_MAX_ATTEMPTS"                                           help:"Attempt budget. Negative retries until success. Overrides --config (default -1)."`
	InitialDelay optionalDuration `env:"RETRY_INITIAL_DELAY"                                          help:"First backoff delay. Overrides --config (default 1s)."`
	MaxDelay     optionalDuration `env:"RETRY_MAX_DELAY"                                              help:"Backoff ceiling. Overrides --config (default 5s)."`
}

// RetryPolicy resolves the retry policy: the config file if there is one,
// otherwise retry.DefaultPolicy, with every flag that was given applied
// on top.
func (g *Globals) RetryPolicy() (*retry.Policy, error) {
	p := retry.DefaultPolicy()
	if g.Config != "" {
		c, err := retry.LoadConfig(g.Config)
		if err != nil {
			return nil, err
		}
		if p, err = c.Policy(); err != nil {
			return nil, fmt.Errorf("%s: %w", g.Config, err)
		}
	}

	if g.MaxAttempts.Set {
		p.MaxAttempts = g.MaxAttempts.Value
	}
	if g.InitialDelay.Set {
		p.InitialDelay = g.InitialDelay.Value
	}
	if g.MaxDelay.Set {
		p.MaxDelay = g.MaxDelay.Value
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

type CLI struct {
	Globals
	Get    GetCmd    `cmd:"" help:"Fetches a URL, retrying until it succeeds."`
	Policy PolicyCmd `cmd:"" help:"Prints the effective retry policy as JSON."`
}

func main() {
	// Parse .env file.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatal(err)
	}

	// Parse CLI.
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("retryget"),
		kong.Description("Fetches URLs over HTTP with capped exponential backoff."),
		kong.UsageOnError(),
	)

	// Setup logger.
	logger, err := newLogger(colorable.NewColorableStderr(), cli.Globals.LogLevel)
	if err != nil {
		log.Fatal(err)
	}

	// Run the CLI.
	err = ctx.Run(&logger, &cli.Globals)
	ctx.FatalIfErrorf(err)
}

func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("failed to parse log level: %w", err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}
