// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gogama/retryhttp"
	"github.com/gogama/retryhttp/request"
	"github.com/rs/zerolog"
)

type GetCmd struct {
	URL     string        `arg:""                                help:"URL to fetch."`
	Method  string        `short:"X" default:"GET"               help:"HTTP method."`
	Header  []string      `short:"H" sep:"none"                  help:"Request header as 'Name: value'. Repeatable."`
	Data    string        `short:"d"                             help:"Request body."`
	Include bool          `short:"i"                             help:"Print the response status line and headers."`
	Fail    bool          `short:"f"                             help:"Exit non-zero when the final status is 400 or above."`
	Timeout time.Duration `env:"ATTEMPT_TIMEOUT" default:"30s"  help:"Timeout for each individual attempt."`

	out io.Writer
}

func (c *GetCmd) Run(logger *zerolog.Logger, globals *Globals) error {
	policy, err := globals.RetryPolicy()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var body interface{}
	if c.Data != "" {
		body = c.Data
	}
	p, err := request.NewPlanWithContext(ctx, c.Method, c.URL, body)
	if err != nil {
		return err
	}
	for _, h := range c.Header {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return fmt.Errorf("malformed header %q", h)
		}
		p.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	client := &retryhttp.Client{
		HTTPDoer:    &http.Client{Timeout: c.Timeout},
		RetryPolicy: policy,
		Logger:      logger,
	}
	start := time.Now()
	resp, err := client.Do(p)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	logger.Info().
		Str("url", c.URL).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Fetched")

	out := c.out
	if out == nil {
		out = os.Stdout
	}
	if c.Include {
		if _, err = fmt.Fprintf(out, "%s %s\r\n", resp.Proto, resp.Status); err != nil {
			return err
		}
		if err = resp.Header.Write(out); err != nil {
			return err
		}
		if _, err = io.WriteString(out, "\r\n"); err != nil {
			return err
		}
	}
	if _, err = io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if c.Fail && resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: %s", c.Method, c.URL, resp.Status)
	}
	return nil
}
