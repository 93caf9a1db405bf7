// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/gogama/retryhttp/retry"
	"github.com/rs/zerolog"
)

type PolicyCmd struct {
	out io.Writer
}

func (c *PolicyCmd) Run(logger *zerolog.Logger, globals *Globals) error {
	policy, err := globals.RetryPolicy()
	if err != nil {
		return err
	}
	logger.Debug().
		Str("config", globals.Config).
		Msg("Resolved retry policy")

	out := c.out
	if out == nil {
		out = os.Stdout
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(retry.ConfigOf(policy))
}
