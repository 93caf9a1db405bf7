// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alecthomas/kong"
)

// optionalInt is an int flag which records whether it was given, so that
// an explicit value equal to the usual default still overrides --config.
type optionalInt struct {
	Value int
	Set   bool
}

func (o *optionalInt) Decode(ctx *kong.DecodeContext) error {
	token, err := ctx.Scan.PopValue("int")
	if err != nil {
		return err
	}
	switch v := token.Value.(type) {
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("expected an integer but got %q", v)
		}
		o.Value = n
	case int:
		o.Value = v
	default:
		return fmt.Errorf("expected an integer but got %v (%T)", token.Value, token.Value)
	}
	o.Set = true
	return nil
}

// optionalDuration is the time.Duration counterpart of optionalInt.
type optionalDuration struct {
	Value time.Duration
	Set   bool
}

func (o *optionalDuration) Decode(ctx *kong.DecodeContext) error {
	token, err := ctx.Scan.PopValue("duration")
	if err != nil {
		return err
	}
	switch v := token.Value.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("expected a duration but got %q: %w", v, err)
		}
		o.Value = d
	case time.Duration:
		o.Value = v
	default:
		return fmt.Errorf("expected a duration but got %v (%T)", token.Value, token.Value)
	}
	o.Set = true
	return nil
}
