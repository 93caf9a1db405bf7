// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient sorts transport errors into categories such as
// timeout, connection reset and HTTP/2 GOAWAY.
//
// The retrying client retries every transport error regardless of its
// category; the categories exist so retry hooks and event handlers can
// report what kind of failure they saw.
package transient
