// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

import "context"

//go:generate mockgen -source=transport.go -destination=transport_mock_test.go -package=snmpcore

// RoundTripper sends an encoded message and waits for the matching
// response (spec.md §6). Implementations own the socket, retry, and
// request/response correlation; this module only ever holds one of these,
// never implements it.
type RoundTripper interface {
	SendReceive(ctx context.Context, b []byte) ([]byte, error)
}

// Sender fires an encoded message with no expectation of a reply — used
// for TrapV1/TrapV2/InformRequest notifications sent without waiting
// (spec.md §6).
type Sender interface {
	Send(ctx context.Context, b []byte) error
}
