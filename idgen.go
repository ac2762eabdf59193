// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

import "sync/atomic"

// IDGenerator hands out strictly increasing request-id/msgID values,
// wrapping within int32 range (spec.md §4.10). Safe for concurrent use by
// multiple senders sharing one transport.
type IDGenerator struct {
	next int32
}

// NewIDGenerator returns a generator whose first Next() call returns seed.
func NewIDGenerator(seed int32) *IDGenerator {
	return &IDGenerator{next: seed - 1}
}

// Next returns the next id, masked to stay non-negative (RFC 3416's
// request-id and RFC 3412's msgID are both INTEGER (0..2147483647)).
func (g *IDGenerator) Next() int32 {
	v := atomic.AddInt32(&g.next, 1)
	return v & 0x7fffffff
}
