// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDGeneratorSequence(t *testing.T) {
	g := NewIDGenerator(1)
	require.Equal(t, int32(1), g.Next())
	require.Equal(t, int32(2), g.Next())
	require.Equal(t, int32(3), g.Next())
}

func TestIDGeneratorConcurrentUseYieldsUniqueValues(t *testing.T) {
	g := NewIDGenerator(1)
	const n = 200
	ids := make([]int32, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = g.Next()
		}(i)
	}
	wg.Wait()

	seen := make(map[int32]bool, n)
	for _, id := range ids {
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}
