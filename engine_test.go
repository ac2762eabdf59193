// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewEngineIDFormat(t *testing.T) {
	e, err := NewEngine(0)
	require.NoError(t, err)
	require.Len(t, e.ID, 13)
	require.Equal(t, byte(0x80), e.ID[0]&0x80)
	require.Equal(t, int32(1), e.Boots())
}

func TestNewEngineBootCountIncrements(t *testing.T) {
	e, err := NewEngine(5)
	require.NoError(t, err)
	require.Equal(t, int32(6), e.Boots())
}

func TestIsTimeValidWithinWindow(t *testing.T) {
	e, err := NewEngine(0)
	require.NoError(t, err)
	now := e.Time()
	require.True(t, e.IsTimeValid(e.Boots(), now, DefaultTimeWindow))
	require.True(t, e.IsTimeValid(e.Boots(), now+DefaultTimeWindow, DefaultTimeWindow))
	require.True(t, e.IsTimeValid(e.Boots(), now-DefaultTimeWindow, DefaultTimeWindow))
}

func TestIsTimeValidOutsideWindow(t *testing.T) {
	e, err := NewEngine(0)
	require.NoError(t, err)
	now := e.Time()
	require.False(t, e.IsTimeValid(e.Boots(), now+DefaultTimeWindow+1, DefaultTimeWindow))
}

func TestIsTimeValidRejectsWrongBoots(t *testing.T) {
	e, err := NewEngine(0)
	require.NoError(t, err)
	require.False(t, e.IsTimeValid(e.Boots()+1, e.Time(), DefaultTimeWindow))
}
