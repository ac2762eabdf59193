// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMalformedWraps(t *testing.T) {
	err := malformed("bad thing %d", 7)
	require.ErrorIs(t, err, ErrMalformedEncoding)
	require.Contains(t, err.Error(), "bad thing 7")
}

func TestSnmpErrorMessage(t *testing.T) {
	err := &SnmpError{Status: NoSuchName, Index: 2}
	require.Contains(t, err.Error(), "noSuchName")
	require.Contains(t, err.Error(), "2")
}

func TestErrorStatusStringUnknown(t *testing.T) {
	require.Equal(t, "errorStatus(99)", ErrorStatus(99).String())
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrMalformedEncoding, ErrUnsupportedVersion, ErrUnsupportedType,
		ErrCryptoError, ErrAuthenticationFailure, ErrDecryptionError,
		ErrUnknownEngineID, ErrUnknownUserName, ErrUnsupportedSecurityLevel,
		ErrNotInTimeWindow, ErrTimeout, ErrCancelled,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			require.False(t, errors.Is(a, b), "sentinels %d and %d should be distinct", i, j)
		}
	}
}
