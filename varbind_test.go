// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarBindListRoundTrip(t *testing.T) {
	vbl := VarBindList{
		{Name: sysDescrOID(t), Value: OctetString("widget")},
		{Name: sysDescrOID(t), Value: Integer(7)},
		{Name: sysDescrOID(t), Value: Null{}},
	}
	encoded := vbl.encode()
	decoded, rest, err := decodeVarBindList(encoded)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, vbl, decoded)
}

func TestVarBindFromSequenceRejectsWrongShape(t *testing.T) {
	_, err := varBindFromSequence(Sequence{Integer(1)})
	require.ErrorIs(t, err, ErrMalformedEncoding)

	_, err = varBindFromSequence(Sequence{Integer(1), Integer(2)})
	require.ErrorIs(t, err, ErrMalformedEncoding)
}

func TestDecodeVarBindListRejectsNonSequenceElement(t *testing.T) {
	outer := Sequence{Integer(1)}
	_, _, err := decodeVarBindList(EncodeValue(outer))
	require.ErrorIs(t, err, ErrMalformedEncoding)
}
