// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestEncodeSignedInt(t *testing.T) {
	tests := []struct {
		name string
		in   int64
		want []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"small positive", 127, []byte{0x7F}},
		{"needs pad byte", 128, []byte{0x00, 0x80}},
		{"negative one byte", -128, []byte{0x80}},
		{"negative two bytes", -129, []byte{0xFF, 0x7F}},
		{"large positive", 256, []byte{0x01, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeSignedInt(tt.in)
			require.Equal(t, tt.want, got)

			back, err := decodeSignedInt(got)
			require.NoError(t, err)
			require.Equal(t, tt.in, back)
		})
	}
}

func TestEncodeUnsigned(t *testing.T) {
	tests := []struct {
		name string
		in   uint64
		want []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"no pad needed", 0x7F, []byte{0x7F}},
		{"pad needed", 0x80, []byte{0x00, 0x80}},
		{"two bytes no pad", 0x1234, []byte{0x12, 0x34}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeUnsigned(tt.in)
			require.Equal(t, tt.want, got)

			back, err := decodeUnsigned(got, 32)
			require.NoError(t, err)
			require.Equal(t, tt.in, back)
		})
	}
}

func TestDecodeUnsignedOverflow(t *testing.T) {
	_, err := decodeUnsigned([]byte{0x01, 0x00, 0x00, 0x00, 0x00}, 32)
	require.ErrorIs(t, err, ErrMalformedEncoding)
}

func TestValueRoundTrip(t *testing.T) {
	values := []Value{
		Integer(0),
		Integer(-1),
		Integer(123456),
		OctetString("public"),
		Null{},
		IPAddress{192, 0, 2, 1},
		Counter32(4294967295),
		Gauge32(42),
		TimeTicks(100),
		Opaque([]byte{0xDE, 0xAD}),
		Counter64(18446744073709551615),
		NoSuchObject{},
		NoSuchInstance{},
		EndOfMibView{},
		Sequence{Integer(1), OctetString("x")},
	}
	for _, v := range values {
		encoded := EncodeValue(v)
		decoded, rest, err := DecodeValue(encoded)
		require.NoError(t, err)
		require.Empty(t, rest)
		if diff := cmp.Diff(v, decoded); diff != "" {
			t.Errorf("round-trip mismatch for %T (-want +got):\n%s", v, diff)
		}
	}
}

func TestDecodeValueRejectsUnknownTag(t *testing.T) {
	_, _, err := DecodeValue([]byte{0x99, 0x00})
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestDecodeValueRejectsTruncatedInput(t *testing.T) {
	_, _, err := DecodeValue([]byte{byte(TagInteger), 0x02, 0x01})
	require.ErrorIs(t, err, ErrMalformedEncoding)
}
