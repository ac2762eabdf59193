// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

// BER (Basic Encoding Rules, ITU-T X.690) tag/length/value primitives.
// Definite-length form only: indefinite length (0x80) is rejected, and
// multi-byte tags (low 5 bits of the first byte all set) are rejected as
// unsupported. Everything here is a pure function over byte slices; no I/O.

// Tag is a single-byte BER/SNMP tag. Multi-byte tags are not supported by
// this codec (SNMP never needs them).
type Tag byte

// Universal and context-specific/application tags used by the SMI type
// system and the PDU layer (spec.md §3, §4.1, §4.2).
const (
	TagInteger          Tag = 0x02
	TagOctetString      Tag = 0x04
	TagNull             Tag = 0x05
	TagObjectIdentifier Tag = 0x06
	TagSequence         Tag = 0x30

	TagIPAddress Tag = 0x40
	TagCounter32 Tag = 0x41
	TagGauge32   Tag = 0x42
	TagTimeTicks Tag = 0x43
	TagOpaque    Tag = 0x44
	TagCounter64 Tag = 0x46

	TagNoSuchObject   Tag = 0x80
	TagNoSuchInstance Tag = 0x81
	TagEndOfMibView   Tag = 0x82

	TagGetRequest     Tag = 0xA0
	TagGetNextRequest Tag = 0xA1
	TagGetResponse    Tag = 0xA2
	TagSetRequest     Tag = 0xA3
	TagTrapV1         Tag = 0xA4
	TagGetBulkRequest Tag = 0xA5
	TagInformRequest  Tag = 0xA6
	TagTrapV2         Tag = 0xA7
	TagReport         Tag = 0xA8
)

// encodeTLV emits tag, length (shortest definite form), then value.
func encodeTLV(tag Tag, value []byte) []byte {
	out := make([]byte, 0, len(value)+6)
	out = append(out, byte(tag))
	out = appendLength(out, len(value))
	out = append(out, value...)
	return out
}

// appendLength appends the BER length octets for n using the shortest
// definite-length representation: short form (< 128) is a single byte;
// otherwise long form is 0x80|k followed by k big-endian bytes.
func appendLength(dst []byte, n int) []byte {
	if n < 0 {
		panic("snmpcore: negative length")
	}
	if n < 0x80 {
		return append(dst, byte(n))
	}
	var tmp [8]byte
	k := 0
	for v := n; v > 0; v >>= 8 {
		tmp[k] = byte(v)
		k++
	}
	dst = append(dst, 0x80|byte(k))
	for i := k - 1; i >= 0; i-- {
		dst = append(dst, tmp[i])
	}
	return dst
}

// marshalLength returns the BER length octets for n on their own.
func marshalLength(n int) ([]byte, error) {
	if n < 0 {
		return nil, malformed("negative length %d", n)
	}
	return appendLength(nil, n), nil
}

// parseTag reads a single-byte tag from the front of input. Multi-byte
// tags (low 5 bits all set, the X.690 high-tag-number form) are rejected.
func parseTag(input []byte) (Tag, []byte, error) {
	if len(input) < 1 {
		return 0, nil, malformed("parseTag: empty input")
	}
	if input[0]&0x1F == 0x1F {
		return 0, nil, malformed("parseTag: multi-byte tags are not supported")
	}
	return Tag(input[0]), input[1:], nil
}

// parseLength reads a BER length field (definite form only) from the
// front of input, returning the decoded length and the remaining bytes
// after the length octets. The caller is responsible for checking the
// declared length against len(rest).
func parseLength(input []byte) (int, []byte, error) {
	if len(input) < 1 {
		return 0, nil, malformed("parseLength: empty input")
	}
	first := input[0]
	if first < 0x80 {
		return int(first), input[1:], nil
	}
	if first == 0x80 {
		return 0, nil, malformed("parseLength: indefinite length form is not supported")
	}
	nOctets := int(first & 0x7F)
	if nOctets > 4 {
		return 0, nil, malformed("parseLength: length field too wide (%d octets)", nOctets)
	}
	if len(input) < 1+nOctets {
		return 0, nil, malformed("parseLength: truncated length field")
	}
	n := 0
	for i := 0; i < nOctets; i++ {
		n = n<<8 | int(input[1+i])
	}
	if n < 0 {
		return 0, nil, malformed("parseLength: length overflow")
	}
	return n, input[1+nOctets:], nil
}

// parseTLV reads a full tag-length-value unit from the front of input,
// returning the tag, the value body, and whatever bytes follow it.
func parseTLV(input []byte) (Tag, []byte, []byte, error) {
	tag, rest, err := parseTag(input)
	if err != nil {
		return 0, nil, nil, err
	}
	n, rest, err := parseLength(rest)
	if err != nil {
		return 0, nil, nil, err
	}
	if n > len(rest) {
		return 0, nil, nil, malformed("parseTLV: declared length %d exceeds remaining input (%d)", n, len(rest))
	}
	return tag, rest[:n], rest[n:], nil
}

// tlvHeaderLen returns how many tag and length bytes encodeTLV would put in
// front of a value of valueLen bytes, without building the slice. Used when
// callers need to compute an offset before the bytes are assembled (e.g. the
// v3 auth-params offset).
func tlvHeaderLen(valueLen int) int {
	if valueLen < 0x80 {
		return 2 // tag + 1-byte length
	}
	k := 0
	for v := valueLen; v > 0; v >>= 8 {
		k++
	}
	return 2 + k // tag + length-of-length byte + k length octets
}
