// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

import "fmt"

// Value is the SMI tagged-value union (spec.md §3, §9's "collapse to a
// tagged value variant" note). Each concrete type below knows its own wire
// tag and how to encode its body; EncodeValue/DecodeValue do the tag
// dispatch in one place instead of an inheritance hierarchy.
type Value interface {
	// Tag returns the BER tag this value encodes under.
	Tag() Tag
	// body returns the BER value octets (without tag/length).
	body() []byte
}

// Integer is a two's-complement, minimum-length signed INTEGER.
type Integer int64

func (Integer) Tag() Tag       { return TagInteger }
func (v Integer) body() []byte { return encodeSignedInt(int64(v)) }

// OctetString is an opaque byte sequence.
type OctetString []byte

func (OctetString) Tag() Tag       { return TagOctetString }
func (v OctetString) body() []byte { return []byte(v) }

// Null carries no content.
type Null struct{}

func (Null) Tag() Tag     { return TagNull }
func (Null) body() []byte { return nil }

// IPAddress is exactly four bytes.
type IPAddress [4]byte

func (IPAddress) Tag() Tag       { return TagIPAddress }
func (v IPAddress) body() []byte { return v[:] }

// Counter32 is a minimum-length unsigned 32-bit application type.
type Counter32 uint32

func (Counter32) Tag() Tag       { return TagCounter32 }
func (v Counter32) body() []byte { return encodeUnsigned(uint64(v)) }

// Gauge32 is a minimum-length unsigned 32-bit application type.
type Gauge32 uint32

func (Gauge32) Tag() Tag       { return TagGauge32 }
func (v Gauge32) body() []byte { return encodeUnsigned(uint64(v)) }

// TimeTicks is hundredths of a second since some epoch, minimum-length
// unsigned 32-bit.
type TimeTicks uint32

func (TimeTicks) Tag() Tag       { return TagTimeTicks }
func (v TimeTicks) body() []byte { return encodeUnsigned(uint64(v)) }

// Opaque wraps an arbitrarily-encoded byte sequence.
type Opaque []byte

func (Opaque) Tag() Tag       { return TagOpaque }
func (v Opaque) body() []byte { return []byte(v) }

// Counter64 is a minimum-length unsigned 64-bit application type.
type Counter64 uint64

func (Counter64) Tag() Tag       { return TagCounter64 }
func (v Counter64) body() []byte { return encodeUnsigned(uint64(v)) }

// NoSuchObject, NoSuchInstance, EndOfMibView are exception markers: they
// carry no content and exist only to be distinguished by tag.
type NoSuchObject struct{}

func (NoSuchObject) Tag() Tag     { return TagNoSuchObject }
func (NoSuchObject) body() []byte { return nil }

type NoSuchInstance struct{}

func (NoSuchInstance) Tag() Tag     { return TagNoSuchInstance }
func (NoSuchInstance) body() []byte { return nil }

type EndOfMibView struct{}

func (EndOfMibView) Tag() Tag     { return TagEndOfMibView }
func (EndOfMibView) body() []byte { return nil }

// Sequence is a constructed value: an ordered list of child values,
// concatenated and wrapped in a SEQUENCE TLV. Used both for SMI-level
// sequences and as the building block for VarBind/PDU/Message framing.
type Sequence []Value

func (Sequence) Tag() Tag { return TagSequence }
func (v Sequence) body() []byte {
	var out []byte
	for _, child := range v {
		out = append(out, EncodeValue(child)...)
	}
	return out
}

// EncodeValue renders v as a complete TLV: tag, length, body.
func EncodeValue(v Value) []byte {
	return encodeTLV(v.Tag(), v.body())
}

// DecodeValue parses a single TLV from the front of input, dispatching on
// the tag to produce a typed Value, and returns whatever bytes follow it.
func DecodeValue(input []byte) (Value, []byte, error) {
	tag, body, rest, err := parseTLV(input)
	if err != nil {
		return nil, nil, err
	}
	v, err := decodeBody(tag, body)
	if err != nil {
		return nil, nil, err
	}
	return v, rest, nil
}

func decodeBody(tag Tag, body []byte) (Value, error) {
	switch tag {
	case TagInteger:
		n, err := decodeSignedInt(body)
		if err != nil {
			return nil, err
		}
		return Integer(n), nil
	case TagOctetString:
		return OctetString(append([]byte(nil), body...)), nil
	case TagNull:
		if len(body) != 0 {
			return nil, malformed("Null: non-empty body")
		}
		return Null{}, nil
	case TagObjectIdentifier:
		return decodeOID(body)
	case TagSequence:
		return decodeSequence(body)
	case TagIPAddress:
		if len(body) != 4 {
			return nil, malformed("IPAddress: expected 4 bytes, got %d", len(body))
		}
		var ip IPAddress
		copy(ip[:], body)
		return ip, nil
	case TagCounter32:
		n, err := decodeUnsigned(body, 32)
		if err != nil {
			return nil, err
		}
		return Counter32(n), nil
	case TagGauge32:
		n, err := decodeUnsigned(body, 32)
		if err != nil {
			return nil, err
		}
		return Gauge32(n), nil
	case TagTimeTicks:
		n, err := decodeUnsigned(body, 32)
		if err != nil {
			return nil, err
		}
		return TimeTicks(n), nil
	case TagOpaque:
		return Opaque(append([]byte(nil), body...)), nil
	case TagCounter64:
		n, err := decodeUnsigned(body, 64)
		if err != nil {
			return nil, err
		}
		return Counter64(n), nil
	case TagNoSuchObject:
		if len(body) != 0 {
			return nil, malformed("NoSuchObject: non-empty body")
		}
		return NoSuchObject{}, nil
	case TagNoSuchInstance:
		if len(body) != 0 {
			return nil, malformed("NoSuchInstance: non-empty body")
		}
		return NoSuchInstance{}, nil
	case TagEndOfMibView:
		if len(body) != 0 {
			return nil, malformed("EndOfMibView: non-empty body")
		}
		return EndOfMibView{}, nil
	default:
		return nil, fmt.Errorf("tag 0x%02x: %w", byte(tag), ErrUnsupportedType)
	}
}

func decodeSequence(body []byte) (Sequence, error) {
	var out Sequence
	for len(body) > 0 {
		v, rest, err := DecodeValue(body)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		body = rest
	}
	return out, nil
}

// encodeSignedInt produces the shortest two's-complement encoding of n:
// no leading 0x00 when bit 7 of the next byte is clear, no leading 0xFF
// when bit 7 of the next byte is set.
func encodeSignedInt(n int64) []byte {
	if n == 0 {
		return []byte{0}
	}
	var buf [8]byte
	neg := n < 0
	u := uint64(n)
	k := 8
	for k > 1 {
		b := byte(u >> uint((k-1)*8))
		next := byte(u >> uint((k-2)*8))
		if neg {
			if b == 0xFF && next&0x80 != 0 {
				k--
				continue
			}
		} else {
			if b == 0x00 && next&0x80 == 0 {
				k--
				continue
			}
		}
		break
	}
	for i := 0; i < k; i++ {
		buf[i] = byte(u >> uint((k-1-i)*8))
	}
	return append([]byte(nil), buf[:k]...)
}

func decodeSignedInt(body []byte) (int64, error) {
	if len(body) == 0 {
		return 0, malformed("Integer: empty body")
	}
	if len(body) > 8 {
		return 0, malformed("Integer: body too long (%d bytes)", len(body))
	}
	n := int64(int8(body[0]))
	for _, b := range body[1:] {
		n = n<<8 | int64(b)
	}
	return n, nil
}

// encodeUnsigned produces the minimum-length unsigned encoding of n,
// prefixing a 0x00 pad byte whenever the high bit of the leading byte
// would otherwise be set (so the value is never misread as negative).
func encodeUnsigned(n uint64) []byte {
	var buf [9]byte
	k := 0
	for v := n; v > 0; v >>= 8 {
		k++
	}
	if k == 0 {
		k = 1
	}
	for i := 0; i < k; i++ {
		buf[8-i] = byte(n >> uint(8*i))
	}
	out := buf[9-k:]
	if out[0]&0x80 != 0 {
		padded := make([]byte, len(out)+1)
		copy(padded[1:], out)
		return padded
	}
	return append([]byte(nil), out...)
}

// decodeUnsigned accumulates body big-endian and rejects values exceeding
// 2^bits-1.
func decodeUnsigned(body []byte, bits int) (uint64, error) {
	if len(body) == 0 {
		return 0, malformed("unsigned: empty body")
	}
	if len(body) > 9 {
		return 0, malformed("unsigned: body too long (%d bytes)", len(body))
	}
	var n uint64
	for _, b := range body {
		if n > (1<<56)-1 {
			return 0, malformed("unsigned: value overflows 64 bits")
		}
		n = n<<8 | uint64(b)
	}
	if bits < 64 {
		max := uint64(1)<<uint(bits) - 1
		if n > max {
			return 0, malformed("unsigned: value %d exceeds %d-bit range", n, bits)
		}
	}
	return n, nil
}
