// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

import "fmt"

// Version identifies the SNMP message version on the wire. A thin wrapper
// over Integer per the Open Question decision recorded in SPEC_FULL.md.
type Version int32

const (
	Version1  Version = 0
	Version2c Version = 1
	Version3  Version = 3
)

func (v Version) String() string {
	switch v {
	case Version1:
		return "1"
	case Version2c:
		return "2c"
	case Version3:
		return "3"
	default:
		return fmt.Sprintf("unknown(%d)", int32(v))
	}
}

// Message is the v1/v2c outer envelope (spec.md §3): a SEQUENCE of
// (version, community, pdu). v3 messages use MessageV3 instead (spec.md
// §4.5); the two are kept separate rather than unified into one struct
// with optional fields, matching how distinct the wire shapes are.
type Message struct {
	Version   Version
	Community string
	PDU       PDU
}

// EncodeMessage renders m as a complete v1/v2c SNMP message. TrapV1 is
// always carried through this full envelope (Open Question decision #2 in
// SPEC_FULL.md) — there is no community-less encoding path.
func EncodeMessage(m Message) ([]byte, error) {
	if m.Version != Version1 && m.Version != Version2c {
		return nil, fmt.Errorf("EncodeMessage: version %d: %w", m.Version, ErrUnsupportedVersion)
	}
	// Sequence.body() only knows about Values, not PDUs, so the envelope
	// is assembled directly: version, community, then the PDU's own TLV.
	body := append([]byte{}, EncodeValue(Integer(m.Version))...)
	body = append(body, EncodeValue(OctetString(m.Community))...)
	body = append(body, EncodePDU(m.PDU)...)
	return encodeTLV(TagSequence, body), nil
}

// ParseMessage parses a v1/v2c SNMP message. Unknown versions fail with
// ErrUnsupportedVersion.
func ParseMessage(input []byte) (Message, error) {
	tag, body, rest, err := parseTLV(input)
	if err != nil {
		return Message{}, err
	}
	if tag != TagSequence {
		return Message{}, malformed("ParseMessage: expected outer SEQUENCE, got tag 0x%02x", byte(tag))
	}
	if len(rest) != 0 {
		return Message{}, malformed("ParseMessage: trailing bytes after message")
	}

	v, body, err := DecodeValue(body)
	if err != nil {
		return Message{}, err
	}
	versionInt, ok := v.(Integer)
	if !ok {
		return Message{}, malformed("ParseMessage: expected version Integer")
	}
	version := Version(versionInt)
	if version != Version1 && version != Version2c {
		return Message{}, fmt.Errorf("ParseMessage: version %d: %w", version, ErrUnsupportedVersion)
	}

	v, body, err = DecodeValue(body)
	if err != nil {
		return Message{}, err
	}
	community, ok := v.(OctetString)
	if !ok {
		return Message{}, malformed("ParseMessage: expected community OctetString")
	}

	pdu, body, err := DecodePDU(body)
	if err != nil {
		return Message{}, err
	}
	if len(body) != 0 {
		return Message{}, malformed("ParseMessage: trailing bytes after PDU")
	}

	return Message{Version: version, Community: string(community), PDU: pdu}, nil
}
