// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

import "fmt"

// PDUType identifies which SNMP operation a PDU carries (spec.md §3).
// Grounded on the teacher lineage's PDUType byte enum
// (marshal.go's GetRequest/GetNextRequest/.../GetBulkRequest), extended to
// the full operation family named in spec.md.
type PDUType Tag

const (
	GetRequest     = PDUType(TagGetRequest)
	GetNextRequest = PDUType(TagGetNextRequest)
	GetResponse    = PDUType(TagGetResponse)
	SetRequest     = PDUType(TagSetRequest)
	TrapV1Type     = PDUType(TagTrapV1)
	GetBulkRequest = PDUType(TagGetBulkRequest)
	InformRequest  = PDUType(TagInformRequest)
	TrapV2Type     = PDUType(TagTrapV2)
	ReportType     = PDUType(TagReport)
)

func (t PDUType) String() string {
	switch t {
	case GetRequest:
		return "GetRequest"
	case GetNextRequest:
		return "GetNextRequest"
	case GetResponse:
		return "GetResponse"
	case SetRequest:
		return "SetRequest"
	case TrapV1Type:
		return "TrapV1"
	case GetBulkRequest:
		return "GetBulkRequest"
	case InformRequest:
		return "InformRequest"
	case TrapV2Type:
		return "TrapV2"
	case ReportType:
		return "Report"
	default:
		return fmt.Sprintf("PDUType(0x%02x)", byte(t))
	}
}

// PDU is implemented by both the common request/response shape and
// TrapV1PDU's distinct six-field layout.
type PDU interface {
	pduType() PDUType
	pduBody() []byte
}

// EncodePDU renders p as a complete context-specific constructed TLV.
func EncodePDU(p PDU) []byte {
	return encodeTLV(Tag(p.pduType()), p.pduBody())
}

// GenericPDU covers every PDU variant except TrapV1: request-id, an
// error/error-index pair (or, for GetBulk, non-repeaters/max-repetitions),
// and a VarBindList.
//
// Construction invariant (spec.md §4.3): for Set, VarBind values may be any
// typed Value; for Get/GetNext/GetBulk/Inform requests, values must be
// Null. Validate() checks this.
type GenericPDU struct {
	Type       PDUType
	RequestID  int32
	ErrorIndex int32 // GetBulk: MaxRepetitions
	Error      int32 // GetBulk: NonRepeaters
	VarBinds   VarBindList
}

func (p GenericPDU) pduType() PDUType { return p.Type }

func (p GenericPDU) pduBody() []byte {
	var out []byte
	out = append(out, EncodeValue(Integer(p.RequestID))...)
	out = append(out, EncodeValue(Integer(p.Error))...)
	out = append(out, EncodeValue(Integer(p.ErrorIndex))...)
	out = append(out, p.VarBinds.encode()...)
	return out
}

// NonRepeaters returns the GetBulk non-repeaters count (aliased to the
// Error field). Only meaningful when Type == GetBulkRequest.
func (p GenericPDU) NonRepeaters() int32 { return p.Error }

// MaxRepetitions returns the GetBulk max-repetitions count (aliased to the
// ErrorIndex field). Only meaningful when Type == GetBulkRequest.
func (p GenericPDU) MaxRepetitions() int32 { return p.ErrorIndex }

// ErrorStatus returns the response error-status. Only meaningful when
// Type == GetResponse or Report.
func (p GenericPDU) ErrorStatus() ErrorStatus { return ErrorStatus(p.Error) }

// Validate checks the construction invariants of spec.md §4.3: every
// VarBind must carry a non-nil OID, and for read-only request types the
// value must be Null.
func (p GenericPDU) Validate() error {
	requiresNull := p.Type == GetRequest || p.Type == GetNextRequest ||
		p.Type == GetBulkRequest || p.Type == InformRequest
	for i, vb := range p.VarBinds {
		if len(vb.Name) == 0 {
			return malformed("PDU: VarBind %d has no OID", i)
		}
		if requiresNull {
			if _, ok := vb.Value.(Null); !ok {
				return malformed("PDU: VarBind %d must be Null for %v requests", i, p.Type)
			}
		}
	}
	return nil
}

// NewGetBulkPDU builds a GetBulkRequest PDU with non-repeaters and
// max-repetitions aliased onto the Error/ErrorIndex fields per spec.md
// §4.3. Both must be >= 0.
func NewGetBulkPDU(requestID int32, nonRepeaters, maxRepetitions int32, vbs VarBindList) (GenericPDU, error) {
	if nonRepeaters < 0 || maxRepetitions < 0 {
		return GenericPDU{}, malformed("GetBulk: non-repeaters and max-repetitions must be >= 0")
	}
	return GenericPDU{
		Type:       GetBulkRequest,
		RequestID:  requestID,
		Error:      nonRepeaters,
		ErrorIndex: maxRepetitions,
		VarBinds:   vbs,
	}, nil
}

// TrapV1PDU is the SNMPv1 Trap-PDU (RFC 1157 §4.1.6): distinct from every
// other PDU, it carries enterprise/agent-addr/generic/specific/timestamp
// instead of request-id/error/error-index.
type TrapV1PDU struct {
	Enterprise   ObjectIdentifier
	AgentAddr    IPAddress
	GenericTrap  int32 // 0-6
	SpecificTrap int32
	Timestamp    TimeTicks
	VarBinds     VarBindList
}

func (TrapV1PDU) pduType() PDUType { return TrapV1Type }

func (p TrapV1PDU) pduBody() []byte {
	var out []byte
	out = append(out, EncodeValue(p.Enterprise)...)
	out = append(out, EncodeValue(p.AgentAddr)...)
	out = append(out, EncodeValue(Integer(p.GenericTrap))...)
	out = append(out, EncodeValue(Integer(p.SpecificTrap))...)
	out = append(out, EncodeValue(p.Timestamp)...)
	out = append(out, p.VarBinds.encode()...)
	return out
}

func decodeTrapV1Body(body []byte) (TrapV1PDU, error) {
	var p TrapV1PDU

	v, rest, err := DecodeValue(body)
	if err != nil {
		return p, err
	}
	oid, ok := v.(ObjectIdentifier)
	if !ok {
		return p, malformed("TrapV1: expected enterprise OID")
	}
	p.Enterprise = oid

	v, rest, err = DecodeValue(rest)
	if err != nil {
		return p, err
	}
	addr, ok := v.(IPAddress)
	if !ok {
		return p, malformed("TrapV1: expected agent-addr IPAddress")
	}
	p.AgentAddr = addr

	v, rest, err = DecodeValue(rest)
	if err != nil {
		return p, err
	}
	gt, ok := v.(Integer)
	if !ok {
		return p, malformed("TrapV1: expected generic-trap Integer")
	}
	if gt < 0 || gt > 6 {
		return p, malformed("TrapV1: generic-trap %d out of range [0,6]", gt)
	}
	p.GenericTrap = int32(gt)

	v, rest, err = DecodeValue(rest)
	if err != nil {
		return p, err
	}
	st, ok := v.(Integer)
	if !ok {
		return p, malformed("TrapV1: expected specific-trap Integer")
	}
	p.SpecificTrap = int32(st)

	v, rest, err = DecodeValue(rest)
	if err != nil {
		return p, err
	}
	ts, ok := v.(TimeTicks)
	if !ok {
		return p, malformed("TrapV1: expected timestamp TimeTicks")
	}
	p.Timestamp = ts

	vbl, rest, err := decodeVarBindList(rest)
	if err != nil {
		return p, err
	}
	if len(rest) != 0 {
		return p, malformed("TrapV1: trailing bytes after VarBindList")
	}
	p.VarBinds = vbl
	return p, nil
}

// DecodePDU parses a complete PDU TLV from the front of input, dispatching
// on the tag, and returns whatever bytes follow it.
func DecodePDU(input []byte) (PDU, []byte, error) {
	tag, body, rest, err := parseTLV(input)
	if err != nil {
		return nil, nil, err
	}
	ptype := PDUType(tag)
	if ptype == TrapV1Type {
		p, err := decodeTrapV1Body(body)
		if err != nil {
			return nil, nil, err
		}
		return p, rest, nil
	}
	switch ptype {
	case GetRequest, GetNextRequest, GetResponse, SetRequest,
		GetBulkRequest, InformRequest, TrapV2Type, ReportType:
	default:
		return nil, nil, fmt.Errorf("PDU tag 0x%02x: %w", byte(tag), ErrUnsupportedType)
	}

	requestID, body, err := decodeLeadingInteger(body)
	if err != nil {
		return nil, nil, err
	}
	errVal, body, err := decodeLeadingInteger(body)
	if err != nil {
		return nil, nil, err
	}
	errIdx, body, err := decodeLeadingInteger(body)
	if err != nil {
		return nil, nil, err
	}
	vbl, body, err := decodeVarBindList(body)
	if err != nil {
		return nil, nil, err
	}
	if len(body) != 0 {
		return nil, nil, malformed("PDU: trailing bytes after VarBindList")
	}
	p := GenericPDU{
		Type:       ptype,
		RequestID:  int32(requestID),
		Error:      int32(errVal),
		ErrorIndex: int32(errIdx),
		VarBinds:   vbl,
	}
	return p, rest, nil
}

func decodeLeadingInteger(body []byte) (int64, []byte, error) {
	v, rest, err := DecodeValue(body)
	if err != nil {
		return 0, nil, err
	}
	n, ok := v.(Integer)
	if !ok {
		return 0, nil, malformed("PDU: expected Integer field")
	}
	return int64(n), rest, nil
}
