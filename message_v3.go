// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

import "fmt"

// MsgFlags carries the three USM-relevant bits of msgFlags (spec.md §4.5):
// authentication, privacy, and whether a Report is expected on failure.
type MsgFlags byte

const (
	FlagAuth       MsgFlags = 0x01
	FlagPriv       MsgFlags = 0x02
	FlagReportable MsgFlags = 0x04
)

// HeaderData is the msgGlobalData SEQUENCE (spec.md §4.5): msgID,
// msgMaxSize, msgFlags, msgSecurityModel.
type HeaderData struct {
	MsgID         int32
	MsgMaxSize    int32
	MsgFlags      MsgFlags
	SecurityModel int32
}

// SecurityModelUSM is the only msgSecurityModel value this module speaks
// (spec.md §4.6).
const SecurityModelUSM = 3

func (h HeaderData) encode() []byte {
	seq := Sequence{
		Integer(h.MsgID),
		Integer(h.MsgMaxSize),
		OctetString{byte(h.MsgFlags)},
		Integer(h.SecurityModel),
	}
	return EncodeValue(seq)
}

func decodeHeaderData(input []byte) (HeaderData, []byte, error) {
	v, rest, err := DecodeValue(input)
	if err != nil {
		return HeaderData{}, nil, err
	}
	seq, ok := v.(Sequence)
	if !ok || len(seq) != 4 {
		return HeaderData{}, nil, malformed("HeaderData: expected 4-element SEQUENCE")
	}
	msgID, ok := seq[0].(Integer)
	if !ok {
		return HeaderData{}, nil, malformed("HeaderData: expected msgID Integer")
	}
	msgMaxSize, ok := seq[1].(Integer)
	if !ok {
		return HeaderData{}, nil, malformed("HeaderData: expected msgMaxSize Integer")
	}
	flagsOS, ok := seq[2].(OctetString)
	if !ok || len(flagsOS) != 1 {
		return HeaderData{}, nil, malformed("HeaderData: expected single-byte msgFlags OCTET STRING")
	}
	secModel, ok := seq[3].(Integer)
	if !ok {
		return HeaderData{}, nil, malformed("HeaderData: expected msgSecurityModel Integer")
	}
	return HeaderData{
		MsgID:         int32(msgID),
		MsgMaxSize:    int32(msgMaxSize),
		MsgFlags:      MsgFlags(flagsOS[0]),
		SecurityModel: int32(secModel),
	}, rest, nil
}

// UsmSecurityParameters is the USM msgSecurityParameters content (spec.md
// §4.6, RFC 3414 §2.4): wrapped in an OCTET STRING inside the outer
// message, but itself a SEQUENCE of six fields.
type UsmSecurityParameters struct {
	AuthoritativeEngineID    string
	AuthoritativeEngineBoots int32
	AuthoritativeEngineTime  int32
	UserName                 string
	AuthenticationParameters []byte
	PrivacyParameters        []byte
}

// encodeOctetString wraps sp's SEQUENCE encoding in the OCTET STRING that
// carries it on the wire, and reports the offset of the
// AuthenticationParameters content within the returned bytes. Encoding the
// prefix fields separately (rather than scanning the result) is what lets
// Seal track that offset arithmetically; decodeUsmSecurityParameters records
// the same offset while parsing for Open.
func (sp UsmSecurityParameters) encodeOctetString() (out []byte, authOffset int) {
	prefix := EncodeValue(OctetString(sp.AuthoritativeEngineID))
	prefix = append(prefix, EncodeValue(Integer(sp.AuthoritativeEngineBoots))...)
	prefix = append(prefix, EncodeValue(Integer(sp.AuthoritativeEngineTime))...)
	prefix = append(prefix, EncodeValue(OctetString(sp.UserName))...)

	authField := encodeTLV(TagOctetString, sp.AuthenticationParameters)
	privField := encodeTLV(TagOctetString, sp.PrivacyParameters)

	inner := append([]byte{}, prefix...)
	inner = append(inner, authField...)
	inner = append(inner, privField...)
	innerTLV := encodeTLV(TagSequence, inner)
	outerTLV := encodeTLV(TagOctetString, innerTLV)

	innerHeaderLen := len(innerTLV) - len(inner)
	outerHeaderLen := len(outerTLV) - len(innerTLV)
	authContentOffset := outerHeaderLen + innerHeaderLen + len(prefix) + tlvHeaderLen(len(sp.AuthenticationParameters))
	return outerTLV, authContentOffset
}

func decodeUsmSecurityParameters(wrapped []byte) (sp UsmSecurityParameters, authOffset int, err error) {
	outerTag, innerTLV, outerRest, err := parseTLV(wrapped)
	if err != nil {
		return sp, 0, err
	}
	if outerTag != TagOctetString {
		return sp, 0, malformed("UsmSecurityParameters: expected OCTET STRING wrapper")
	}
	if len(outerRest) != 0 {
		return sp, 0, malformed("UsmSecurityParameters: trailing bytes after wrapper")
	}
	outerHeaderLen := len(wrapped) - len(innerTLV) - len(outerRest)

	tag, inner, rest, err := parseTLV(innerTLV)
	if err != nil {
		return sp, 0, err
	}
	if tag != TagSequence {
		return sp, 0, malformed("UsmSecurityParameters: expected inner SEQUENCE")
	}
	if len(rest) != 0 {
		return sp, 0, malformed("UsmSecurityParameters: trailing bytes after SEQUENCE")
	}
	innerHeaderLen := len(innerTLV) - len(inner) - len(rest)

	v, body, err := DecodeValue(inner)
	if err != nil {
		return sp, 0, err
	}
	engineID, ok := v.(OctetString)
	if !ok {
		return sp, 0, malformed("UsmSecurityParameters: expected engineID OCTET STRING")
	}
	sp.AuthoritativeEngineID = string(engineID)

	v, body, err = DecodeValue(body)
	if err != nil {
		return sp, 0, err
	}
	boots, ok := v.(Integer)
	if !ok {
		return sp, 0, malformed("UsmSecurityParameters: expected engineBoots Integer")
	}
	sp.AuthoritativeEngineBoots = int32(boots)

	v, body, err = DecodeValue(body)
	if err != nil {
		return sp, 0, err
	}
	engTime, ok := v.(Integer)
	if !ok {
		return sp, 0, malformed("UsmSecurityParameters: expected engineTime Integer")
	}
	sp.AuthoritativeEngineTime = int32(engTime)

	v, body, err = DecodeValue(body)
	if err != nil {
		return sp, 0, err
	}
	userName, ok := v.(OctetString)
	if !ok {
		return sp, 0, malformed("UsmSecurityParameters: expected userName OCTET STRING")
	}
	sp.UserName = string(userName)

	prefixLen := len(inner) - len(body)

	authTag, authBody, authRest, err := parseTLV(body)
	if err != nil {
		return sp, 0, err
	}
	if authTag != TagOctetString {
		return sp, 0, malformed("UsmSecurityParameters: expected authParams OCTET STRING")
	}
	authHeaderLen := len(body) - len(authBody) - len(authRest)
	sp.AuthenticationParameters = append([]byte(nil), authBody...)
	body = authRest

	v, body, err = DecodeValue(body)
	if err != nil {
		return sp, 0, err
	}
	privParams, ok := v.(OctetString)
	if !ok {
		return sp, 0, malformed("UsmSecurityParameters: expected privParams OCTET STRING")
	}
	sp.PrivacyParameters = []byte(privParams)
	if len(body) != 0 {
		return sp, 0, malformed("UsmSecurityParameters: trailing bytes")
	}

	authOffset = outerHeaderLen + innerHeaderLen + prefixLen + authHeaderLen
	return sp, authOffset, nil
}

// ScopedPDU is msgData's plaintext form (spec.md §4.5): contextEngineID,
// contextName, and the inner PDU.
type ScopedPDU struct {
	ContextEngineID string
	ContextName     string
	PDU             PDU
}

func (s ScopedPDU) encode() []byte {
	var body []byte
	body = append(body, EncodeValue(OctetString(s.ContextEngineID))...)
	body = append(body, EncodeValue(OctetString(s.ContextName))...)
	body = append(body, EncodePDU(s.PDU)...)
	return encodeTLV(TagSequence, body)
}

// decodeScopedPDU parses the ScopedPDU SEQUENCE at the front of input and
// ignores anything after it. A decrypted DES payload carries zero-pad bytes
// appended past the SEQUENCE's declared length (spec.md §4.7.3); rather than
// rejecting those as trailing bytes, the SEQUENCE's own TLV length is the
// authority on where the content ends (teacher's decryptPacket: "packet =
// packet[:cursor+tlength]").
func decodeScopedPDU(input []byte) (ScopedPDU, error) {
	tag, body, _, err := parseTLV(input)
	if err != nil {
		return ScopedPDU{}, err
	}
	if tag != TagSequence {
		return ScopedPDU{}, malformed("ScopedPDU: expected SEQUENCE, got tag 0x%02x", byte(tag))
	}

	v, body, err := DecodeValue(body)
	if err != nil {
		return ScopedPDU{}, err
	}
	ctxEngine, ok := v.(OctetString)
	if !ok {
		return ScopedPDU{}, malformed("ScopedPDU: expected contextEngineID OCTET STRING")
	}

	v, body, err = DecodeValue(body)
	if err != nil {
		return ScopedPDU{}, err
	}
	ctxName, ok := v.(OctetString)
	if !ok {
		return ScopedPDU{}, malformed("ScopedPDU: expected contextName OCTET STRING")
	}

	pdu, body, err := DecodePDU(body)
	if err != nil {
		return ScopedPDU{}, err
	}
	if len(body) != 0 {
		return ScopedPDU{}, malformed("ScopedPDU: trailing bytes after PDU")
	}
	return ScopedPDU{ContextEngineID: string(ctxEngine), ContextName: string(ctxName), PDU: pdu}, nil
}

// MessageV3 is the full v3 envelope (spec.md §4.5): version, HeaderData,
// USM security parameters, and a scoped PDU that may be carried encrypted.
type MessageV3 struct {
	Header    HeaderData
	Security  UsmSecurityParameters
	ScopedPDU ScopedPDU
}

// SealMessageV3 assembles the wire bytes for m, applying privacy and/or
// authentication as directed by m.Header.MsgFlags (spec.md §4.5's encoding
// order):
//
//  1. encode the scoped PDU
//  2. if privacy is active, encrypt it with privKey, replacing msgData
//  3. encode USM security-parameters with a zeroed auth-params slot if
//     auth is active
//  4. assemble the outer SEQUENCE (version, header, security params, msgData)
//  5. if auth is active, compute the HMAC over the whole message and patch
//     it into the auth-params slot in place — the offset is tracked
//     arithmetically from step 3, never searched for.
func SealMessageV3(m MessageV3, authProto AuthProtocol, authKey []byte, privProto PrivProtocol, privKey []byte) ([]byte, error) {
	scoped := m.ScopedPDU.encode()

	var msgData []byte
	if m.Header.MsgFlags&FlagPriv != 0 {
		salt, err := generateSalt(privProto)
		if err != nil {
			return nil, err
		}
		ciphertext, err := encryptScopedPDU(privProto, privKey, uint32(m.Security.AuthoritativeEngineBoots), uint32(m.Security.AuthoritativeEngineTime), salt, scoped)
		if err != nil {
			return nil, err
		}
		m.Security.PrivacyParameters = salt
		msgData = EncodeValue(OctetString(ciphertext))
	} else {
		m.Security.PrivacyParameters = nil
		msgData = scoped
	}

	authActive := m.Header.MsgFlags&FlagAuth != 0
	if authActive {
		m.Security.AuthenticationParameters = make([]byte, authProto.macLen())
	} else {
		m.Security.AuthenticationParameters = nil
	}
	secParamBytes, authOffsetInSecParams := m.Security.encodeOctetString()

	prefix := append([]byte{}, EncodeValue(Integer(Version3))...)
	prefix = append(prefix, m.Header.encode()...)

	body := append([]byte{}, prefix...)
	body = append(body, secParamBytes...)
	body = append(body, msgData...)
	out := encodeTLV(TagSequence, body)

	if authActive {
		headerLen := len(out) - len(body)
		authOffset := headerLen + len(prefix) + authOffsetInSecParams
		if err := authenticateInPlace(authProto, authKey, out, authOffset); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// envelopeV3 is the result of parsing a v3 message up to, but not including,
// decoding msgData: version and framing are validated, USM security
// parameters are fully decoded, and the auth-params offset is known, but
// msgData is returned as raw bytes (still the encryptedPDU OCTET STRING when
// FlagPriv is set) because decrypting it requires a per-user key that can
// only be resolved after inspecting secParams.UserName.
type envelopeV3 struct {
	header     HeaderData
	secParams  UsmSecurityParameters
	authOffset int
	raw        []byte
	msgData    []byte
}

// parseEnvelopeV3 performs the shared prefix of message parsing used by both
// OpenMessageV3 (which knows its privKey up front) and ProcessInboundMessage
// (which must look the user up first, per spec.md §4.7.4 steps 1-5 preceding
// the decrypt in step 8).
func parseEnvelopeV3(input []byte) (envelopeV3, error) {
	tag, body, rest, err := parseTLV(input)
	if err != nil {
		return envelopeV3{}, err
	}
	if tag != TagSequence {
		return envelopeV3{}, malformed("OpenMessageV3: expected outer SEQUENCE")
	}
	if len(rest) != 0 {
		return envelopeV3{}, malformed("OpenMessageV3: trailing bytes after message")
	}
	raw := append([]byte(nil), input[:len(input)-len(rest)]...)

	v, body, err := DecodeValue(body)
	if err != nil {
		return envelopeV3{}, err
	}
	versionInt, ok := v.(Integer)
	if !ok || Version(versionInt) != Version3 {
		return envelopeV3{}, fmt.Errorf("OpenMessageV3: expected version 3: %w", ErrUnsupportedVersion)
	}

	header, body, err := decodeHeaderData(body)
	if err != nil {
		return envelopeV3{}, err
	}

	headerLen := len(raw) - len(body)
	_, secParamsTLVLen, err := peekTLVLen(body)
	if err != nil {
		return envelopeV3{}, err
	}
	secParams, authOffsetInSecParams, err := decodeUsmSecurityParameters(body[:secParamsTLVLen])
	if err != nil {
		return envelopeV3{}, err
	}
	authOffset := headerLen + authOffsetInSecParams
	body = body[secParamsTLVLen:]

	return envelopeV3{header: header, secParams: secParams, authOffset: authOffset, raw: raw, msgData: body}, nil
}

// OpenMessageV3 parses a v3 message, returning it along with a copy of the
// raw bytes and the byte-exact offset of the authentication-parameters
// content within them (needed by the caller to re-verify the digest).
func OpenMessageV3(input []byte, privProto PrivProtocol, privKey []byte) (MessageV3, []byte, int, error) {
	env, err := parseEnvelopeV3(input)
	if err != nil {
		return MessageV3{}, nil, 0, err
	}

	var scoped ScopedPDU
	body := env.msgData
	if env.header.MsgFlags&FlagPriv != 0 {
		v, rest, err := DecodeValue(body)
		if err != nil {
			return MessageV3{}, nil, 0, err
		}
		ciphertext, ok := v.(OctetString)
		if !ok {
			return MessageV3{}, nil, 0, malformed("OpenMessageV3: expected encryptedPDU OCTET STRING")
		}
		body = rest
		plaintext, err := decryptScopedPDU(privProto, privKey, uint32(env.secParams.AuthoritativeEngineBoots), uint32(env.secParams.AuthoritativeEngineTime), env.secParams.PrivacyParameters, []byte(ciphertext))
		if err != nil {
			return MessageV3{}, nil, 0, err
		}
		scoped, err = decodeScopedPDU(plaintext)
		if err != nil {
			return MessageV3{}, nil, 0, err
		}
	} else {
		scoped, err = decodeScopedPDU(body)
		if err != nil {
			return MessageV3{}, nil, 0, err
		}
		body = nil
	}
	if len(body) != 0 {
		return MessageV3{}, nil, 0, malformed("OpenMessageV3: trailing bytes after msgData")
	}

	return MessageV3{Header: env.header, Security: env.secParams, ScopedPDU: scoped}, env.raw, env.authOffset, nil
}

// peekTLVLen parses a TLV header at the front of input without consuming
// it, returning the declared value length and the total TLV length
// (header + value).
func peekTLVLen(input []byte) (valueLen int, tlvLen int, err error) {
	_, value, rest, err := parseTLV(input)
	if err != nil {
		return 0, 0, err
	}
	return len(value), len(input) - len(rest), nil
}
