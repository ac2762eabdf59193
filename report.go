// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// usmStatsOID builds the OID for one of the six USM error counters defined
// under 1.3.6.1.6.3.15.1.1 (RFC 3414 §5, spec.md §6's report table).
func usmStatsOID(sub uint32) ObjectIdentifier {
	return ObjectIdentifier{1, 3, 6, 1, 6, 3, 15, 1, 1, sub, 0}
}

var (
	oidUnsupportedSecLevels = usmStatsOID(1)
	oidNotInTimeWindows     = usmStatsOID(2)
	oidUnknownUserNames     = usmStatsOID(3)
	oidUnknownEngineIDs     = usmStatsOID(4)
	oidWrongDigests         = usmStatsOID(5)
	oidDecryptionErrors     = usmStatsOID(6)
)

// usmStatsCounters holds the six free-running USM error counters an agent
// exposes and increments as it rejects malformed or unauthenticated
// requests (spec.md §6).
type usmStatsCounters struct {
	unsupportedSecLevels uint32
	notInTimeWindows     uint32
	unknownUserNames     uint32
	unknownEngineIDs     uint32
	wrongDigests         uint32
	decryptionErrors     uint32
}

func (c *usmStatsCounters) bump(counter *uint32) uint32 {
	return atomic.AddUint32(counter, 1)
}

// ReportFor builds the Report-PDU VarBind corresponding to cause, bumping
// the matching counter and reading its new value into the VarBind
// (spec.md §6).
func (c *usmStatsCounters) ReportFor(cause error) (VarBind, error) {
	var oid ObjectIdentifier
	var counter *uint32
	switch {
	case errors.Is(cause, ErrUnsupportedSecurityLevel):
		oid, counter = oidUnsupportedSecLevels, &c.unsupportedSecLevels
	case errors.Is(cause, ErrNotInTimeWindow):
		oid, counter = oidNotInTimeWindows, &c.notInTimeWindows
	case errors.Is(cause, ErrUnknownUserName):
		oid, counter = oidUnknownUserNames, &c.unknownUserNames
	case errors.Is(cause, ErrUnknownEngineID):
		oid, counter = oidUnknownEngineIDs, &c.unknownEngineIDs
	case errors.Is(cause, ErrAuthenticationFailure):
		oid, counter = oidWrongDigests, &c.wrongDigests
	case errors.Is(cause, ErrDecryptionError):
		oid, counter = oidDecryptionErrors, &c.decryptionErrors
	default:
		return VarBind{}, &SnmpError{Status: GenErr}
	}
	value := c.bump(counter)
	return VarBind{Name: oid, Value: Counter32(value)}, nil
}

// NewReportPDU builds a Report PDU (spec.md §4.9-adjacent "USM error
// reporting" convention) carrying a single counter VarBind and an empty
// error-status/error-index pair, per RFC 3414 §3.2's reject-with-Report
// behavior.
func NewReportPDU(requestID int32, vb VarBind) GenericPDU {
	return GenericPDU{
		Type:      ReportType,
		RequestID: requestID,
		VarBinds:  VarBindList{vb},
	}
}

// reportMessage wraps cause's counter VarBind in a Report MessageV3 whose
// msgFlags is always FlagReportable alone (the inbound message's flags are
// not consulted), and which carries this engine's own engineID/boots/time
// in its USM params (spec.md §4.7.4: "Outbound responses
// ... use the same engine/boots/time values in the response's USM params").
// Reports are always sent noAuthNoPriv: at the point any of steps 2-7 fail,
// either the peer's identity isn't trusted yet or no key is available to
// protect the response, so RFC 3414 §3.2's reporting convention is to answer
// in the clear.
func (c *usmStatsCounters) reportMessage(eng *Engine, reqID int32, userName string, cause error) (MessageV3, error) {
	vb, err := c.ReportFor(cause)
	if err != nil {
		return MessageV3{}, err
	}
	return MessageV3{
		Header: HeaderData{
			MsgID:         reqID,
			MsgMaxSize:    65507,
			MsgFlags:      FlagReportable,
			SecurityModel: SecurityModelUSM,
		},
		Security: UsmSecurityParameters{
			AuthoritativeEngineID:    eng.ID,
			AuthoritativeEngineBoots: eng.Boots(),
			AuthoritativeEngineTime:  eng.Time(),
			UserName:                 userName,
		},
		ScopedPDU: ScopedPDU{PDU: NewReportPDU(reqID, vb)},
	}, nil
}

// ProcessInboundMessage implements spec.md §4.7.4 steps 2-9, the agent-side
// USM inbound pipeline: engineID/timeliness/user/security-level/
// authentication/privacy checks, each failing into the matching
// usmStats* Report, ending in either a Report to send back or the
// clear ScopedPDU to dispatch to the PDU handler.
//
// A nil report with a nil error means dispatch the returned ScopedPDU. A
// non-nil report means send it back instead of dispatching anything. A
// non-nil error means drop the message silently. It comes from envelope
// parsing (step 1), key localization, digest computation, or step 8,
// decryption, per spec.md §4.7.4 step 8's "failure on malformed
// plaintext ⇒ DecryptionError (drop silently)"; for step 8 failures the
// decryptionErrors counter is still bumped even though no Report is sent.
func (c *usmStatsCounters) ProcessInboundMessage(eng *Engine, users *UserDB, timeWindow int32, input []byte) (scoped *ScopedPDU, report *MessageV3, err error) {
	env, err := parseEnvelopeV3(input)
	if err != nil {
		return nil, nil, err
	}
	sp := env.secParams
	reqID := env.header.MsgID

	// Step 2/3: engineID must be ours (empty engineID is a discovery probe,
	// which is also answered with usmStatsUnknownEngineIDs carrying our
	// parameters).
	if sp.AuthoritativeEngineID == "" || sp.AuthoritativeEngineID != eng.ID {
		msg, err := c.reportMessage(eng, reqID, sp.UserName, ErrUnknownEngineID)
		if err != nil {
			return nil, nil, err
		}
		return nil, &msg, nil
	}

	// Step 4: timeliness.
	if !eng.IsTimeValid(sp.AuthoritativeEngineBoots, sp.AuthoritativeEngineTime, timeWindow) {
		msg, err := c.reportMessage(eng, reqID, sp.UserName, ErrNotInTimeWindow)
		if err != nil {
			return nil, nil, err
		}
		return nil, &msg, nil
	}

	// Step 5: user lookup.
	user, ok := users.Lookup(sp.UserName)
	if !ok {
		msg, err := c.reportMessage(eng, reqID, sp.UserName, ErrUnknownUserName)
		if err != nil {
			return nil, nil, err
		}
		return nil, &msg, nil
	}

	// Step 6: requested security level must not exceed what the user supports.
	level := user.SecurityLevel()
	wantsPriv := env.header.MsgFlags&FlagPriv != 0
	wantsAuth := env.header.MsgFlags&FlagAuth != 0
	if (wantsPriv && level != AuthPriv) || (wantsAuth && level == NoAuthNoPriv) {
		msg, err := c.reportMessage(eng, reqID, sp.UserName, ErrUnsupportedSecurityLevel)
		if err != nil {
			return nil, nil, err
		}
		return nil, &msg, nil
	}

	keys, err := user.Localize(eng.ID)
	if err != nil {
		return nil, nil, err
	}
	defer keys.Zero()

	// Step 7: authentication.
	if wantsAuth {
		ok, err := verifyAuthentic(user.AuthProto, keys.AuthKey, env.raw, env.authOffset, sp.AuthenticationParameters)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			msg, err := c.reportMessage(eng, reqID, sp.UserName, ErrAuthenticationFailure)
			if err != nil {
				return nil, nil, err
			}
			return nil, &msg, nil
		}
	}

	// Step 8: privacy. Failure here is dropped silently, not reported.
	body := env.msgData
	if wantsPriv {
		v, rest, err := DecodeValue(body)
		if err != nil {
			c.bump(&c.decryptionErrors)
			return nil, nil, fmt.Errorf("ProcessInboundMessage: %w", ErrDecryptionError)
		}
		ciphertext, ok := v.(OctetString)
		if !ok {
			c.bump(&c.decryptionErrors)
			return nil, nil, fmt.Errorf("ProcessInboundMessage: %w", ErrDecryptionError)
		}
		body = rest
		plaintext, err := decryptScopedPDU(user.PrivProto, keys.PrivKey, uint32(sp.AuthoritativeEngineBoots), uint32(sp.AuthoritativeEngineTime), sp.PrivacyParameters, []byte(ciphertext))
		if err != nil {
			c.bump(&c.decryptionErrors)
			return nil, nil, err
		}
		body = plaintext
	}

	// Step 9: dispatch.
	out, err := decodeScopedPDU(body)
	if err != nil {
		c.bump(&c.decryptionErrors)
		return nil, nil, fmt.Errorf("ProcessInboundMessage: %w", ErrDecryptionError)
	}
	return &out, nil, nil
}
