// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Wrap these with fmt.Errorf("...: %w", ErrX) so
// callers can errors.Is against a stable category while still seeing a
// specific message.
var (
	// ErrMalformedEncoding covers truncated input, disallowed BER forms
	// (multi-byte tags, indefinite length), and any other structural
	// violation of X.690 definite-length BER.
	ErrMalformedEncoding = errors.New("snmpcore: malformed encoding")

	// ErrUnsupportedVersion is returned when a message's version field is
	// outside {0, 1, 3}.
	ErrUnsupportedVersion = errors.New("snmpcore: unsupported version")

	// ErrUnsupportedType is returned when a BER tag appears where a known
	// SMI type is required.
	ErrUnsupportedType = errors.New("snmpcore: unsupported type")

	// ErrCryptoError covers key derivation, HMAC, and cipher primitive
	// failures that are not themselves verification failures.
	ErrCryptoError = errors.New("snmpcore: crypto error")

	// ErrAuthenticationFailure is returned when a recomputed HMAC digest
	// does not match the one carried on the wire.
	ErrAuthenticationFailure = errors.New("snmpcore: authentication failure")

	// ErrDecryptionError is returned when a decrypted scoped PDU does not
	// parse as valid BER.
	ErrDecryptionError = errors.New("snmpcore: decryption error")

	// ErrUnknownEngineID is returned when a message's authoritative engine
	// ID does not match the expected one.
	ErrUnknownEngineID = errors.New("snmpcore: unknown engine id")

	// ErrUnknownUserName is returned when a message names a user absent
	// from the user database.
	ErrUnknownUserName = errors.New("snmpcore: unknown user name")

	// ErrUnsupportedSecurityLevel is returned when a message requests an
	// auth/priv combination the named user cannot satisfy.
	ErrUnsupportedSecurityLevel = errors.New("snmpcore: unsupported security level")

	// ErrNotInTimeWindow is returned when a peer's reported engine time
	// falls outside the timeliness window.
	ErrNotInTimeWindow = errors.New("snmpcore: not in time window")

	// ErrTimeout is a transport-boundary control-flow outcome: no response
	// arrived before the caller's deadline.
	ErrTimeout = errors.New("snmpcore: timeout")

	// ErrCancelled is a transport-boundary control-flow outcome: the
	// caller cancelled a pending request/response wait.
	ErrCancelled = errors.New("snmpcore: cancelled")
)

// SnmpError represents an agent-reported error-status in a response PDU
// (RFC 3416 §3), carrying the 1-based VarBind index the status applies to
// (0 when the error is not attributable to a single VarBind).
type SnmpError struct {
	Status ErrorStatus
	Index  int
}

func (e *SnmpError) Error() string {
	return fmt.Sprintf("snmpcore: agent error %s at index %d", e.Status, e.Index)
}

// ErrorStatus enumerates the error-status codes of RFC 3416 §3, including
// the SNMPv2c extensions.
type ErrorStatus int

const (
	NoError             ErrorStatus = 0
	TooBig              ErrorStatus = 1
	NoSuchName          ErrorStatus = 2
	BadValue            ErrorStatus = 3
	ReadOnly            ErrorStatus = 4
	GenErr              ErrorStatus = 5
	NoAccess            ErrorStatus = 6
	WrongType           ErrorStatus = 7
	WrongLength         ErrorStatus = 8
	WrongEncoding       ErrorStatus = 9
	WrongValue          ErrorStatus = 10
	NoCreation          ErrorStatus = 11
	InconsistentValue   ErrorStatus = 12
	ResourceUnavailable ErrorStatus = 13
	CommitFailed        ErrorStatus = 14
	UndoFailed          ErrorStatus = 15
	AuthorizationError  ErrorStatus = 16
	NotWritable         ErrorStatus = 17
	InconsistentName    ErrorStatus = 18
)

func (s ErrorStatus) String() string {
	switch s {
	case NoError:
		return "noError"
	case TooBig:
		return "tooBig"
	case NoSuchName:
		return "noSuchName"
	case BadValue:
		return "badValue"
	case ReadOnly:
		return "readOnly"
	case GenErr:
		return "genErr"
	case NoAccess:
		return "noAccess"
	case WrongType:
		return "wrongType"
	case WrongLength:
		return "wrongLength"
	case WrongEncoding:
		return "wrongEncoding"
	case WrongValue:
		return "wrongValue"
	case NoCreation:
		return "noCreation"
	case InconsistentValue:
		return "inconsistentValue"
	case ResourceUnavailable:
		return "resourceUnavailable"
	case CommitFailed:
		return "commitFailed"
	case UndoFailed:
		return "undoFailed"
	case AuthorizationError:
		return "authorizationError"
	case NotWritable:
		return "notWritable"
	case InconsistentName:
		return "inconsistentName"
	default:
		return fmt.Sprintf("errorStatus(%d)", int(s))
	}
}

func malformed(format string, v ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, v...), ErrMalformedEncoding)
}
