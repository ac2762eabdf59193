// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"
	"hash"
	"sync"
)

// AuthProtocol is the User-based Security Model authentication algorithm
// (spec.md §3's User type). Grounded on the teacher's SnmpV3AuthProtocol
// enum (NoAuth/MD5/SHA), extended to the SHA2 family per the later
// gosnmp fork (other_examples/44180c9a_kokizzu-gosnmp__v3_usm.go).
type AuthProtocol int

const (
	AuthNone AuthProtocol = iota
	AuthMD5
	AuthSHA1
	AuthSHA224
	AuthSHA256
	AuthSHA384
	AuthSHA512
)

func (p AuthProtocol) String() string {
	switch p {
	case AuthNone:
		return "NoAuth"
	case AuthMD5:
		return "MD5"
	case AuthSHA1:
		return "SHA1"
	case AuthSHA224:
		return "SHA224"
	case AuthSHA256:
		return "SHA256"
	case AuthSHA384:
		return "SHA384"
	case AuthSHA512:
		return "SHA512"
	default:
		return fmt.Sprintf("AuthProtocol(%d)", int(p))
	}
}

// hashFunc returns the hash constructor backing this auth protocol. SHA224
// is the standard library's sha256.New224 (FIPS 180-4 SHA-224, with its own
// initial values), not the first 28 bytes of a SHA-256 digest.
func (p AuthProtocol) hashFunc() (func() hash.Hash, error) {
	switch p {
	case AuthMD5:
		return md5.New, nil
	case AuthSHA1:
		return sha1.New, nil
	case AuthSHA224:
		return sha256.New224, nil
	case AuthSHA256:
		return sha256.New, nil
	case AuthSHA384:
		return sha512.New384, nil
	case AuthSHA512:
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("%v: %w", p, ErrCryptoError)
	}
}

// macLen is the number of octets of the HMAC digest carried on the wire:
// 12 bytes (truncated) for the legacy RFC 3414 MD5/SHA1 algorithms, and the
// RFC 7860 lengths for the SHA2 family: 16 (SHA224), 24 (SHA256), 32
// (SHA384) and 48 (SHA512).
func (p AuthProtocol) macLen() int {
	switch p {
	case AuthNone:
		return 0
	case AuthMD5, AuthSHA1:
		return 12
	case AuthSHA224:
		return 16
	case AuthSHA256:
		return 24
	case AuthSHA384:
		return 32
	case AuthSHA512:
		return 48
	default:
		return 0
	}
}

// PrivProtocol is the User-based Security Model privacy algorithm
// (spec.md §3's User type). Grounded on the teacher's SnmpV3PrivProtocol
// enum (NoPriv/DES/AES), extended to AES192/AES256 per spec.md §4.7.3.
type PrivProtocol int

const (
	PrivNone PrivProtocol = iota
	PrivDES
	PrivAES128
	PrivAES192
	PrivAES256
)

func (p PrivProtocol) String() string {
	switch p {
	case PrivNone:
		return "NoPriv"
	case PrivDES:
		return "DES"
	case PrivAES128:
		return "AES128"
	case PrivAES192:
		return "AES192"
	case PrivAES256:
		return "AES256"
	default:
		return fmt.Sprintf("PrivProtocol(%d)", int(p))
	}
}

// keyLen is the number of key bytes this privacy protocol consumes
// (spec.md §4.7.1): 16 for DES/AES128, 24 for AES192, 32 for AES256.
func (p PrivProtocol) keyLen() int {
	switch p {
	case PrivDES, PrivAES128:
		return 16
	case PrivAES192:
		return 24
	case PrivAES256:
		return 32
	default:
		return 0
	}
}

// SecurityLevel is implied by a User's protocol configuration (spec.md
// §3): NoAuth => noAuthNoPriv; auth-only => authNoPriv; both => authPriv.
type SecurityLevel int

const (
	NoAuthNoPriv SecurityLevel = iota
	AuthNoPriv
	AuthPriv
)

func (l SecurityLevel) flags(reportable bool) MsgFlags {
	var f MsgFlags
	switch l {
	case AuthPriv:
		f = FlagAuth | FlagPriv
	case AuthNoPriv:
		f = FlagAuth
	}
	if reportable {
		f |= FlagReportable
	}
	return f
}

// User is a USM user record (spec.md §3): name, auth/priv protocol choice,
// and passphrases. Keys are derived per-engine on demand via Localize.
type User struct {
	Name         string
	AuthProto    AuthProtocol
	AuthPassword string
	PrivProto    PrivProtocol
	PrivPassword string
}

// SecurityLevel reports the level implied by this user's protocol choices.
func (u *User) SecurityLevel() SecurityLevel {
	if u.AuthProto == AuthNone {
		return NoAuthNoPriv
	}
	if u.PrivProto == PrivNone {
		return AuthNoPriv
	}
	return AuthPriv
}

// LocalizedKeys holds the per-engine derived authKey/privKey for a user.
// Held in a wrapper so the bytes can be zeroed once no longer needed
// (spec.md §3 "sensitive key material... zero the bytes on destruction").
type LocalizedKeys struct {
	AuthKey []byte
	PrivKey []byte
}

// Zero overwrites the key material with zero bytes.
func (k *LocalizedKeys) Zero() {
	for i := range k.AuthKey {
		k.AuthKey[i] = 0
	}
	for i := range k.PrivKey {
		k.PrivKey[i] = 0
	}
}

// Localize derives this user's authKey and privKey for engineID
// (spec.md §4.7.1). Deterministic: Localize(p, e, a) always returns the
// same bytes for the same inputs (spec.md §8 testable property).
func (u *User) Localize(engineID string) (LocalizedKeys, error) {
	var out LocalizedKeys
	if u.AuthProto != AuthNone {
		key, err := localizeKey(u.AuthProto, u.AuthPassword, engineID)
		if err != nil {
			return out, err
		}
		out.AuthKey = key
	}
	if u.PrivProto != PrivNone {
		key, err := localizePrivKey(u.PrivProto, u.AuthProto, u.PrivPassword, engineID)
		if err != nil {
			return out, err
		}
		out.PrivKey = key
	}
	return out, nil
}

// passwordToKey expands password by cyclic repetition to exactly 1MiB and
// hashes the result (spec.md §4.7.1's "Ku" step).
func passwordToKey(proto AuthProtocol, password string) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("passwordToKey: empty password: %w", ErrCryptoError)
	}
	newHash, err := proto.hashFunc()
	if err != nil {
		return nil, err
	}
	h := newHash()
	const total = 1048576
	var chunk [64]byte
	pi := 0
	for written := 0; written < total; written += 64 {
		for i := range chunk {
			chunk[i] = password[pi%len(password)]
			pi++
		}
		h.Write(chunk[:])
	}
	return h.Sum(nil), nil
}

// localizeKey computes Kul = H(Ku || engineID || Ku) (spec.md §4.7.1's
// key-localization step).
func localizeKey(proto AuthProtocol, password, engineID string) ([]byte, error) {
	ku, err := passwordToKey(proto, password)
	if err != nil {
		return nil, err
	}
	newHash, err := proto.hashFunc()
	if err != nil {
		return nil, err
	}
	h := newHash()
	h.Write(ku)
	h.Write([]byte(engineID))
	h.Write(ku)
	return h.Sum(nil), nil
}

// localizePrivKey derives the privacy key by localizing the privacy password
// with the auth protocol's hash, then truncating or key-stretching the
// result to the cipher's required length (spec.md
// §4.7.1: "if the underlying auth digest is shorter than N... the
// shortfall is filled by further key-stretching").
func localizePrivKey(privProto PrivProtocol, authProto AuthProtocol, password, engineID string) ([]byte, error) {
	n := privProto.keyLen()
	key, err := localizeKey(authProto, password, engineID)
	if err != nil {
		return nil, err
	}
	newHash, err := authProto.hashFunc()
	if err != nil {
		return nil, err
	}
	for len(key) < n {
		h := newHash()
		h.Write(key)
		key = append(key, h.Sum(nil)...)
	}
	return key[:n], nil
}

// authDigest computes HMAC_alg(key, msg) truncated to the protocol's wire
// length (spec.md §4.7.2).
func authDigest(proto AuthProtocol, key, msg []byte) ([]byte, error) {
	newHash, err := proto.hashFunc()
	if err != nil {
		return nil, err
	}
	mac := hmac.New(newHash, key)
	mac.Write(msg)
	sum := mac.Sum(nil)
	return sum[:proto.macLen()], nil
}

// authenticateInPlace computes the digest over msg (which must already
// have its auth-params slot zeroed) and writes it into
// msg[authParamsOffset : authParamsOffset+macLen].
func authenticateInPlace(proto AuthProtocol, key, msg []byte, authParamsOffset int) error {
	digest, err := authDigest(proto, key, msg)
	if err != nil {
		return err
	}
	if authParamsOffset < 0 || authParamsOffset+len(digest) > len(msg) {
		return fmt.Errorf("authenticateInPlace: auth-params offset out of range: %w", ErrCryptoError)
	}
	copy(msg[authParamsOffset:authParamsOffset+len(digest)], digest)
	return nil
}

// verifyAuthentic recomputes the digest over msg (with its auth-params
// slot zeroed) and compares it in constant time against claimed
// (spec.md §4.7.2, §8: any single-bit mutation outside the auth-params
// bytes must fail verification).
func verifyAuthentic(proto AuthProtocol, key, msg []byte, authParamsOffset int, claimed []byte) (bool, error) {
	zeroed := append([]byte(nil), msg...)
	for i := range claimed {
		if authParamsOffset+i < len(zeroed) {
			zeroed[authParamsOffset+i] = 0
		}
	}
	digest, err := authDigest(proto, key, zeroed)
	if err != nil {
		return false, err
	}
	if len(digest) != len(claimed) {
		return false, nil
	}
	return subtle.ConstantTimeCompare(digest, claimed) == 1, nil
}

// UserDB is the process-wide USM user database (spec.md §3 "the user
// database owns V3User records"). Reads may happen concurrently with
// other reads; mutation is serialized (spec.md §5).
type UserDB struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewUserDB returns an empty user database.
func NewUserDB() *UserDB {
	return &UserDB{users: make(map[string]*User)}
}

// AddUser registers or replaces a user record.
func (db *UserDB) AddUser(u *User) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users[u.Name] = u
}

// RemoveUser deletes a user record, if present.
func (db *UserDB) RemoveUser(name string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.users, name)
}

// Lookup returns the named user, or (nil, false) if unknown.
func (db *UserDB) Lookup(name string) (*User, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	u, ok := db.users[name]
	return u, ok
}
