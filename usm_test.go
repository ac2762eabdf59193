// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalizeKeyIsDeterministic(t *testing.T) {
	u := &User{Name: "alice", AuthProto: AuthSHA1, AuthPassword: "authpassword1"}
	a, err := u.Localize(testEngineID)
	require.NoError(t, err)
	b, err := u.Localize(testEngineID)
	require.NoError(t, err)
	require.Equal(t, a.AuthKey, b.AuthKey)
}

func TestLocalizeKeyVariesByEngine(t *testing.T) {
	u := &User{Name: "alice", AuthProto: AuthSHA1, AuthPassword: "authpassword1"}
	a, err := u.Localize(testEngineID)
	require.NoError(t, err)
	b, err := u.Localize(testEngineID + "x")
	require.NoError(t, err)
	require.NotEqual(t, a.AuthKey, b.AuthKey)
}

func TestLocalizeKeyLengthPerProtocol(t *testing.T) {
	tests := []struct {
		proto  AuthProtocol
		length int
	}{
		{AuthMD5, 16},
		{AuthSHA1, 20},
		{AuthSHA224, 28},
		{AuthSHA256, 32},
		{AuthSHA384, 48},
		{AuthSHA512, 64},
	}
	for _, tt := range tests {
		u := &User{Name: "x", AuthProto: tt.proto, AuthPassword: "authpassword1"}
		keys, err := u.Localize(testEngineID)
		require.NoError(t, err)
		require.Len(t, keys.AuthKey, tt.length)
	}
}

func TestLocalizePrivKeyStretchesToLength(t *testing.T) {
	tests := []struct {
		proto  PrivProtocol
		length int
	}{
		{PrivDES, 16},
		{PrivAES128, 16},
		{PrivAES192, 24},
		{PrivAES256, 32},
	}
	for _, tt := range tests {
		u := &User{
			Name: "x", AuthProto: AuthMD5, AuthPassword: "authpassword1",
			PrivProto: tt.proto, PrivPassword: "privpassword1",
		}
		keys, err := u.Localize(testEngineID)
		require.NoError(t, err)
		require.Len(t, keys.PrivKey, tt.length)
	}
}

func TestUserSecurityLevel(t *testing.T) {
	require.Equal(t, NoAuthNoPriv, (&User{}).SecurityLevel())
	require.Equal(t, AuthNoPriv, (&User{AuthProto: AuthSHA1}).SecurityLevel())
	require.Equal(t, AuthPriv, (&User{AuthProto: AuthSHA1, PrivProto: PrivAES128}).SecurityLevel())
}

func TestAuthDigestMacLenPerProtocol(t *testing.T) {
	tests := []struct {
		proto AuthProtocol
		want  int
	}{
		{AuthMD5, 12},
		{AuthSHA1, 12},
		{AuthSHA224, 16},
		{AuthSHA256, 24},
		{AuthSHA384, 32},
		{AuthSHA512, 48},
	}
	for _, tt := range tests {
		digest, err := authDigest(tt.proto, []byte("some-key-material-that-is-long"), []byte("msg"))
		require.NoError(t, err)
		require.Len(t, digest, tt.want)
	}
}

func TestAuthenticateInPlaceAndVerify(t *testing.T) {
	key := []byte("0123456789abcdef")
	msg := append([]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, []byte("payload")...)
	require.NoError(t, authenticateInPlace(AuthMD5, key, msg, 0))

	claimed := append([]byte(nil), msg[0:12]...)
	ok, err := verifyAuthentic(AuthMD5, key, msg, 0, claimed)
	require.NoError(t, err)
	require.True(t, ok)

	msg[len(msg)-1] ^= 0x01
	ok, err = verifyAuthentic(AuthMD5, key, msg, 0, claimed)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUserDBAddLookupRemove(t *testing.T) {
	db := NewUserDB()
	u := &User{Name: "bob"}
	db.AddUser(u)

	got, ok := db.Lookup("bob")
	require.True(t, ok)
	require.Same(t, u, got)

	db.RemoveUser("bob")
	_, ok = db.Lookup("bob")
	require.False(t, ok)
}
