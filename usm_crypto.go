// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// generateSalt returns the 8 random bytes that seed this message's
// privacyParameters (spec.md §4.7.3: "salt is 8 random bytes, generated
// fresh per outgoing message").
func generateSalt(proto PrivProtocol) ([]byte, error) {
	if proto == PrivNone {
		return nil, nil
	}
	salt := make([]byte, 8)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generateSalt: %w", err)
	}
	return salt, nil
}

// encryptScopedPDU encrypts plaintext under key using the protocol's cipher
// mode, returning the USM ciphertext carried in msgData (spec.md §4.7.3).
func encryptScopedPDU(proto PrivProtocol, key []byte, boots, engineTime uint32, salt, plaintext []byte) ([]byte, error) {
	switch proto {
	case PrivNone:
		return plaintext, nil
	case PrivDES:
		return desCFBCrypt(key, salt, plaintext, true)
	case PrivAES128, PrivAES192, PrivAES256:
		return aesCFBCrypt(key, boots, engineTime, salt, plaintext, true)
	default:
		return nil, fmt.Errorf("encryptScopedPDU: %v: %w", proto, ErrCryptoError)
	}
}

// decryptScopedPDU reverses encryptScopedPDU.
func decryptScopedPDU(proto PrivProtocol, key []byte, boots, engineTime uint32, salt, ciphertext []byte) ([]byte, error) {
	switch proto {
	case PrivNone:
		return ciphertext, nil
	case PrivDES:
		return desCFBCrypt(key, salt, ciphertext, false)
	case PrivAES128, PrivAES192, PrivAES256:
		plaintext, err := aesCFBCrypt(key, boots, engineTime, salt, ciphertext, false)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrDecryptionError)
		}
		return plaintext, nil
	default:
		return nil, fmt.Errorf("decryptScopedPDU: %v: %w", proto, ErrCryptoError)
	}
}

// desCFBCrypt implements RFC 3414 §8.1.1.1's DES-CBC privacy transform
// (named "DES-CFB" in spec.md, matching the family's common name): the DES
// key is the privacy key's first 8 bytes, the IV is its next 8 bytes (the
// pre-IV) XORed with the salt, and the cipher mode is
// CBC (CFB-width-64 with feedback equal to block size degenerates to CBC).
// On encrypt, the plaintext is padded with zero bytes up to the next
// des.BlockSize boundary (spec.md §4.7.3) rather than rejected; a decrypting
// peer recovers the original ScopedPDU length from its own TLV length
// prefix and ignores the trailing pad.
func desCFBCrypt(key, salt, input []byte, encrypt bool) ([]byte, error) {
	if len(key) < 16 {
		return nil, fmt.Errorf("desCFBCrypt: key too short: %w", ErrCryptoError)
	}
	if len(salt) != 8 {
		return nil, fmt.Errorf("desCFBCrypt: salt must be 8 bytes: %w", ErrDecryptionError)
	}
	block, err := des.NewCipher(key[:8])
	if err != nil {
		return nil, fmt.Errorf("desCFBCrypt: %w", err)
	}
	preIV := key[8:16]
	iv := make([]byte, 8)
	for i := range iv {
		iv[i] = preIV[i] ^ salt[i]
	}

	if encrypt {
		if rem := len(input) % des.BlockSize; rem != 0 {
			pad := make([]byte, des.BlockSize-rem)
			input = append(append([]byte{}, input...), pad...)
		}
	} else if len(input)%des.BlockSize != 0 {
		return nil, fmt.Errorf("desCFBCrypt: input not a multiple of %d bytes: %w", des.BlockSize, ErrDecryptionError)
	}

	out := make([]byte, len(input))
	if encrypt {
		cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, input)
	} else {
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, input)
	}
	return out, nil
}

// aesCFBCrypt implements RFC 3826's AES-CFB128 privacy transform, used for
// AES128/192/256 alike (spec.md §4.7.3): the IV is boots(4) || engineTime(4)
// || salt(8), and the stream cipher is CFB with a 128-bit segment.
func aesCFBCrypt(key []byte, boots, engineTime uint32, salt, input []byte, encrypt bool) ([]byte, error) {
	if len(salt) != 8 {
		return nil, fmt.Errorf("aesCFBCrypt: salt must be 8 bytes: %w", ErrDecryptionError)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aesCFBCrypt: %w", err)
	}
	iv := make([]byte, 16)
	binary.BigEndian.PutUint32(iv[0:4], boots)
	binary.BigEndian.PutUint32(iv[4:8], engineTime)
	copy(iv[8:16], salt)

	out := make([]byte, len(input))
	var stream cipher.Stream
	if encrypt {
		stream = cipher.NewCFBEncrypter(block, iv)
	} else {
		stream = cipher.NewCFBDecrypter(block, iv)
	}
	stream.XORKeyStream(out, input)
	return out, nil
}
