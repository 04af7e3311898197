// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package seal

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// AEADService implements Service with AES-256-GCM under per-identity keys
// derived from a deployment secret via HKDF-SHA256. Decrypting with a
// different identity derives a different key, so the GCM authentication tag
// fails and the request is denied.
//
// This is the local stand-in for the network-mediated threshold-access
// scheme: same call/response contract, single-custodian trust model.
type AEADService struct {
	secret []byte
}

// ErrEmptySecret is returned when constructing an AEADService without key material.
var ErrEmptySecret = errors.New("seal: empty service secret")

var errAccessDenied = errors.New("seal: access denied")

// NewAEADService returns a service keyed by the given deployment secret.
func NewAEADService(secret []byte) (*AEADService, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	s := &AEADService{secret: make([]byte, len(secret))}
	copy(s.secret, secret)
	return s, nil
}

// Encrypt seals payload under the key derived for authorizedIdentity.
func (s *AEADService) Encrypt(ctx context.Context, payload []byte, authorizedIdentity string) ([]byte, error) {
	gcm, err := s.aead(authorizedIdentity)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, payload, nil), nil
}

// Decrypt opens ciphertext with the key derived for identity. Any
// authentication failure is reported as denial.
func (s *AEADService) Decrypt(ctx context.Context, ciphertext []byte, identity string) ([]byte, error) {
	gcm, err := s.aead(identity)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errAccessDenied
	}
	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	payload, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, errAccessDenied
	}
	return payload, nil
}

func (s *AEADService) aead(identity string) (cipher.AEAD, error) {
	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, s.secret, nil, []byte("vaultara-seal|"+identity))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
