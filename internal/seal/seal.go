// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package seal

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/vaultara/vaultara/internal/logging"
	"github.com/vaultara/vaultara/internal/model"
)

// Blob tier versions. The version travels inside the blob so a decoder can
// pick the right tier without out-of-band information.
const (
	VersionAEAD  = "aead-v1"
	VersionPlain = "plain-v1"
)

// ErrMalformedBlob is returned when a blob cannot be parsed at all. Access
// denial is not an error; see Open.
var ErrMalformedBlob = errors.New("seal: malformed blob")

// Service is the external confidentiality collaborator: request/response
// over an authenticated channel keyed by identity. Implementations own their
// own timeout and retry policy.
type Service interface {
	// Encrypt seals payload so that only authorizedIdentity can recover it.
	Encrypt(ctx context.Context, payload []byte, authorizedIdentity string) ([]byte, error)
	// Decrypt recovers a payload for the given identity. A nil payload with
	// nil error means access was denied.
	Decrypt(ctx context.Context, ciphertext []byte, identity string) ([]byte, error)
}

// envelope is the on-ledger blob: a base64-encoded JSON header carrying the
// tier version, the bound identity, and the tier-specific body.
type envelope struct {
	Version   string `json:"version"`
	Identity  string `json:"identity"`
	Body      []byte `json:"body"`
	CreatedAt int64  `json:"created_at"`
}

// Adapter seals beneficiary metadata with the primary service when it is
// reachable and degrades to the fallback encoding otherwise. The zero value
// (no service) always uses the fallback tier.
type Adapter struct {
	service Service
	now     func() time.Time
}

// New returns an adapter backed by the given service. A nil service is
// valid and puts the adapter in permanent fallback mode.
func New(service Service) *Adapter {
	return &Adapter{service: service, now: time.Now}
}

// Seal encodes payload into a blob bound to authorizedIdentity. Primary-tier
// failures are recovered locally by falling back to the plain encoding; they
// are never surfaced to the caller as a vault-operation failure.
func (a *Adapter) Seal(ctx context.Context, payload []byte, authorizedIdentity string) (string, error) {
	identity := model.NormalizeAddress(authorizedIdentity)

	if a.service != nil {
		body, err := a.service.Encrypt(ctx, payload, identity)
		if err == nil {
			return a.encode(VersionAEAD, identity, body)
		}
		logging.Warnf("seal: primary tier unavailable, using fallback encoding: %v", err)
	}
	// Fallback tier: structure only, no secrecy.
	return a.encode(VersionPlain, identity, payload)
}

// Open recovers the payload from a blob. It returns (nil, nil) when the
// caller is not the identity the blob was bound to, or when the primary
// service denies or cannot serve the request; denial is an expected outcome.
// Only a blob that cannot be parsed yields ErrMalformedBlob.
func (a *Adapter) Open(ctx context.Context, blob string, identity string) ([]byte, error) {
	env, err := decode(blob)
	if err != nil {
		return nil, err
	}
	identity = model.NormalizeAddress(identity)

	switch env.Version {
	case VersionAEAD:
		if a.service == nil {
			logging.Debugf("seal: no primary service configured, cannot open %s blob", env.Version)
			return nil, nil
		}
		payload, err := a.service.Decrypt(ctx, env.Body, identity)
		if err != nil {
			logging.Debugf("seal: primary tier decrypt denied: %v", err)
			return nil, nil
		}
		return payload, nil
	case VersionPlain:
		if env.Identity != identity {
			return nil, nil
		}
		return env.Body, nil
	default:
		return nil, ErrMalformedBlob
	}
}

// Tier reports which encoding tier a blob uses, for display and for warning
// owners that a fallback blob carries no confidentiality.
func Tier(blob string) (string, error) {
	env, err := decode(blob)
	if err != nil {
		return "", err
	}
	switch env.Version {
	case VersionAEAD, VersionPlain:
		return env.Version, nil
	default:
		return "", ErrMalformedBlob
	}
}

func (a *Adapter) encode(version, identity string, body []byte) (string, error) {
	raw, err := json.Marshal(envelope{
		Version:   version,
		Identity:  identity,
		Body:      body,
		CreatedAt: a.now().Unix(),
	})
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func decode(blob string) (envelope, error) {
	var env envelope
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return env, ErrMalformedBlob
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, ErrMalformedBlob
	}
	return env, nil
}
