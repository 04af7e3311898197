// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package seal

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

const (
	ownerID = "0xaaaa000000000000000000000000000000000001"
	otherID = "0xbbbb000000000000000000000000000000000002"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	svc, err := NewAEADService([]byte("test-deployment-secret"))
	if err != nil {
		t.Fatalf("NewAEADService failed: %v", err)
	}
	return New(svc)
}

func TestSealOpenRoundTrip(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	payload := []byte(`{"name":"eldest heir","note":"cold wallet in the safe"}`)

	blob, err := a.Seal(ctx, payload, ownerID)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if tier, err := Tier(blob); err != nil || tier != VersionAEAD {
		t.Fatalf("expected %s tier, got %q (%v)", VersionAEAD, tier, err)
	}

	got, err := a.Open(ctx, blob, ownerID)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: got %q", got)
	}
}

func TestOpenDeniesOtherIdentity(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	blob, err := a.Seal(ctx, []byte("secret"), ownerID)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	got, err := a.Open(ctx, blob, otherID)
	if err != nil {
		t.Fatalf("denial must not be an error, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil payload for non-authorized identity, got %q", got)
	}
}

func TestSealIdentityCaseInsensitive(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	blob, err := a.Seal(ctx, []byte("secret"), "0xAAAA000000000000000000000000000000000001")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	got, err := a.Open(ctx, blob, ownerID)
	if err != nil || got == nil {
		t.Fatalf("checksum-cased identity must open lowercase-bound blob, got %q (%v)", got, err)
	}
}

// failingService simulates the primary tier being unreachable.
type failingService struct{}

func (failingService) Encrypt(context.Context, []byte, string) ([]byte, error) {
	return nil, errors.New("service unavailable")
}

func (failingService) Decrypt(context.Context, []byte, string) ([]byte, error) {
	return nil, errors.New("service unavailable")
}

func TestSealFallsBackWhenServiceFails(t *testing.T) {
	a := New(failingService{})
	ctx := context.Background()
	payload := []byte("beneficiary note")

	blob, err := a.Seal(ctx, payload, ownerID)
	if err != nil {
		t.Fatalf("Seal must degrade, not fail: %v", err)
	}
	if tier, err := Tier(blob); err != nil || tier != VersionPlain {
		t.Fatalf("expected fallback %s tier, got %q (%v)", VersionPlain, tier, err)
	}

	got, err := a.Open(ctx, blob, ownerID)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("fallback round trip mismatch: got %q", got)
	}
	// Even the fallback tier honors the identity binding at the contract
	// level, though it provides no cryptographic secrecy.
	if got, err := a.Open(ctx, blob, otherID); err != nil || got != nil {
		t.Fatalf("expected fallback denial for other identity, got %q (%v)", got, err)
	}
}

func TestSealWithoutService(t *testing.T) {
	a := New(nil)
	ctx := context.Background()

	blob, err := a.Seal(ctx, []byte("x"), ownerID)
	if err != nil {
		t.Fatalf("Seal without service failed: %v", err)
	}
	if tier, _ := Tier(blob); tier != VersionPlain {
		t.Fatalf("expected permanent fallback mode, got %q", tier)
	}
}

func TestOpenAEADBlobWithoutService(t *testing.T) {
	// A blob sealed by the primary tier but opened by an adapter with no
	// service routes to denial, not to a fault.
	sealed := newTestAdapter(t)
	ctx := context.Background()
	blob, err := sealed.Seal(ctx, []byte("x"), ownerID)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	bare := New(nil)
	got, err := bare.Open(ctx, blob, ownerID)
	if err != nil || got != nil {
		t.Fatalf("expected (nil, nil), got %q (%v)", got, err)
	}
}

func TestMalformedBlobs(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	for _, blob := range []string{"", "not base64 at all!!", "aGVsbG8="} {
		if _, err := a.Open(ctx, blob, ownerID); !errors.Is(err, ErrMalformedBlob) {
			t.Fatalf("blob %q: expected ErrMalformedBlob, got %v", blob, err)
		}
	}
}

func TestNewAEADServiceRejectsEmptySecret(t *testing.T) {
	if _, err := NewAEADService(nil); !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}
}
