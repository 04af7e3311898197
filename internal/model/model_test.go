// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import "testing"

func TestValidAddress(t *testing.T) {
	valid := []string{
		"0xaaaa000000000000000000000000000000000001",
		"0xAaAA000000000000000000000000000000000001",
		"  0xaaaa000000000000000000000000000000000001  ",
	}
	for _, addr := range valid {
		if !ValidAddress(addr) {
			t.Errorf("ValidAddress(%q) = false, want true", addr)
		}
	}
	invalid := []string{
		"",
		"0x",
		"aaaa000000000000000000000000000000000001",
		"0xaaaa00000000000000000000000000000000001",    // 39 hex chars
		"0xaaaa0000000000000000000000000000000000012",  // 41 hex chars
		"0xzzzz000000000000000000000000000000000001",   // not hex
		"0x aaa000000000000000000000000000000000001",   // inner space
	}
	for _, addr := range invalid {
		if ValidAddress(addr) {
			t.Errorf("ValidAddress(%q) = true, want false", addr)
		}
	}
}

func TestNormalizeAddress(t *testing.T) {
	if got := NormalizeAddress("  0xAbCd000000000000000000000000000000000001 "); got != "0xabcd000000000000000000000000000000000001" {
		t.Errorf("NormalizeAddress = %q", got)
	}
}

func TestSharePercent(t *testing.T) {
	cases := map[int]string{
		1:     "0.01%",
		100:   "1.00%",
		2550:  "25.50%",
		10000: "100.00%",
	}
	for bp, want := range cases {
		b := Beneficiary{ShareBp: bp}
		if got := b.SharePercent(); got != want {
			t.Errorf("SharePercent(%d) = %q, want %q", bp, got, want)
		}
	}
}
