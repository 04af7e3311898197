// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package seal produces and consumes the opaque encrypted-metadata blobs
// attached to beneficiary records.
//
// Two encoding tiers exist, distinguishable from the blob's own header:
//
//   - "aead-v1": the primary tier. Payloads are encrypted by a
//     confidentiality service under an access condition bound to the
//     authorized identity; only that identity can recover the payload.
//   - "plain-v1": the fallback tier, used whenever the primary service is
//     unavailable or fails. It is a versioned, reversible encoding bound to
//     the authorized identity. IT PROVIDES NO CONFIDENTIALITY: anyone able
//     to read the blob and who knows the encoding can recover the payload.
//     Callers storing blobs on a public ledger must treat fallback blobs as
//     public data with structure, nothing more.
//
// Denial of access is an expected outcome, not a fault: Open returns a nil
// payload (and nil error) when the caller is not the authorized identity.
package seal
