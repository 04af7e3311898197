// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/vaultara/vaultara/internal/model"
)

// WriteBackup exports the full database contents as zstd-compressed JSON.
func (s *Service) WriteBackup(w io.Writer) error {
	data, err := s.store.ExportBackup()
	if err != nil {
		return fmt.Errorf("export backup: %w", err)
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode backup: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush backup: %w", err)
	}
	return nil
}

// RestoreBackup reads a zstd-compressed JSON backup and replaces the current
// database contents with it. The restore itself lands in the audit log of the
// restored database.
func (s *Service) RestoreBackup(caller string, r io.Reader) error {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()
	var data model.BackupData
	if err := json.NewDecoder(zr).Decode(&data); err != nil {
		return fmt.Errorf("decode backup: %w", err)
	}
	if err := s.store.ImportBackup(&data); err != nil {
		return fmt.Errorf("import backup: %w", err)
	}
	return s.store.LogAction(model.NormalizeAddress(caller), ActionRestoreBackup, "")
}
