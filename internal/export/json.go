// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/xannyai/xanny-tui/internal/util"
)

// =============================================================================
// JSON BACKUP
// =============================================================================

// BackupFilename returns the dated backup filename for the given day.
func BackupFilename(day time.Time) string {
	return fmt.Sprintf("xanny-chats-%s.json", day.Format("2006-01-02"))
}

// WriteBackup writes the whole-collection JSON payload (as produced by the
// chat store's ExportAll) into dir under a dated filename. Returns the
// written path.
func WriteBackup(dir string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, BackupFilename(time.Now()))
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}
