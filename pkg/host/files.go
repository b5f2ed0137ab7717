/*
 * Copyright 2025 Rotur.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package host

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotur/roturlink/pkg/models"
)

// MaxDirectoryEntries caps shallow directory listings.
const MaxDirectoryEntries = 50

// ListDirectory returns a shallow listing of path, directories first, then
// names case-insensitively. Entries that vanish or deny access mid-listing
// are skipped. Directory sizes are their entry counts.
func ListDirectory(path string) []models.FileEntry {
	entries, err := os.ReadDir(path)
	if err != nil {
		return []models.FileEntry{}
	}

	sort.Slice(entries, func(i, j int) bool {
		di, dj := entries[i].IsDir(), entries[j].IsDir()
		if di != dj {
			return di
		}

		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	if len(entries) > MaxDirectoryEntries {
		entries = entries[:MaxDirectoryEntries]
	}

	items := make([]models.FileEntry, 0, len(entries))

	for _, entry := range entries {
		full := filepath.Join(path, entry.Name())

		info, err := entry.Info()
		if err != nil {
			continue
		}

		item := models.FileEntry{
			Name:        entry.Name(),
			Path:        full,
			Readable:    accessOK(full, false),
			Writable:    accessOK(full, true),
			Modified:    info.ModTime().Unix(),
			Permissions: fmt.Sprintf("%03o", info.Mode().Perm()),
		}

		if entry.IsDir() {
			item.Type = "directory"
			item.Size = int64(countEntries(full))
		} else {
			item.Type = "file"
			item.Size = info.Size()
			item.Extension = strings.ToLower(filepath.Ext(entry.Name()))
		}

		items = append(items, item)
	}

	return items
}

func countEntries(path string) int {
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0
	}

	return len(entries)
}

// accessOK probes effective access by attempting the cheapest open the
// mode allows. Go has no portable access(2) wrapper.
func accessOK(path string, write bool) bool {
	if write {
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			// Directories reject O_WRONLY everywhere; fall back to a
			// stat-based mode check.
			if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
				return info.Mode().Perm()&0o200 != 0
			}

			return false
		}

		_ = f.Close()

		return true
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}

	_ = f.Close()

	return true
}
