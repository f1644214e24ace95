// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package tools

import (
	"sort"
	"strings"
)

// FileTypeTable maps a file type tag to the glob used to search for it.
type FileTypeTable map[string]string

// DefaultFileTypes returns a fresh copy of the built-in file type table.
func DefaultFileTypes() FileTypeTable {
	return FileTypeTable{
		"pdf":  "*.pdf",
		"txt":  "*.txt",
		"docx": "*.docx",
		"xlsx": "*.xlsx",
		"jpg":  "*.jpg",
		"png":  "*.png",
		"jpeg": "*.jpeg",
		"doc":  "*.doc",
		"xls":  "*.xls",
		"ppt":  "*.ppt",
		"pptx": "*.pptx",
	}
}

// NormalizeFileType trims tag, lowercases it and strips one leading dot,
// so ".PDF" and "pdf" name the same type.
func NormalizeFileType(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return strings.TrimPrefix(tag, ".")
}

// Pattern returns the glob registered for tag after normalization.
func (t FileTypeTable) Pattern(tag string) (string, bool) {
	pattern, ok := t[NormalizeFileType(tag)]
	return pattern, ok
}

// Names returns the supported tags in sorted order.
func (t FileTypeTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t FileTypeTable) clone() FileTypeTable {
	copied := make(FileTypeTable, len(t))
	for name, pattern := range t {
		copied[NormalizeFileType(name)] = pattern
	}
	return copied
}
