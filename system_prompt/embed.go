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


// Package systemprompt holds the instructions sent to the model with every
// request.
package systemprompt

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.txt
var promptFiles embed.FS

// Load joins the embedded prompt files in lexical order, one blank line
// between files.
func Load() (string, error) {
	names, err := fs.Glob(promptFiles, "*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to list embedded system prompt files: %w", err)
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no system prompt files found in embedded set")
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		data, err := promptFiles.ReadFile(name)
		if err != nil {
			return "", fmt.Errorf("failed to read system prompt file %q: %w", name, err)
		}
		parts = append(parts, strings.TrimRight(string(data), "\n"))
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}

// Vocabulary lists the names the tools accept in the current configuration.
type Vocabulary struct {
	Aliases   []string
	FileTypes []string
}

// Compose appends the configured vocabulary to base. Empty lists add nothing.
func Compose(base string, vocab Vocabulary) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "\n"))
	b.WriteString("\n")
	writeList(&b, "Folder names the tools understand", vocab.Aliases)
	writeList(&b, "File types search accepts", vocab.FileTypes)
	return b.String()
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)
	fmt.Fprintf(b, "\n%s: %s\n", label, strings.Join(sorted, ", "))
}
