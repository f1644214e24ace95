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
	"fmt"
	"strings"
)

// SearchPreviewLimit is the number of matches listed in a search summary.
const SearchPreviewLimit = 10

func formatSearch(tag, root string, matches []string) string {
	if len(matches) == 0 {
		return fmt.Sprintf("No %s files found in %s", tag, root)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s files in %s:", len(matches), tag, root)
	for i, match := range matches {
		if i == SearchPreviewLimit {
			fmt.Fprintf(&b, "\n... and %d more", len(matches)-SearchPreviewLimit)
			break
		}
		fmt.Fprintf(&b, "\n%d. %s", i+1, match)
	}
	return b.String()
}

func formatCountHidden(root string, count int) string {
	if count == 1 {
		return fmt.Sprintf("Found 1 hidden file in %s", root)
	}
	return fmt.Sprintf("Found %d hidden files in %s", count, root)
}

func formatFailure(err error) string {
	return fmt.Sprintf("Error: %v", err)
}

// capitalize upper-cases the first byte of an ASCII message.
func capitalize(message string) string {
	if message == "" {
		return message
	}
	first := message[0]
	if first >= 'a' && first <= 'z' {
		return string(first-'a'+'A') + message[1:]
	}
	return message
}
