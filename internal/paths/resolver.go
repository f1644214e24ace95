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

package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "fileagent/internal/errors"
)

// MaxPathLength bounds raw path expressions accepted by the resolver.
const MaxPathLength = 4096

// AliasTable maps a lowercase alias to a home-relative ("~/...") or absolute
// directory template.
type AliasTable map[string]string

// DefaultAliases returns a fresh copy of the built-in alias table.
// English and Chinese names are both accepted.
func DefaultAliases() AliasTable {
	return AliasTable{
		"desktop":   "~/Desktop",
		"桌面":        "~/Desktop",
		"downloads": "~/Downloads",
		"下载":        "~/Downloads",
		"documents": "~/Documents",
		"文档":        "~/Documents",
		"home":      "~",
		"主目录":       "~",
	}
}

// Names returns the aliases in sorted order.
func (a AliasTable) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolver turns user path expressions into absolute, OS-native paths.
// A Resolver is immutable after construction and safe for concurrent use.
type Resolver struct {
	aliases AliasTable
	home    string
}

// NewResolver creates a resolver over a copy of aliases. Keys are lowercased.
// An empty home means the current user's home directory, looked up on each call.
func NewResolver(aliases AliasTable, home string) *Resolver {
	copied := make(AliasTable, len(aliases))
	for name, target := range aliases {
		copied[strings.ToLower(name)] = target
	}
	return &Resolver{aliases: copied, home: home}
}

// Aliases returns a copy of the resolver's alias table.
func (r *Resolver) Aliases() AliasTable {
	copied := make(AliasTable, len(r.aliases))
	for name, target := range r.aliases {
		copied[name] = target
	}
	return copied
}

// Resolve normalizes raw into an absolute path.
//
// When raw contains a separator, only its first segment is looked up in the
// alias table (case-insensitively); the remaining segments keep their case.
// A bare alias resolves to the alias directory itself. A leading "~" expands
// to the home directory. No existence check is performed.
func (r *Resolver) Resolve(raw string) (string, error) {
	if err := ValidatePathString(raw, MaxPathLength); err != nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidPath, "invalid path", err)
	}

	path := strings.ReplaceAll(strings.TrimSpace(raw), `\`, "/")

	if strings.Contains(path, "/") {
		segments := strings.Split(path, "/")
		if target, ok := r.aliases[strings.ToLower(segments[0])]; ok {
			base, err := r.expandHome(target)
			if err != nil {
				return "", err
			}
			return absolute(filepath.Join(append([]string{base}, segments[1:]...)...))
		}
	} else if target, ok := r.aliases[strings.ToLower(path)]; ok {
		path = target
	}

	expanded, err := r.expandHome(path)
	if err != nil {
		return "", err
	}
	return absolute(filepath.FromSlash(expanded))
}

// expandHome replaces a leading "~" segment with the home directory.
// "~user" forms are left untouched.
func (r *Resolver) expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := r.homeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, filepath.FromSlash(path[2:])), nil
}

func (r *Resolver) homeDir() (string, error) {
	if r.home != "" {
		return r.home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidPath, "cannot determine home directory", err)
	}
	return home, nil
}

func absolute(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidPath, fmt.Sprintf("cannot make %q absolute", path), err)
	}
	return filepath.Clean(abs), nil
}
