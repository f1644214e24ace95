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

package fileops

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	apperrors "fileagent/internal/errors"
	"fileagent/internal/paths"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

// Search collects the files under root whose base name matches pattern.
// Hidden files and hidden directories are skipped. Matching is
// case-sensitive on every platform. When recursive is false only the
// immediate children of root are considered. A missing root yields an
// empty, successful result.
func (o *Ops) Search(ctx context.Context, root, pattern string, recursive bool) *Result {
	return guard("search", func() *Result {
		resolved, res := o.resolve(root)
		if res != nil {
			return res
		}
		if !doublestar.ValidatePattern(pattern) {
			return failure(resolved, apperrors.New(apperrors.CodeInvalidArguments, fmt.Sprintf("invalid pattern %q", pattern)))
		}

		var mu sync.Mutex
		matches := []string{}
		err := walkTree(ctx, resolved, func(p string, d fs.DirEntry) error {
			if d.IsDir() {
				if !recursive || paths.IsHidden(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if isDirEntry(p, d) {
				return nil
			}
			if paths.IsHidden(d.Name()) {
				return nil
			}
			matched, err := doublestar.Match(pattern, d.Name())
			if err != nil || !matched {
				return nil
			}
			mu.Lock()
			matches = append(matches, p)
			mu.Unlock()
			return nil
		})
		if err != nil {
			return failure(resolved, apperrors.Wrap(apperrors.CodeIO, "search failed", err))
		}

		result := success(resolved, fmt.Sprintf("found %d matching files in %s", len(matches), resolved))
		result.Matches = matches
		result.Count = len(matches)
		return result
	})
}

// CountHidden counts files (not directories) under root whose name begins
// with the hidden marker, descending into hidden directories as well.
// A missing root counts as zero.
func (o *Ops) CountHidden(ctx context.Context, root string) *Result {
	return guard("count_hidden", func() *Result {
		resolved, res := o.resolve(root)
		if res != nil {
			return res
		}

		var mu sync.Mutex
		count := 0
		err := walkTree(ctx, resolved, func(p string, d fs.DirEntry) error {
			if isDirEntry(p, d) || !paths.IsHidden(d.Name()) {
				return nil
			}
			mu.Lock()
			count++
			mu.Unlock()
			return nil
		})
		if err != nil {
			return failure(resolved, apperrors.Wrap(apperrors.CodeIO, "count failed", err))
		}

		result := success(resolved, fmt.Sprintf("found %d hidden files in %s", count, resolved))
		result.Count = count
		return result
	})
}

// walkTree visits every entry below root (root itself excluded). Entries that
// cannot be read are skipped. Paths handed to visit are rooted at root even
// when root is a symlink. A root that does not exist or is not a directory
// produces no visits.
func walkTree(ctx context.Context, root string, visit func(p string, d fs.DirEntry) error) error {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}

	walkRoot := root
	if real, err := filepath.EvalSymlinks(root); err == nil {
		walkRoot = real
	}

	conf := fastwalk.Config{Follow: false, NumWorkers: 1}
	return fastwalk.Walk(&conf, walkRoot, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ensureContext(ctx); ctxErr != nil {
			return ctxErr
		}
		if err != nil || d == nil || p == walkRoot {
			return nil
		}
		if walkRoot != root && paths.HasPathPrefix(p, walkRoot) {
			if rel, relErr := filepath.Rel(walkRoot, p); relErr == nil {
				p = filepath.Join(root, rel)
			}
		}
		return visit(p, d)
	})
}

// isDirEntry reports whether d is a directory, following symlinks so that a
// link to a directory is never treated as a file.
func isDirEntry(p string, d fs.DirEntry) bool {
	if d.IsDir() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
