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
	"os"
	"path/filepath"
	"unicode/utf8"

	apperrors "fileagent/internal/errors"
)

// Create makes a folder (with any missing parents) or an empty file at path.
// For files, missing parent directories are created first and an existing
// file is left untouched. Creating something that already exists succeeds
// with Created set to false.
func (o *Ops) Create(ctx context.Context, path string, isFolder bool) *Result {
	return guard("create", func() *Result {
		target, res := o.resolve(path)
		if res != nil {
			return res
		}
		if err := ensureContext(ctx); err != nil {
			return failure(target, apperrors.Wrap(apperrors.CodeIO, "create cancelled", err))
		}

		info, statErr := os.Stat(target)
		exists := statErr == nil
		if statErr != nil && !os.IsNotExist(statErr) {
			return failure(target, apperrors.Wrap(apperrors.CodeIO, fmt.Sprintf("cannot access %s", target), statErr))
		}

		if isFolder {
			if exists && !info.IsDir() {
				return failure(target, apperrors.New(apperrors.CodeIO, fmt.Sprintf("a file already exists at %s", target)))
			}
			if exists {
				result := success(target, fmt.Sprintf("folder already exists: %s", target))
				result.IsDir = true
				return result
			}
			if err := makeDirAll(ctx, target); err != nil {
				return failure(target, apperrors.Wrap(apperrors.CodeIO, fmt.Sprintf("failed to create folder %s", target), err))
			}
			result := success(target, fmt.Sprintf("folder created: %s", target))
			result.Created = true
			result.IsDir = true
			return result
		}

		if exists {
			if info.IsDir() {
				return failure(target, apperrors.New(apperrors.CodeIO, fmt.Sprintf("a folder already exists at %s", target)))
			}
			return success(target, fmt.Sprintf("file already exists: %s", target))
		}

		parent := filepath.Dir(target)
		if parentInfo, err := os.Stat(parent); err != nil || !parentInfo.IsDir() {
			if err := makeDirAll(ctx, parent); err != nil {
				return failure(target, apperrors.Wrap(apperrors.CodeIO, fmt.Sprintf("failed to create parent folder %s", parent), err))
			}
		}
		if err := touchFile(ctx, target); err != nil {
			return failure(target, apperrors.Wrap(apperrors.CodeIO, fmt.Sprintf("failed to create file %s", target), err))
		}
		result := success(target, fmt.Sprintf("file created: %s", target))
		result.Created = true
		return result
	})
}

// Delete removes the file or folder at path. Folders are removed with all
// of their contents. A path that does not exist fails with CodeNotFound.
func (o *Ops) Delete(ctx context.Context, path string) *Result {
	return guard("delete", func() *Result {
		target, res := o.resolve(path)
		if res != nil {
			return res
		}
		if err := ensureContext(ctx); err != nil {
			return failure(target, apperrors.Wrap(apperrors.CodeIO, "delete cancelled", err))
		}

		info, err := os.Lstat(target)
		if err != nil {
			if os.IsNotExist(err) {
				return failure(target, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("path does not exist: %s", target)))
			}
			return failure(target, apperrors.Wrap(apperrors.CodeIO, fmt.Sprintf("cannot access %s", target), err))
		}

		if info.IsDir() {
			if err := removePath(ctx, target, true); err != nil {
				return failure(target, apperrors.Wrap(apperrors.CodeIO, fmt.Sprintf("failed to delete folder %s", target), err))
			}
			result := success(target, fmt.Sprintf("folder deleted: %s", target))
			result.IsDir = true
			return result
		}

		if err := removePath(ctx, target, false); err != nil {
			return failure(target, apperrors.Wrap(apperrors.CodeIO, fmt.Sprintf("failed to delete file %s", target), err))
		}
		return success(target, fmt.Sprintf("file deleted: %s", target))
	})
}

// Modify replaces the entire content of an existing file with content,
// written as UTF-8. The file must already exist; folders are rejected.
func (o *Ops) Modify(ctx context.Context, path, content string) *Result {
	return guard("modify", func() *Result {
		target, res := o.resolve(path)
		if res != nil {
			return res
		}
		if err := ensureContext(ctx); err != nil {
			return failure(target, apperrors.Wrap(apperrors.CodeIO, "modify cancelled", err))
		}

		info, err := os.Stat(target)
		if err != nil {
			if os.IsNotExist(err) {
				return failure(target, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("file does not exist: %s", target)))
			}
			return failure(target, apperrors.Wrap(apperrors.CodeIO, fmt.Sprintf("cannot access %s", target), err))
		}
		if !info.Mode().IsRegular() {
			return failure(target, apperrors.New(apperrors.CodeIO, fmt.Sprintf("not a regular file: %s", target)))
		}
		if !utf8.ValidString(content) {
			return failure(target, apperrors.New(apperrors.CodeInvalidArguments, "content is not valid UTF-8"))
		}
		if int64(len(content)) > o.limits.MaxFileSizeBytes {
			return failure(target, apperrors.New(apperrors.CodeInvalidArguments,
				fmt.Sprintf("content exceeds maximum size (%d > %d bytes)", len(content), o.limits.MaxFileSizeBytes)))
		}

		if err := os.WriteFile(target, []byte(content), info.Mode().Perm()); err != nil {
			return failure(target, apperrors.Wrap(apperrors.CodeIO, fmt.Sprintf("failed to write %s", target), err))
		}
		return success(target, fmt.Sprintf("file content updated: %s", target))
	})
}
