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

// Package fileops implements the five filesystem operations the agent can
// perform: search, count hidden files, create, delete and modify content.
// Each operation resolves its path argument first and reports its outcome as
// a Result; no operation panics or returns a bare error to its caller.
package fileops

import (
	"context"
	"fmt"

	apperrors "fileagent/internal/errors"
	"fileagent/internal/paths"
)

// PathResolver resolves user path expressions into absolute paths.
type PathResolver interface {
	Resolve(raw string) (string, error)
}

var _ PathResolver = (*paths.Resolver)(nil)

// Limits configures size bounds for content-changing operations.
type Limits struct {
	MaxFileSizeBytes int64
}

const defaultMaxFileSizeBytes int64 = 10 * 1024 * 1024

// DefaultLimits returns the default resource limits.
func DefaultLimits() Limits {
	return Limits{MaxFileSizeBytes: defaultMaxFileSizeBytes}
}

func normalizeLimits(l Limits) Limits {
	if l.MaxFileSizeBytes <= 0 {
		l.MaxFileSizeBytes = defaultMaxFileSizeBytes
	}
	return l
}

// Result is the outcome of a single operation.
type Result struct {
	Success bool
	Message string
	// Path is the resolved target; empty when resolution failed.
	Path string
	// Matches holds every path found by Search, in walk order.
	Matches []string
	// Count holds the number of hidden files found by CountHidden.
	Count int
	// Created is false when Create found the target already in place.
	Created bool
	IsDir   bool
	Err     error
}

// Ops executes filesystem operations against paths produced by a resolver.
type Ops struct {
	resolver PathResolver
	limits   Limits
}

// New creates an operation set.
func New(resolver PathResolver, limits Limits) *Ops {
	return &Ops{resolver: resolver, limits: normalizeLimits(limits)}
}

// Limits returns the limits in effect.
func (o *Ops) Limits() Limits {
	return o.limits
}

func success(path, message string) *Result {
	return &Result{Success: true, Path: path, Message: message}
}

func failure(path string, err error) *Result {
	return &Result{Success: false, Path: path, Message: err.Error(), Err: err}
}

// resolve returns the resolved path, or a failed result when resolution fails.
func (o *Ops) resolve(raw string) (string, *Result) {
	resolved, err := o.resolver.Resolve(raw)
	if err != nil {
		if apperrors.CodeOf(err) == "" {
			err = apperrors.Wrap(apperrors.CodeInvalidPath, "invalid path", err)
		}
		return "", failure("", err)
	}
	return resolved, nil
}

// guard converts a panic raised while running an operation into a failed result.
func guard(operation string, fn func() *Result) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			res = failure("", apperrors.New(apperrors.CodeIO, fmt.Sprintf("%s failed: %v", operation, r)))
		}
	}()
	return fn()
}

func ensureContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
