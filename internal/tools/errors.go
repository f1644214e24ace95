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
	"errors"
	"fmt"

	apperrors "fileagent/internal/errors"
)

// Common tool errors
var (
	// ErrToolNotAllowed indicates an operation is disabled by configuration.
	ErrToolNotAllowed = errors.New("operation disabled by configuration")

	// ErrUnknownOperation indicates the intent names an operation outside the registry.
	ErrUnknownOperation = apperrors.New(apperrors.CodeUnknownOperation, "unknown operation")

	// ErrInvalidArguments indicates tool arguments are invalid or malformed.
	ErrInvalidArguments = apperrors.New(apperrors.CodeInvalidArguments, "invalid tool arguments")
)

func invalidArguments(err error) error {
	return apperrors.Wrap(apperrors.CodeInvalidArguments, ErrInvalidArguments.Message, err)
}

func unknownOperation(name string) error {
	return apperrors.New(apperrors.CodeUnknownOperation, fmt.Sprintf("unknown operation: %s", name))
}

func unsupportedFileType(tag string, supported []string) error {
	return apperrors.New(apperrors.CodeUnsupportedType, fmt.Sprintf("unsupported file type %q (supported: %v)", tag, supported))
}
