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

package chat

import (
	"fmt"

	apperrors "fileagent/internal/errors"
)

// ErrAPI marks every failure of the intent source, whatever the upstream cause.
var ErrAPI = apperrors.New(apperrors.CodeAPI, "intent source failure")

// APIError represents an error from the OpenAI API.
type APIError struct {
	Operation string
	Err       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error during %s: %v", e.Operation, e.Err)
}

// Unwrap exposes both the api code and the upstream cause.
func (e *APIError) Unwrap() []error {
	return []error{ErrAPI, e.Err}
}
