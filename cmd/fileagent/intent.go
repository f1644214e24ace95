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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fileagent/internal/chat"
	"fileagent/internal/tools"
)

// runIntent dispatches a JSON intent such as
// {"operation":"search","arguments":{"root":"desktop","file_extension":"pdf"}}
// without consulting the model.
func runIntent(a *app, raw string, out io.Writer) error {
	intent, err := decodeIntent(raw)
	if err != nil {
		return err
	}

	session := chat.NewSessionWithSource(nil, a.registry, a.logger)
	text, err := session.Dispatch(context.Background(), intent)
	fmt.Fprintln(out, text)
	if err != nil {
		return fmt.Errorf("%w: %v", errRequestFailed, err)
	}
	return nil
}

func decodeIntent(raw string) (tools.Intent, error) {
	var intent tools.Intent
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&intent); err != nil {
		return tools.Intent{}, fmt.Errorf("invalid intent: %w", err)
	}
	if strings.TrimSpace(intent.Operation) == "" {
		return tools.Intent{}, fmt.Errorf("invalid intent: missing operation")
	}
	return intent, nil
}
