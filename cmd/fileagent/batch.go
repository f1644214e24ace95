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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"fileagent/internal/theme"
)

// runBatch handles one request per input line until EOF or an exit word.
// Every line is processed even when an earlier one failed; the returned
// error then wraps errRequestFailed.
func runBatch(a *app, in io.Reader, out io.Writer) error {
	a.logger.Debug().Msg("Running in batch mode")

	colors := theme.DisabledColorScheme()
	ctx := context.Background()
	failed := 0

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		quit, err := a.handleLine(ctx, scanner.Text(), out, colors)
		if err != nil {
			if !errors.Is(err, errRequestFailed) {
				return err
			}
			failed++
		}
		if quit {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of the requests", errRequestFailed, failed)
	}
	return nil
}
