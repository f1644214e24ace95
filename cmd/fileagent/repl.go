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
	"errors"
	"fmt"
	"io"
	"os"

	"fileagent/internal/theme"

	"github.com/chzyer/readline"
)

func runREPL(a *app) error {
	a.logger.Debug().Msg("Running in interactive mode")

	// The REPL is useless without the model; fail before drawing anything.
	if _, err := a.getSession(); err != nil {
		return err
	}

	colors := a.loadColors(os.Stdout)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:              colors.Prompt.Sprint("❯ "),
		HistoryFile:         a.cfg.CommandHistoryFile,
		AutoComplete:        getCommandCompleter(),
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		FuncFilterInputRune: filterInterruptRune,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	out := rl.Stdout()
	showBanner(out, a, colors)

	canceler := &operationCanceler{}

	// Main event loop
	for {
		line, err := rl.Readline()
		switch classifyReadlineError(line, err) {
		case readlineContinue:
			continue
		case readlineExit:
			a.logger.Info().Msg("Session ended")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		canceler.Set(cancel)
		stop := watchInterrupts(canceler)
		quit, err := a.handleLine(ctx, sanitizeInputLine(line), out, colors)
		stop()
		canceler.Clear()
		cancel()

		if err != nil && !errors.Is(err, errRequestFailed) {
			return err
		}
		if quit {
			a.logger.Info().Msg("Session ended")
			return nil
		}
	}
}

func showBanner(out io.Writer, a *app, colors *theme.ColorScheme) {
	colors.Header.Fprintln(out, "fileagent")
	fmt.Fprintf(out, "Connected to: %s\n", a.cfg.APIURL)
	fmt.Fprintf(out, "Model in use: %s\n", a.cfg.Model)
	fmt.Fprintln(out, "Describe one file operation in plain language. Type help or /help for examples, exit to leave.")
	fmt.Fprintln(out)
}
