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
	"strings"

	"fileagent/internal/chat"
	"fileagent/internal/config"
	"fileagent/internal/fileops"
	"fileagent/internal/paths"
	"fileagent/internal/theme"
	"fileagent/internal/tools"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// errRequestFailed marks a request whose failure was already shown to the user.
var errRequestFailed = errors.New("request failed")

// app holds everything the front ends share.
type app struct {
	cfg      *config.Config
	resolver *paths.Resolver
	registry *tools.Registry
	logger   zerolog.Logger

	session    *chat.Session
	newSession func() (*chat.Session, error)
}

func newApp(cfg *config.Config, logger zerolog.Logger) *app {
	resolver := paths.NewResolver(cfg.AliasTable(), "")
	registry := tools.NewRegistry(fileops.New(resolver, cfg.FileLimits()), cfg.RegistryOptions())

	for _, warning := range cfg.Validate(registry) {
		logger.Warn().Str("field", warning.Field).Msg(warning.Message)
	}

	a := &app{
		cfg:      cfg,
		resolver: resolver,
		registry: registry,
		logger:   logger,
	}
	a.newSession = func() (*chat.Session, error) {
		if err := cfg.RequireAPIKey(); err != nil {
			return nil, err
		}
		return chat.NewSession(cfg, registry, logger), nil
	}
	return a
}

// getSession creates the model-backed session on first use, so that
// modes which never reach the model work without an API key.
func (a *app) getSession() (*chat.Session, error) {
	if a.session != nil {
		return a.session, nil
	}
	session, err := a.newSession()
	if err != nil {
		return nil, err
	}
	a.session = session
	return session, nil
}

// handleLine processes one line of user input. quit reports an exit request.
// A failed request yields an error wrapping errRequestFailed; any other
// error means the line could not be handled at all.
func (a *app) handleLine(ctx context.Context, line string, out io.Writer, colors *theme.ColorScheme) (quit bool, err error) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return false, nil
	case isExitWord(line):
		return true, nil
	case isHelpWord(line):
		showHelp(out, colors)
		return false, nil
	case strings.HasPrefix(line, "/"):
		return handleCommand(line, a, out, colors), nil
	}

	session, err := a.getSession()
	if err != nil {
		return false, err
	}

	a.logger.Info().Str("user_input", line).Msg("User input received")
	text, err := session.Process(ctx, line)
	printResult(out, colors, text, err)
	if err != nil {
		return false, fmt.Errorf("%w: %v", errRequestFailed, err)
	}
	return false, nil
}

func printResult(out io.Writer, colors *theme.ColorScheme, text string, err error) {
	if err != nil {
		colors.Error.Fprintln(out, text)
		return
	}
	colors.Result.Fprintln(out, text)
}

// loadColors returns the configured color scheme, or a plain one when out
// is not a terminal.
func (a *app) loadColors(out *os.File) *theme.ColorScheme {
	manager, err := theme.NewManager(a.cfg.ThemeFile)
	if err != nil {
		a.logger.Warn().Err(err).Str("theme_file", a.cfg.ThemeFile).Msg("Falling back to default theme")
		manager = theme.NewManagerWithTheme(theme.DefaultTheme())
	}
	if !isInteractive(out) {
		manager.DisableColor()
	}
	return manager.ColorScheme()
}

func isInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
