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
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fileagent/internal/chat"
	"fileagent/internal/config"
	"fileagent/internal/fileops"
	"fileagent/internal/paths"
	"fileagent/internal/theme"
	"fileagent/internal/tools"

	"github.com/rs/zerolog"
)

// scriptedSource maps request text to a fixed intent.
type scriptedSource map[string]*tools.Intent

func (s scriptedSource) ParseIntent(ctx context.Context, text string) (*chat.Reply, error) {
	intent, ok := s[text]
	if !ok {
		return &chat.Reply{Text: "not a file operation"}, nil
	}
	return &chat.Reply{Intent: intent}, nil
}

func newTestApp(t *testing.T, home string, source chat.IntentSource) *app {
	t.Helper()
	cfg := config.DefaultConfig()
	resolver := paths.NewResolver(cfg.AliasTable(), home)
	registry := tools.NewRegistry(fileops.New(resolver, cfg.FileLimits()), cfg.RegistryOptions())
	a := &app{
		cfg:      cfg,
		resolver: resolver,
		registry: registry,
		logger:   zerolog.Nop(),
	}
	a.newSession = func() (*chat.Session, error) {
		if source == nil {
			return nil, config.ErrMissingAPIKey
		}
		return chat.NewSessionWithSource(source, registry, a.logger), nil
	}
	return a
}

func TestGetAvailableCommands(t *testing.T) {
	commands := getAvailableCommands()

	essentialCommands := []string{"help", "aliases", "types", "quit", "exit"}
	for _, essential := range essentialCommands {
		found := false
		for _, cmd := range commands {
			if cmd.Name == essential {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected essential command '%s' to be available", essential)
		}
	}
}

func TestPlainWords(t *testing.T) {
	for _, word := range []string{"exit", "QUIT", " 退出 "} {
		if !isExitWord(word) {
			t.Errorf("expected %q to be an exit word", word)
		}
	}
	for _, word := range []string{"help", "Help", "帮助"} {
		if !isHelpWord(word) {
			t.Errorf("expected %q to be a help word", word)
		}
	}
	if isExitWord("exit now") || isHelpWord("help me find pdfs") {
		t.Error("expected sentences not to match plain words")
	}
}

func TestHandleCommand(t *testing.T) {
	a := newTestApp(t, t.TempDir(), nil)
	colors := theme.DisabledColorScheme()

	tests := []struct {
		input    string
		quit     bool
		contains string
	}{
		{"/help", false, "Available Commands"},
		{"/aliases", false, "desktop"},
		{"/types", false, "*.pptx"},
		{"/operations", false, "count_hidden"},
		{"/unknown", false, "Unknown command: /unknown"},
		{"/quit", true, ""},
		{"/EXIT", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			if quit := handleCommand(tt.input, a, &out, colors); quit != tt.quit {
				t.Fatalf("expected quit=%v, got %v", tt.quit, quit)
			}
			if !strings.Contains(out.String(), tt.contains) {
				t.Fatalf("expected output to contain %q, got %q", tt.contains, out.String())
			}
		})
	}
}

func TestShowAliasesResolvesTargets(t *testing.T) {
	home := t.TempDir()
	a := newTestApp(t, home, nil)

	var out bytes.Buffer
	showAliases(&out, a, theme.DisabledColorScheme())
	if !strings.Contains(out.String(), filepath.Join(home, "Desktop")) {
		t.Fatalf("expected resolved desktop path, got %q", out.String())
	}
}

func TestShowOperationsMarksDenied(t *testing.T) {
	a := newTestApp(t, t.TempDir(), nil)
	a.registry = tools.NewRegistry(nil, tools.Options{Deny: []string{"delete"}})

	var out bytes.Buffer
	showOperations(&out, a, theme.DisabledColorScheme())
	if !strings.Contains(out.String(), "delete") || !strings.Contains(out.String(), "disabled") {
		t.Fatalf("expected delete to be disabled, got %q", out.String())
	}
}

func TestHandleLineWithoutModel(t *testing.T) {
	a := newTestApp(t, t.TempDir(), nil)
	colors := theme.DisabledColorScheme()

	var out bytes.Buffer
	quit, err := a.handleLine(context.Background(), "  help ", &out, colors)
	if quit || err != nil {
		t.Fatalf("unexpected result %v, %v", quit, err)
	}
	if !strings.Contains(out.String(), "Supported operations") {
		t.Fatalf("expected help text, got %q", out.String())
	}

	quit, err = a.handleLine(context.Background(), "退出", &out, colors)
	if !quit || err != nil {
		t.Fatalf("expected quit, got %v, %v", quit, err)
	}

	_, err = a.handleLine(context.Background(), "find pdfs", &out, colors)
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestHandleLineDispatches(t *testing.T) {
	home := t.TempDir()
	source := scriptedSource{
		"make notes": {Operation: tools.OpCreate, Arguments: map[string]interface{}{"path": "home/notes.txt"}},
		"drop ghost": {Operation: tools.OpDelete, Arguments: map[string]interface{}{"path": "home/ghost"}},
	}
	a := newTestApp(t, home, source)
	colors := theme.DisabledColorScheme()

	var out bytes.Buffer
	if _, err := a.handleLine(context.Background(), "make notes", &out, colors); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, "notes.txt")); err != nil {
		t.Fatalf("expected notes.txt to be created: %v", err)
	}
	if !strings.Contains(out.String(), "File created") {
		t.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	_, err := a.handleLine(context.Background(), "drop ghost", &out, colors)
	if !errors.Is(err, errRequestFailed) {
		t.Fatalf("expected request failure, got %v", err)
	}
	if !strings.HasPrefix(out.String(), "Error:") {
		t.Fatalf("expected error text, got %q", out.String())
	}

	out.Reset()
	if _, err := a.handleLine(context.Background(), "tell me a joke", &out, colors); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out.String()) != "not a file operation" {
		t.Fatalf("expected model text, got %q", out.String())
	}
}

func TestGetSessionIsReused(t *testing.T) {
	calls := 0
	a := newTestApp(t, t.TempDir(), scriptedSource{})
	inner := a.newSession
	a.newSession = func() (*chat.Session, error) {
		calls++
		return inner()
	}

	first, err := a.getSession()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := a.getSession()
	if first != second || calls != 1 {
		t.Fatalf("expected one shared session, got %d creations", calls)
	}
}
