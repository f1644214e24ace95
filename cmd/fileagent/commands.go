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
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"fileagent/internal/theme"

	"github.com/chzyer/readline"
)

// Command represents a slash command
type Command struct {
	Name        string
	Description string
}

// getAvailableCommands returns the list of all slash commands
func getAvailableCommands() []Command {
	return []Command{
		{Name: "help", Description: "Show available commands"},
		{Name: "aliases", Description: "List directory shortcuts"},
		{Name: "types", Description: "List searchable file types"},
		{Name: "operations", Description: "List operations and whether they are enabled"},
		{Name: "quit", Description: "Exit the application"},
		{Name: "exit", Description: "Exit the application"},
	}
}

// getCommandCompleter builds a readline completer from available commands
func getCommandCompleter() *readline.PrefixCompleter {
	commands := getAvailableCommands()
	items := make([]readline.PrefixCompleterInterface, len(commands))
	for i, cmd := range commands {
		items[i] = readline.PcItem("/" + cmd.Name)
	}
	return readline.NewPrefixCompleter(items...)
}

func isExitWord(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "exit", "quit", "退出":
		return true
	}
	return false
}

func isHelpWord(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "help", "帮助":
		return true
	}
	return false
}

// handleCommand processes slash commands, returns true if should quit
func handleCommand(input string, a *app, out io.Writer, colors *theme.ColorScheme) bool {
	cmdName := strings.TrimPrefix(input, "/")
	cmdName = strings.ToLower(strings.TrimSpace(cmdName))

	a.logger.Debug().Str("command", cmdName).Msg("Executing command")

	switch cmdName {
	case "help":
		showHelp(out, colors)
	case "aliases":
		showAliases(out, a, colors)
	case "types":
		showFileTypes(out, a, colors)
	case "operations":
		showOperations(out, a, colors)
	case "quit", "exit":
		return true
	default:
		colors.Error.Fprintf(out, "✗ Unknown command: /%s (type /help for available commands)\n", cmdName)
	}
	return false
}

func showHelp(out io.Writer, colors *theme.ColorScheme) {
	colors.Header.Fprintln(out, "\nSupported operations:")
	fmt.Fprintln(out, "  Find files        find the pdf files on my desktop")
	fmt.Fprintln(out, "  Count hidden      how many hidden files are in my home folder")
	fmt.Fprintln(out, "  Create            create test.txt on the desktop")
	fmt.Fprintln(out, "  Delete            delete desktop/temp.txt")
	fmt.Fprintln(out, "  Modify            set the content of documents/config.txt to Hello")
	fmt.Fprintln(out, "\nOne operation per request; describe it in plain language.")

	colors.Header.Fprintln(out, "\nAvailable Commands:")
	for _, cmd := range getAvailableCommands() {
		fmt.Fprintf(out, "  /%-12s - %s\n", cmd.Name, cmd.Description)
	}
	fmt.Fprintln(out, "  help, 帮助     - Show this help")
	fmt.Fprintln(out, "  exit, 退出     - Exit the application")
	fmt.Fprintln(out)
}

func showAliases(out io.Writer, a *app, colors *theme.ColorScheme) {
	colors.Header.Fprintln(out, "\nDirectory shortcuts:")
	aliases := a.resolver.Aliases()
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	for _, name := range aliases.Names() {
		resolved, err := a.resolver.Resolve(name)
		if err != nil {
			resolved = aliases[name]
		}
		fmt.Fprintf(w, "  %s\t%s\n", name, resolved)
	}
	w.Flush()
	fmt.Fprintln(out)
}

func showFileTypes(out io.Writer, a *app, colors *theme.ColorScheme) {
	colors.Header.Fprintln(out, "\nSearchable file types:")
	types := a.registry.FileTypes()
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	for _, tag := range types.Names() {
		pattern, _ := types.Pattern(tag)
		fmt.Fprintf(w, "  %s\t%s\n", tag, pattern)
	}
	w.Flush()
	fmt.Fprintln(out)
}

func showOperations(out io.Writer, a *app, colors *theme.ColorScheme) {
	colors.Header.Fprintln(out, "\nOperations:")
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	for _, name := range a.registry.GetToolNames() {
		state := "enabled"
		if !a.registry.IsAllowed(name) {
			state = "disabled"
		}
		fmt.Fprintf(w, "  %s\t%s\n", name, state)
	}
	w.Flush()
	fmt.Fprintln(out)
}
