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
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"fileagent/internal/config"

	"github.com/rs/zerolog"
)

var (
	debugMode          = flag.Bool("d", false, "Enable debug mode")
	logFile            = flag.String("log-file", "", "Log file path (logs disabled by default)")
	configFile         = flag.String("config", "config.json", "Configuration file path")
	intentFlag         = flag.String("intent", "", "Dispatch a JSON intent directly, without the language model")
	printConfigSchema  = flag.Bool("print-config-schema", false, "Print the config.json schema and exit")
	printConfigExample = flag.Bool("print-config-example", false, "Print an example config.json and exit")
)

func main() {
	flag.Parse()

	if *printConfigSchema {
		fmt.Println(config.SchemaJSON())
		return
	}
	if *printConfigExample {
		fmt.Println(config.ExampleConfigJSON())
		return
	}

	// Initialize logger
	logger, closer, err := initLogger(*debugMode, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	code := run(logger)
	if closer != nil {
		_ = closer.Close()
	}
	os.Exit(code)
}

func run(logger zerolog.Logger) int {
	logger.Info().Msg("fileagent starting")

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load config")
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	a := newApp(cfg, logger)

	if *intentFlag != "" {
		return exitCode(runIntent(a, *intentFlag, os.Stdout))
	}

	// Batch mode with "-" argument, or whenever stdin is not a terminal
	args := flag.Args()
	if (len(args) > 0 && args[0] == "-") || !isInteractive(os.Stdin) {
		return exitCode(runBatch(a, os.Stdin, os.Stdout))
	}

	return exitCode(runREPL(a))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if !errors.Is(err, errRequestFailed) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return 1
}

// initLogger returns a logger writing to logFilePath, or a discarding one.
// The closer is nil when no file was opened.
func initLogger(debug bool, logFilePath string) (zerolog.Logger, io.Closer, error) {
	// Set log level
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if logFilePath == "" {
		// No logging to console by default
		return zerolog.New(io.Discard), nil, nil
	}

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}

	// Create logger with timestamp
	return zerolog.New(file).With().Timestamp().Logger(), file, nil
}
