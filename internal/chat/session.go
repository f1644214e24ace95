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

// Package chat connects free-form user text to the operation dispatcher
// through a language model.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fileagent/internal/config"
	"fileagent/internal/tools"
	systemprompt "fileagent/system_prompt"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

// UnclearRequestMessage is returned when the model neither called a tool
// nor produced any text.
const UnclearRequestMessage = "Sorry, I could not understand the request. Try something like \"find pdf files on the desktop\"."

// Session turns one line of user text into at most one dispatched operation.
// It keeps no conversation history.
type Session struct {
	Source     IntentSource
	Dispatcher Dispatcher
	Logger     zerolog.Logger
}

// NewSession creates a session backed by a default OpenAI client.
func NewSession(cfg *config.Config, registry *tools.Registry, logger zerolog.Logger) *Session {
	// Create client with custom base URL if provided
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIURL != "" {
		clientConfig.BaseURL = cfg.APIURL
	}

	client := openai.NewClientWithConfig(clientConfig)
	return NewSessionWithClient(cfg, client, registry, logger)
}

// NewSessionWithClient creates a session with a provided client (for testing).
func NewSessionWithClient(cfg *config.Config, client ChatClient, registry *tools.Registry, logger zerolog.Logger) *Session {
	source := NewOpenAISource(cfg, client, registry.OpenAITools())
	source.SystemPrompt = systemprompt.Compose(source.SystemPrompt, systemprompt.Vocabulary{
		Aliases:   cfg.AliasTable().Names(),
		FileTypes: registry.FileTypes().Names(),
	})
	return NewSessionWithSource(source, registry, logger)
}

// NewSessionWithSource wires an arbitrary intent source to a dispatcher.
func NewSessionWithSource(source IntentSource, dispatcher Dispatcher, logger zerolog.Logger) *Session {
	return &Session{
		Source:     source,
		Dispatcher: dispatcher,
		Logger:     logger,
	}
}

// Process handles one request and returns the text to show the user.
// The error is non-nil when the request failed; the text then already
// describes the failure.
func (s *Session) Process(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return UnclearRequestMessage, nil
	}

	s.Logger.Info().
		Str("role", openai.ChatMessageRoleUser).
		Str("content", text).
		Msg("conversation")

	reply, err := s.Source.ParseIntent(ctx, text)
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			err = &APIError{Operation: "parse_intent", Err: err}
		}
		s.Logger.Error().Err(err).Msg("Intent source failed")
		return fmt.Sprintf("Error: %v", err), err
	}

	if reply == nil || reply.Intent == nil {
		if reply != nil && reply.Text != "" {
			s.Logger.Info().
				Str("role", openai.ChatMessageRoleAssistant).
				Str("content", reply.Text).
				Msg("conversation")
			return reply.Text, nil
		}
		return UnclearRequestMessage, nil
	}

	return s.Dispatch(ctx, *reply.Intent)
}

// Dispatch runs intent once and logs its outcome.
func (s *Session) Dispatch(ctx context.Context, intent tools.Intent) (string, error) {
	s.Logger.Debug().
		Str("operation", intent.Operation).
		Interface("arguments", intent.Arguments).
		Msg("Dispatching operation")

	start := time.Now()
	result := s.Dispatcher.Dispatch(ctx, intent)
	elapsed := time.Since(start)

	event := s.Logger.Info()
	if !result.Success() {
		event = s.Logger.Warn().Err(result.Error)
	}
	event.
		Str("operation", result.Function).
		Str("path", result.Path).
		Bool("success", result.Success()).
		Dur("duration", elapsed).
		Msg("Operation dispatched")

	return result.Result, result.Error
}
