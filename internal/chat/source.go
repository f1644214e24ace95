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
	"context"
	"errors"
	"strings"

	"fileagent/internal/config"
	"fileagent/internal/tools"
	systemprompt "fileagent/system_prompt"

	"github.com/sashabaranov/go-openai"
)

// Reply is what the model made of one request: either an intent to
// dispatch, or plain text when it declined to call a tool.
type Reply struct {
	Intent     *tools.Intent
	ToolCallID string
	Text       string
}

// OpenAISource asks an OpenAI-compatible chat endpoint to pick one operation.
// Each call is stateless: system prompt plus the user text, nothing more.
type OpenAISource struct {
	Client       ChatClient
	Config       *config.Config
	Tools        []openai.Tool
	SystemPrompt string
}

var defaultSystemPrompt = mustLoadSystemPrompt()

func mustLoadSystemPrompt() string {
	prompt, err := systemprompt.Load()
	if err != nil {
		panic("failed to load system prompt: " + err.Error())
	}
	return prompt
}

// NewOpenAISource creates a source offering defs to the model.
func NewOpenAISource(cfg *config.Config, client ChatClient, defs []openai.Tool) *OpenAISource {
	return &OpenAISource{
		Client:       client,
		Config:       cfg,
		Tools:        defs,
		SystemPrompt: defaultSystemPrompt,
	}
}

// ParseIntent sends text to the model. Only the first tool call of the
// response is considered.
func (s *OpenAISource) ParseIntent(ctx context.Context, text string) (*Reply, error) {
	resp, err := s.Client.CreateChatCompletion(ctx, s.buildRequest(text))
	if err != nil {
		return nil, &APIError{Operation: "create_completion", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &APIError{Operation: "create_completion", Err: errors.New("response contained no choices")}
	}

	message := resp.Choices[0].Message
	if len(message.ToolCalls) == 0 {
		return &Reply{Text: strings.TrimSpace(message.Content)}, nil
	}

	call := message.ToolCalls[0]
	name := strings.TrimSpace(call.Function.Name)
	if name == "" {
		return nil, &APIError{Operation: "decode_tool_call", Err: errors.New("tool call missing function name")}
	}
	args, err := tools.ParseToolArgs(call.Function.Arguments)
	if err != nil {
		return nil, &APIError{Operation: "decode_tool_call", Err: err}
	}

	return &Reply{
		Intent:     &tools.Intent{Operation: name, Arguments: args},
		ToolCallID: call.ID,
		Text:       strings.TrimSpace(message.Content),
	}, nil
}

func (s *OpenAISource) buildRequest(text string) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model: s.Config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: s.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	}
	if len(s.Tools) > 0 {
		req.Tools = s.Tools
		req.ToolChoice = "auto"
	}

	if s.Config.Temperature != nil {
		req.Temperature = *s.Config.Temperature
	}

	if s.Config.MaxTokens != nil {
		req.MaxTokens = *s.Config.MaxTokens
	}

	return req
}
