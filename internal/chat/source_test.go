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
	"testing"

	"fileagent/internal/config"
	"fileagent/internal/tools"

	"github.com/sashabaranov/go-openai"
)

func testConfig() *config.Config {
	return &config.Config{
		APIKey: "test-key",
		Model:  "gpt-4o-mini",
	}
}

func TestBuildRequest(t *testing.T) {
	temp := float32(0.2)
	maxTokens := 256
	cfg := testConfig()
	cfg.Temperature = &temp
	cfg.MaxTokens = &maxTokens

	defs := newTestRegistry(t, t.TempDir()).OpenAITools()
	source := NewOpenAISource(cfg, &MockChatClient{}, defs)
	req := source.buildRequest("find pdf files on the desktop")

	if req.Model != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini, got %q", req.Model)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != openai.ChatMessageRoleSystem || req.Messages[0].Content != defaultSystemPrompt {
		t.Errorf("unexpected system message: %+v", req.Messages[0])
	}
	if req.Messages[1].Role != openai.ChatMessageRoleUser || req.Messages[1].Content != "find pdf files on the desktop" {
		t.Errorf("unexpected user message: %+v", req.Messages[1])
	}
	if len(req.Tools) != 5 {
		t.Errorf("expected 5 tools, got %d", len(req.Tools))
	}
	if req.ToolChoice != "auto" {
		t.Errorf("expected tool_choice auto, got %v", req.ToolChoice)
	}
	if req.Temperature != temp {
		t.Errorf("expected temperature %v, got %v", temp, req.Temperature)
	}
	if req.MaxTokens != maxTokens {
		t.Errorf("expected max tokens %d, got %d", maxTokens, req.MaxTokens)
	}
}

func TestBuildRequestWithoutTools(t *testing.T) {
	source := NewOpenAISource(testConfig(), &MockChatClient{}, nil)
	req := source.buildRequest("hello")
	if req.ToolChoice != nil {
		t.Errorf("expected no tool_choice without tools, got %v", req.ToolChoice)
	}
	if req.Temperature != 0 || req.MaxTokens != 0 {
		t.Errorf("expected unset sampling fields, got %v/%d", req.Temperature, req.MaxTokens)
	}
}

func TestSystemPromptListsOperations(t *testing.T) {
	for _, name := range []string{tools.OpSearch, tools.OpCountHidden, tools.OpCreate, tools.OpDelete, tools.OpModify} {
		if !strings.Contains(defaultSystemPrompt, name) {
			t.Errorf("system prompt does not mention %q", name)
		}
	}
}

func TestParseIntentUsesFirstToolCall(t *testing.T) {
	client := &MockChatClient{
		CreateCompletionFunc: func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			return toolCallResponse(
				functionCall("call-1", "search", `{"root":"desktop","file_extension":"pdf"}`),
				functionCall("call-2", "delete", `{"path":"desktop"}`),
			), nil
		},
	}
	source := NewOpenAISource(testConfig(), client, nil)

	reply, err := source.ParseIntent(context.Background(), "find pdfs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Intent == nil {
		t.Fatal("expected an intent")
	}
	if reply.Intent.Operation != "search" || reply.ToolCallID != "call-1" {
		t.Fatalf("expected first call to win, got %+v (%s)", reply.Intent, reply.ToolCallID)
	}
	if reply.Intent.Arguments["root"] != "desktop" || reply.Intent.Arguments["file_extension"] != "pdf" {
		t.Fatalf("unexpected arguments: %v", reply.Intent.Arguments)
	}
	if len(client.CompletionCalls) != 1 {
		t.Errorf("expected 1 completion call, got %d", len(client.CompletionCalls))
	}
}

func TestParseIntentTextReply(t *testing.T) {
	client := &MockChatClient{
		CreateCompletionFunc: func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			return textResponse("  I can only manage files.  "), nil
		},
	}
	reply, err := NewOpenAISource(testConfig(), client, nil).ParseIntent(context.Background(), "what's the weather")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Intent != nil {
		t.Fatalf("expected no intent, got %+v", reply.Intent)
	}
	if reply.Text != "I can only manage files." {
		t.Fatalf("unexpected text %q", reply.Text)
	}
}

func TestParseIntentFailures(t *testing.T) {
	upstream := errors.New("connection refused")
	tests := []struct {
		name      string
		resp      openai.ChatCompletionResponse
		err       error
		operation string
	}{
		{"client error", openai.ChatCompletionResponse{}, upstream, "create_completion"},
		{"no choices", openai.ChatCompletionResponse{}, nil, "create_completion"},
		{"malformed arguments", toolCallResponse(functionCall("c", "create", `{"path":`)), nil, "decode_tool_call"},
		{"missing name", toolCallResponse(functionCall("c", " ", `{}`)), nil, "decode_tool_call"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockChatClient{
				CreateCompletionFunc: func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
					return tt.resp, tt.err
				},
			}
			reply, err := NewOpenAISource(testConfig(), client, nil).ParseIntent(context.Background(), "do it")
			if reply != nil {
				t.Fatalf("expected nil reply, got %+v", reply)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %T %v", err, err)
			}
			if apiErr.Operation != tt.operation {
				t.Errorf("expected operation %q, got %q", tt.operation, apiErr.Operation)
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("expected upstream cause to be preserved, got %v", err)
			}
		})
	}
}
