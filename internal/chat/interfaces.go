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

	"fileagent/internal/tools"

	"github.com/sashabaranov/go-openai"
)

// ChatClient interface abstracts the OpenAI client for testing.
// This enables dependency injection for unit tests without making real API calls.
//
// Usage:
//   - Production: use NewSession() which creates a real openai.Client
//   - Testing: use NewSessionWithClient() with a mock implementation
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// IntentSource turns one line of user text into a structured intent.
// Implementations must not touch the filesystem.
type IntentSource interface {
	ParseIntent(ctx context.Context, text string) (*Reply, error)
}

// Dispatcher runs a single intent. *tools.Registry is the production one.
type Dispatcher interface {
	Dispatch(ctx context.Context, intent tools.Intent) *tools.ToolResult
}

// Verify that openai.Client implements ChatClient at compile time.
var _ ChatClient = (*openai.Client)(nil)

var (
	_ Dispatcher   = (*tools.Registry)(nil)
	_ IntentSource = (*OpenAISource)(nil)
)
