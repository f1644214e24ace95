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

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func toolCall(t *testing.T, name string, args map[string]interface{}) openai.ToolCall {
	t.Helper()
	raw, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("failed to marshal args: %v", err)
	}
	return openai.ToolCall{
		ID:   "call-1",
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Name:      name,
			Arguments: string(raw),
		},
	}
}

func TestDispatchToolCallLifecycleIntegration(t *testing.T) {
	registry, home := newTestRegistry(t, Options{})
	ctx := context.Background()
	target := filepath.Join(home, "Documents", "plan.txt")

	steps := []struct {
		name string
		args map[string]interface{}
	}{
		{OpCreate, map[string]interface{}{"path": "documents/plan.txt"}},
		{OpModify, map[string]interface{}{"path": "Documents/plan.txt", "content": "integration content"}},
		{OpCreate, map[string]interface{}{"path": "文档/archive", "is_folder": true}},
	}
	for _, step := range steps {
		result := registry.DispatchToolCall(ctx, toolCall(t, step.name, step.args))
		if result.Error != nil {
			t.Fatalf("%s: expected success, got %v", step.name, result.Error)
		}
	}
	assertFileContent(t, target, "integration content")
	if info, err := os.Stat(filepath.Join(home, "Documents", "archive")); err != nil || !info.IsDir() {
		t.Fatalf("expected archive folder, err=%v", err)
	}

	search := registry.DispatchToolCall(ctx, toolCall(t, OpSearch, map[string]interface{}{
		"root":           "documents",
		"file_extension": "txt",
		"recursive":      "false",
	}))
	if search.Error != nil {
		t.Fatalf("expected search success, got %v", search.Error)
	}
	if len(search.Matches) != 1 || search.Matches[0] != target {
		t.Fatalf("expected plan.txt match, got %v", search.Matches)
	}

	deleted := registry.DispatchToolCall(ctx, toolCall(t, OpDelete, map[string]interface{}{"path": "documents/plan.txt"}))
	if deleted.Error != nil {
		t.Fatalf("expected delete success, got %v", deleted.Error)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err=%v", err)
	}
}

func TestDispatchToolCallInvalidJSON(t *testing.T) {
	registry, _ := newTestRegistry(t, Options{})
	call := openai.ToolCall{
		ID:   "call-1",
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Name:      OpDelete,
			Arguments: `{"path": `,
		},
	}
	result := registry.DispatchToolCall(context.Background(), call)
	if !errors.Is(result.Error, ErrInvalidArguments) {
		t.Fatalf("expected ErrInvalidArguments, got %v", result.Error)
	}
	if result.Function != OpDelete {
		t.Fatalf("expected function name to be kept, got %s", result.Function)
	}
}

func TestDispatchToolCallMissingName(t *testing.T) {
	registry, _ := newTestRegistry(t, Options{})
	call := openai.ToolCall{
		ID:   "call-1",
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Arguments: `{"path": "."}`,
		},
	}
	result := registry.DispatchToolCall(context.Background(), call)
	if result.Error == nil {
		t.Fatal("expected error for missing function name")
	}
	if result.Function != "unknown_tool" {
		t.Fatalf("expected function to default to unknown_tool, got %s", result.Function)
	}
	if !strings.HasPrefix(result.Result, "Error: ") {
		t.Fatalf("expected error message, got %q", result.Result)
	}
}

func TestParseToolArgs(t *testing.T) {
	args, err := ParseToolArgs("  ")
	if err != nil || len(args) != 0 {
		t.Fatalf("expected empty args for blank input, got %v (%v)", args, err)
	}
	if _, err := ParseToolArgs("[1,2]"); err == nil {
		t.Fatal("expected error for non-object arguments")
	}
}
