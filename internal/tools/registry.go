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

// Package tools turns structured intents into file operations and renders
// their outcome as one human-readable string.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
)

// Intent is a single requested operation and its raw arguments, typically
// decoded from a model function call.
type Intent struct {
	Operation string                 `json:"operation"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ToolResult represents the result of a dispatched operation.
type ToolResult struct {
	Function string
	Result   string
	// Path is the resolved target; empty when the operation failed.
	Path string
	// Matches holds the full, untruncated search matches.
	Matches []string
	Error   error
}

// Success reports whether the operation completed without error.
func (r *ToolResult) Success() bool {
	return r != nil && r.Error == nil
}

// Options configures a Registry.
type Options struct {
	// FileTypes defaults to DefaultFileTypes when nil.
	FileTypes FileTypeTable
	// Deny lists operations that must not run.
	Deny          []string
	OutputFilters OutputFilterConfig
}

// Registry holds the available operations and dispatches intents to them.
// It is safe for concurrent use; the operations themselves are not
// serialized.
type Registry struct {
	mu        sync.RWMutex
	tools     map[string]Tool
	order     []string
	denied    map[string]bool
	ops       FileOperations
	fileTypes FileTypeTable
	filters   OutputFilterConfig
}

// NewRegistry creates a registry over ops and registers the built-in operations.
func NewRegistry(ops FileOperations, opts Options) *Registry {
	fileTypes := opts.FileTypes
	if fileTypes == nil {
		fileTypes = DefaultFileTypes()
	}
	r := &Registry{
		tools:     make(map[string]Tool),
		denied:    make(map[string]bool),
		ops:       ops,
		fileTypes: fileTypes.clone(),
		filters:   normalizeOutputFilterConfig(opts.OutputFilters),
	}

	registerBuiltInTools(r)
	for _, name := range opts.Deny {
		r.denied[strings.TrimSpace(name)] = true
	}

	return r
}

// RegisterTool adds a new tool to the registry.
func (r *Registry) RegisterTool(tool Tool) error {
	if tool == nil || strings.TrimSpace(tool.Name()) == "" {
		return fmt.Errorf("tool name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name()]; exists {
		return fmt.Errorf("tool %q already registered", tool.Name())
	}
	r.tools[tool.Name()] = tool
	r.order = append(r.order, tool.Name())
	return nil
}

// GetToolNames returns the registered operation names in registration order.
func (r *Registry) GetToolNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// FileTypes returns a copy of the file type table used by search.
func (r *Registry) FileTypes() FileTypeTable {
	return r.fileTypes.clone()
}

// IsAllowed reports whether name is registered and not disabled.
func (r *Registry) IsAllowed(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok && !r.denied[name]
}

// OpenAITools returns the enabled operations as OpenAI tool definitions.
func (r *Registry) OpenAITools() []openai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]openai.Tool, 0, len(r.order))
	for _, name := range r.order {
		if r.denied[name] {
			continue
		}
		tool := r.tools[name]
		defs = append(defs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  tool.Parameters(),
			},
		})
	}
	return defs
}

// Dispatch validates intent and runs exactly one operation. It never panics
// and never returns nil; failures are reported in the result.
func (r *Registry) Dispatch(ctx context.Context, intent Intent) *ToolResult {
	name := strings.TrimSpace(intent.Operation)
	result := &ToolResult{Function: name}

	tool, exists := r.getTool(name)
	if !exists {
		result.Error = unknownOperation(name)
		return r.finish(result, fmt.Sprintf("%s. Available operations: %s", formatFailure(result.Error), strings.Join(r.GetToolNames(), ", ")))
	}

	if r.isDenied(name) {
		result.Error = fmt.Errorf("%w: %s", ErrToolNotAllowed, name)
		return r.finish(result, fmt.Sprintf("Operation '%s' is disabled by configuration.", name))
	}

	args := intent.Arguments
	if args == nil {
		args = map[string]interface{}{}
	}
	if err := tool.Validate(args); err != nil {
		result.Error = invalidArguments(err)
		return r.finish(result, formatFailure(result.Error))
	}

	out, err := tool.Execute(ctx, args)
	if err != nil {
		result.Error = err
		return r.finish(result, formatFailure(err))
	}
	result.Path = out.Path
	result.Matches = out.Matches
	return r.finish(result, out.Text)
}

// DispatchToolCall decodes an OpenAI tool call into an intent and dispatches it.
func (r *Registry) DispatchToolCall(ctx context.Context, call openai.ToolCall) *ToolResult {
	name := call.Function.Name
	if name == "" {
		result := &ToolResult{Function: "unknown_tool", Error: fmt.Errorf("%w: tool call missing function name", ErrUnknownOperation)}
		return r.finish(result, formatFailure(result.Error))
	}
	args, err := parseToolArgs(call.Function.Arguments)
	if err != nil {
		result := &ToolResult{Function: name, Error: invalidArguments(err)}
		return r.finish(result, formatFailure(result.Error))
	}
	return r.Dispatch(ctx, Intent{Operation: name, Arguments: args})
}

// ParseToolArgs decodes a JSON argument object. Blank input yields an empty map.
func ParseToolArgs(argsJSON string) (map[string]interface{}, error) {
	return parseToolArgs(argsJSON)
}

func parseToolArgs(argsJSON string) (map[string]interface{}, error) {
	args := map[string]interface{}{}
	if strings.TrimSpace(argsJSON) == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return nil, err
	}
	return args, nil
}

func (r *Registry) finish(result *ToolResult, text string) *ToolResult {
	result.Result, _ = sanitizeOutput(r.filters, text)
	return result
}

// getTool safely retrieves a tool definition.
func (r *Registry) getTool(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

func (r *Registry) isDenied(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.denied[name]
}
