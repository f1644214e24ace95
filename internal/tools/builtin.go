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

	"fileagent/internal/fileops"
)

// Operation names understood by the dispatcher.
const (
	OpSearch      = "search"
	OpCountHidden = "count_hidden"
	OpCreate      = "create"
	OpDelete      = "delete"
	OpModify      = "modify"
)

// FileOperations is the filesystem backend the built-in operations call.
type FileOperations interface {
	Search(ctx context.Context, root, pattern string, recursive bool) *fileops.Result
	CountHidden(ctx context.Context, root string) *fileops.Result
	Create(ctx context.Context, path string, isFolder bool) *fileops.Result
	Delete(ctx context.Context, path string) *fileops.Result
	Modify(ctx context.Context, path, content string) *fileops.Result
}

var _ FileOperations = (*fileops.Ops)(nil)

// registerBuiltInTools registers the five file operations to the registry.
func registerBuiltInTools(r *Registry) {
	register := func(tool Tool) {
		if err := r.RegisterTool(tool); err != nil {
			panic(err)
		}
	}

	register(&ToolDefinition{
		NameValue:        OpSearch,
		DescriptionValue: "Search a directory for files of a given type. Hidden files and folders are skipped.",
		ParametersValue:  mustSchemaParametersFor[searchArgs](),
		ExecuteFunc:      r.search,
		ValidateFunc: ChainValidation(
			RequireStringArg("root"),
			RequireNonEmptyArg("file_extension"),
			OptionalBoolArg("recursive"),
		),
	})

	register(&ToolDefinition{
		NameValue:        OpCountHidden,
		DescriptionValue: "Count hidden files (names starting with a dot) in a directory and all of its sub-folders",
		ParametersValue:  mustSchemaParametersFor[countHiddenArgs](),
		ExecuteFunc:      r.countHidden,
		ValidateFunc:     RequireStringArg("root"),
	})

	register(&ToolDefinition{
		NameValue:        OpCreate,
		DescriptionValue: "Create an empty file or a folder. Missing parent folders are created; existing targets are left untouched.",
		ParametersValue:  mustSchemaParametersFor[createArgs](),
		ExecuteFunc:      r.create,
		ValidateFunc: ChainValidation(
			RequireStringArg("path"),
			OptionalBoolArg("is_folder"),
		),
	})

	register(&ToolDefinition{
		NameValue:        OpDelete,
		DescriptionValue: "Delete a file or a folder with everything inside it. Deletion is immediate.",
		ParametersValue:  mustSchemaParametersFor[deleteArgs](),
		ExecuteFunc:      r.delete,
		ValidateFunc:     RequireStringArg("path"),
	})

	register(&ToolDefinition{
		NameValue:        OpModify,
		DescriptionValue: "Replace the whole content of an existing text file",
		ParametersValue:  mustSchemaParametersFor[modifyArgs](),
		ExecuteFunc:      r.modify,
		ValidateFunc: ChainValidation(
			RequireStringArg("path"),
			OptionalStringArg("content"),
		),
	})
}

func (r *Registry) search(ctx context.Context, args map[string]interface{}) (Output, error) {
	parsed, err := unmarshalAndValidate[searchArgs](coerceBoolArgs(args, "recursive"))
	if err != nil {
		return Output{}, invalidArguments(err)
	}

	tag := NormalizeFileType(parsed.FileExtension)
	pattern, ok := r.fileTypes.Pattern(tag)
	if !ok {
		return Output{}, unsupportedFileType(tag, r.fileTypes.Names())
	}
	recursive := true
	if parsed.Recursive != nil {
		recursive = *parsed.Recursive
	}

	res := r.ops.Search(ctx, parsed.Root, pattern, recursive)
	if !res.Success {
		return Output{}, res.Err
	}
	return Output{Text: formatSearch(tag, res.Path, res.Matches), Path: res.Path, Matches: res.Matches}, nil
}

func (r *Registry) countHidden(ctx context.Context, args map[string]interface{}) (Output, error) {
	parsed, err := unmarshalAndValidate[countHiddenArgs](args)
	if err != nil {
		return Output{}, invalidArguments(err)
	}
	res := r.ops.CountHidden(ctx, parsed.Root)
	if !res.Success {
		return Output{}, res.Err
	}
	return Output{Text: formatCountHidden(res.Path, res.Count), Path: res.Path}, nil
}

func (r *Registry) create(ctx context.Context, args map[string]interface{}) (Output, error) {
	parsed, err := unmarshalAndValidate[createArgs](coerceBoolArgs(args, "is_folder"))
	if err != nil {
		return Output{}, invalidArguments(err)
	}
	return resultOutput(r.ops.Create(ctx, parsed.Path, parsed.IsFolder))
}

func (r *Registry) delete(ctx context.Context, args map[string]interface{}) (Output, error) {
	parsed, err := unmarshalAndValidate[deleteArgs](args)
	if err != nil {
		return Output{}, invalidArguments(err)
	}
	return resultOutput(r.ops.Delete(ctx, parsed.Path))
}

func (r *Registry) modify(ctx context.Context, args map[string]interface{}) (Output, error) {
	parsed, err := unmarshalAndValidate[modifyArgs](args)
	if err != nil {
		return Output{}, invalidArguments(err)
	}
	return resultOutput(r.ops.Modify(ctx, parsed.Path, parsed.Content))
}

func resultOutput(res *fileops.Result) (Output, error) {
	if !res.Success {
		return Output{}, res.Err
	}
	return Output{Text: capitalize(res.Message), Path: res.Path}, nil
}
