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
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/567-labs/instructor-go/pkg/instructor"
)

// searchArgs, countHiddenArgs, createArgs, deleteArgs and modifyArgs
// describe the operation parameters. Their JSON schemas are generated with
// instructor and handed to the model; fields without omitempty are required.

type searchArgs struct {
	Root          string `json:"root" jsonschema:"description=Directory to search. Accepts aliases such as desktop or downloads" validate:"max=4096"`
	FileExtension string `json:"file_extension" jsonschema:"description=File type to look for such as pdf or docx" validate:"required,max=16"`
	Recursive     *bool  `json:"recursive,omitempty" jsonschema:"description=Also search sub-folders (default: true)"`
}

type countHiddenArgs struct {
	Root string `json:"root" jsonschema:"description=Directory in which to count hidden files" validate:"max=4096"`
}

type createArgs struct {
	Path     string `json:"path" jsonschema:"description=Path of the file or folder to create" validate:"max=4096"`
	IsFolder bool   `json:"is_folder,omitempty" jsonschema:"description=Create a folder instead of a file (default: false)"`
}

type deleteArgs struct {
	Path string `json:"path" jsonschema:"description=Path of the file or folder to delete" validate:"max=4096"`
}

type modifyArgs struct {
	Path    string `json:"path" jsonschema:"description=Path of the existing file to overwrite" validate:"max=4096"`
	Content string `json:"content,omitempty" jsonschema:"description=New content of the file (default: empty)"`
}

func mustSchemaParametersFor[T any]() map[string]interface{} {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		panic("schema type is nil")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	params, err := schemaParametersForType(t)
	if err != nil {
		panic(err)
	}
	return params
}

func schemaParametersForType(t reflect.Type) (map[string]interface{}, error) {
	schema, err := instructor.NewSchema(t)
	if err != nil {
		return nil, err
	}

	defName := t.Name()
	for _, fn := range schema.Functions {
		if fn.Name != defName {
			continue
		}
		params, err := jsonSchemaToMap(fn.Parameters)
		if err != nil {
			return nil, err
		}
		delete(params, "$schema")
		delete(params, "$id")
		if _, ok := params["type"]; !ok {
			params["type"] = "object"
		}
		return params, nil
	}

	return nil, fmt.Errorf("schema definition %q not found", defName)
}

func jsonSchemaToMap(schema interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var params map[string]interface{}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	return params, nil
}
