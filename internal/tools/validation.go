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
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationRule checks tool arguments and returns an error if invalid.
type ValidationRule func(args map[string]interface{}) error

// ChainValidation runs rules in order until the first error.
func ChainValidation(rules ...ValidationRule) ValidationRule {
	return func(args map[string]interface{}) error {
		for _, rule := range rules {
			if rule == nil {
				continue
			}
			if err := rule(args); err != nil {
				return err
			}
		}
		return nil
	}
}

// RequireStringArg ensures a string argument is present. Empty strings pass;
// whether they are meaningful is up to the operation.
func RequireStringArg(key string) ValidationRule {
	return func(args map[string]interface{}) error {
		value, ok := args[key]
		if !ok || value == nil {
			return fmt.Errorf("missing '%s' parameter", key)
		}
		if _, ok := value.(string); !ok {
			return fmt.Errorf("invalid '%s' parameter: expected string", key)
		}
		return nil
	}
}

// RequireNonEmptyArg ensures a string argument is present and non-blank.
func RequireNonEmptyArg(key string) ValidationRule {
	return func(args map[string]interface{}) error {
		if err := RequireStringArg(key)(args); err != nil {
			return err
		}
		if strings.TrimSpace(args[key].(string)) == "" {
			return fmt.Errorf("missing '%s' parameter", key)
		}
		return nil
	}
}

// OptionalStringArg accepts an absent argument or a string.
func OptionalStringArg(key string) ValidationRule {
	return func(args map[string]interface{}) error {
		value, ok := args[key]
		if !ok || value == nil {
			return nil
		}
		if _, ok := value.(string); !ok {
			return fmt.Errorf("invalid '%s' parameter: expected string", key)
		}
		return nil
	}
}

// OptionalBoolArg accepts an absent argument, a boolean, or the strings
// "true" and "false".
func OptionalBoolArg(key string) ValidationRule {
	return func(args map[string]interface{}) error {
		value, ok := args[key]
		if !ok || value == nil {
			return nil
		}
		if _, ok := parseBool(value); !ok {
			return fmt.Errorf("invalid '%s' parameter: expected boolean", key)
		}
		return nil
	}
}

func parseBool(value interface{}) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// coerceBoolArgs returns a copy of args with string booleans at keys
// converted to real booleans.
func coerceBoolArgs(args map[string]interface{}, keys ...string) map[string]interface{} {
	copied := make(map[string]interface{}, len(args))
	for k, v := range args {
		copied[k] = v
	}
	for _, key := range keys {
		if b, ok := parseBool(copied[key]); ok {
			copied[key] = b
		}
	}
	return copied
}

var argValidator = newArgValidator()

func newArgValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// unmarshalAndValidate decodes args into T and checks its validate tags.
// Errors name the offending parameter in quotes.
func unmarshalAndValidate[T any](args map[string]interface{}) (T, error) {
	var out T
	raw, err := json.Marshal(args)
	if err != nil {
		return out, fmt.Errorf("invalid arguments: %v", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return out, fmt.Errorf("invalid '%s' parameter: expected %s", typeErr.Field, typeErr.Type)
		}
		return out, fmt.Errorf("invalid arguments: %v", err)
	}
	if err := argValidator.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.Tag() == "required" {
				return out, fmt.Errorf("missing '%s' parameter", fe.Field())
			}
			return out, fmt.Errorf("invalid '%s' parameter: failed %s", fe.Field(), fe.Tag())
		}
		return out, err
	}
	return out, nil
}
