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

// Package theme colors the console output of the REPL.
package theme

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Theme represents the color theme for the console
type Theme struct {
	HeaderColor  string `json:"header_color"`
	PromptColor  string `json:"prompt_color"`
	ResultColor  string `json:"result_color"`
	ErrorColor   string `json:"error_color"`
	SuccessColor string `json:"success_color"`
}

// ColorScheme holds the printers derived from a Theme.
type ColorScheme struct {
	Header  *color.Color
	Prompt  *color.Color
	Result  *color.Color
	Error   *color.Color
	Success *color.Color
}

// DefaultTheme returns a theme with default values
func DefaultTheme() *Theme {
	return &Theme{
		HeaderColor:  "#cba6f7",
		PromptColor:  "#89b4fa",
		ResultColor:  "#cdd6f4",
		ErrorColor:   "#f38ba8",
		SuccessColor: "#a6e3a1",
	}
}

// LoadTheme loads theme configuration from a JSON file. Fields missing
// from the file keep their default.
func LoadTheme(filepath string) (*Theme, error) {
	theme := DefaultTheme()

	// If theme file doesn't exist, return default theme
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return theme, nil
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, theme); err != nil {
		return nil, err
	}

	return theme, nil
}

// ToColorScheme converts the theme's hex colors to 24-bit printers.
// Call ValidateTheme first; unparsable values fall back to no color.
func (t *Theme) ToColorScheme() *ColorScheme {
	return &ColorScheme{
		Header:  hexColor(t.HeaderColor).Add(color.Bold),
		Prompt:  hexColor(t.PromptColor),
		Result:  hexColor(t.ResultColor),
		Error:   hexColor(t.ErrorColor),
		Success: hexColor(t.SuccessColor),
	}
}

// DisabledColorScheme returns a color scheme with all colors disabled (for NO_COLOR).
func DisabledColorScheme() *ColorScheme {
	plain := func() *color.Color {
		c := color.New()
		c.DisableColor()
		return c
	}
	return &ColorScheme{
		Header:  plain(),
		Prompt:  plain(),
		Result:  plain(),
		Error:   plain(),
		Success: plain(),
	}
}

func hexColor(hex string) *color.Color {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return color.New()
	}
	return color.RGB(r, g, b)
}

// parseHex decodes #RGB or #RRGGBB.
func parseHex(hex string) (r, g, b int, ok bool) {
	if !hexColorRegex.MatchString(hex) {
		return 0, 0, 0, false
	}
	digits := strings.TrimPrefix(hex, "#")
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	value, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(value >> 16 & 0xff), int(value >> 8 & 0xff), int(value & 0xff), true
}
