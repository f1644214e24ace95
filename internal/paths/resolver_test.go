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

package paths

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "fileagent/internal/errors"
)

func newTestResolver(t *testing.T) (*Resolver, string) {
	t.Helper()
	home := t.TempDir()
	return NewResolver(DefaultAliases(), home), home
}

func mustResolve(t *testing.T, r *Resolver, raw string) string {
	t.Helper()
	resolved, err := r.Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve(%q): unexpected error: %v", raw, err)
	}
	return resolved
}

func TestResolveRejectsEmptyInput(t *testing.T) {
	r, _ := newTestResolver(t)
	for _, raw := range []string{"", "   ", "\t\n"} {
		_, err := r.Resolve(raw)
		if err == nil {
			t.Fatalf("Resolve(%q): expected error", raw)
		}
		if !apperrors.HasCode(err, apperrors.CodeInvalidPath) {
			t.Fatalf("Resolve(%q): expected invalid_path code, got %v", raw, err)
		}
	}
}

func TestResolveAliases(t *testing.T) {
	r, home := newTestResolver(t)

	cases := []struct {
		raw      string
		expected string
	}{
		{"desktop", filepath.Join(home, "Desktop")},
		{"Desktop", filepath.Join(home, "Desktop")},
		{"桌面", filepath.Join(home, "Desktop")},
		{"downloads/report.pdf", filepath.Join(home, "Downloads", "report.pdf")},
		{"DOCUMENTS/Work/Plan.TXT", filepath.Join(home, "Documents", "Work", "Plan.TXT")},
		{`文档\notes\a.txt`, filepath.Join(home, "Documents", "notes", "a.txt")},
		{"home", home},
		{"主目录/x", filepath.Join(home, "x")},
		{"  desktop/test.txt  ", filepath.Join(home, "Desktop", "test.txt")},
		{"desktop/", filepath.Join(home, "Desktop")},
	}

	for _, tc := range cases {
		if got := mustResolve(t, r, tc.raw); got != tc.expected {
			t.Fatalf("Resolve(%q): expected %q, got %q", tc.raw, tc.expected, got)
		}
	}
}

func TestResolveAliasOnlyInFirstSegment(t *testing.T) {
	r, _ := newTestResolver(t)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	got := mustResolve(t, r, "projects/desktop/file.txt")
	expected := filepath.Join(wd, "projects", "desktop", "file.txt")
	if got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}
}

func TestResolveAliasSubstitutionEqualsTarget(t *testing.T) {
	r, _ := newTestResolver(t)
	suffixes := []string{"a.txt", "sub/dir/b.pdf", "../sibling", "./x/./y"}

	for alias, target := range DefaultAliases() {
		for _, suffix := range suffixes {
			viaAlias := mustResolve(t, r, alias+"/"+suffix)
			viaTarget := mustResolve(t, r, target+"/"+suffix)
			if viaAlias != viaTarget {
				t.Fatalf("alias %q suffix %q: %q != %q", alias, suffix, viaAlias, viaTarget)
			}
		}
	}
}

func TestResolveHomeExpansion(t *testing.T) {
	r, home := newTestResolver(t)
	if got := mustResolve(t, r, "~"); got != home {
		t.Fatalf("expected %q, got %q", home, got)
	}
	if got := mustResolve(t, r, "~/notes/a.txt"); got != filepath.Join(home, "notes", "a.txt") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}

func TestResolveRelativeAndDotSegments(t *testing.T) {
	r, _ := newTestResolver(t)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if got := mustResolve(t, r, "temp.txt"); got != filepath.Join(wd, "temp.txt") {
		t.Fatalf("expected relative path under working directory, got %q", got)
	}
	if got := mustResolve(t, r, "a/b/../c"); got != filepath.Join(wd, "a", "c") {
		t.Fatalf("expected dot segments to be cleaned, got %q", got)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	r, _ := newTestResolver(t)
	for _, raw := range []string{"desktop/x.txt", "~/a/../b", "rel/path", "home", filepath.Join(t.TempDir(), "abs")} {
		once := mustResolve(t, r, raw)
		twice := mustResolve(t, r, once)
		if once != twice {
			t.Fatalf("Resolve not idempotent for %q: %q then %q", raw, once, twice)
		}
		if !filepath.IsAbs(once) {
			t.Fatalf("expected absolute path, got %q", once)
		}
	}
}

func TestResolverCopiesAliasTable(t *testing.T) {
	aliases := AliasTable{"Work": "/srv/work"}
	r := NewResolver(aliases, t.TempDir())
	aliases["work"] = "/elsewhere"

	got := mustResolve(t, r, "work/plan.txt")
	if got != filepath.Join(string(os.PathSeparator), "srv", "work", "plan.txt") {
		t.Fatalf("expected resolver to keep its own copy, got %q", got)
	}
	if _, ok := r.Aliases()["work"]; !ok {
		t.Fatal("expected alias keys to be lowercased")
	}
}

func TestAliasNamesSorted(t *testing.T) {
	names := DefaultAliases().Names()
	if len(names) != 8 {
		t.Fatalf("expected 8 aliases, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}
