// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package corpora runs golden file tests. A corpus is a directory of input
// files; each input is run through a test function and every output is
// compared against a file stored next to the input.
//
// Setting the corpus' Refresh environment variable to a glob rewrites the
// golden files of the matching inputs instead of comparing them.
package corpora

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

type Corpus struct {
	// Root is the directory holding the inputs, relative to the test file
	// that calls Run.
	Root string
	// Refresh names the environment variable that selects inputs whose
	// outputs are rewritten.
	Refresh string
	// Extension of input files without the dot, e.g. "uris".
	Extension string
	// Outputs are stored as <input>.<Output.Extension>. A missing output
	// file is the same as an empty one.
	Outputs []Output
	// Test runs one input and returns one string per element of Outputs.
	Test func(t *testing.T, path string, text string) []string
}

type Output struct {
	Extension string
	// Compare may be nil to compare byte for byte.
	Compare Compare
}

// Compare returns an empty string when got matches want and a description of
// the difference otherwise.
type Compare func(got string, want string) string

func (self Corpus) Run(t *testing.T) {
	t.Helper()
	testDir := callerDir(0)
	root := filepath.Join(testDir, self.Root)

	inputs, err := self.inputs(root)
	if err != nil {
		t.Fatalf("corpora: listing %s: %v", root, err)
	}
	if len(inputs) == 0 {
		t.Fatalf("corpora: no .%s files in %s", self.Extension, root)
	}

	refresh := ""
	if self.Refresh != "" {
		refresh = os.Getenv(self.Refresh)
		if refresh != "" && !doublestar.ValidatePattern(refresh) {
			t.Fatalf("corpora: %s=%q is not a valid glob", self.Refresh, refresh)
		}
	}
	if refresh != "" {
		t.Logf("corpora: refreshing outputs matching %s=%s", self.Refresh, refresh)
		// A refresh never counts as a passing run.
		t.Fail()
	}

	for _, input := range inputs {
		input := input
		name, _ := filepath.Rel(testDir, input)
		t.Run(filepath.ToSlash(name), func(t *testing.T) {
			b, err := os.ReadFile(input)
			if err != nil {
				t.Fatalf("corpora: reading %s: %v", input, err)
			}
			results := self.Test(t, filepath.ToSlash(name), string(b))
			if len(results) != len(self.Outputs) {
				t.Fatalf("corpora: test returned %d outputs, want %d", len(results), len(self.Outputs))
			}
			rewrite := false
			if refresh != "" {
				rewrite, _ = doublestar.Match(refresh, filepath.ToSlash(name))
			}
			for x, output := range self.Outputs {
				golden := fmt.Sprint(input, ".", output.Extension)
				if rewrite {
					if err := write(golden, results[x]); err != nil {
						t.Errorf("corpora: %v", err)
					}
					continue
				}
				want, err := os.ReadFile(golden)
				if err != nil && !errors.Is(err, fs.ErrNotExist) {
					t.Errorf("corpora: reading %s: %v", golden, err)
					continue
				}
				compare := output.Compare
				if compare == nil {
					compare = Diff
				}
				if diff := compare(results[x], string(want)); diff != "" {
					t.Errorf("output mismatch for %s:\n%s", golden, diff)
				}
			}
		})
	}
}

func (self Corpus) inputs(root string) ([]string, error) {
	var inputs []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.TrimPrefix(filepath.Ext(p), ".") == self.Extension {
			inputs = append(inputs, p)
		}
		return nil
	})
	return inputs, err
}

func write(path string, content string) error {
	if content == "" {
		err := os.Remove(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// Diff is the default Compare. It produces a unified diff from want to got.
func Diff(got string, want string) string {
	if got == want {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("corpora: could not determine the directory of the calling test")
	}
	return filepath.Dir(file)
}
