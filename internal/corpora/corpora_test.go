// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package corpora

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	t.Parallel()

	require.Empty(t, Diff("a\nb\n", "a\nb\n"))
	diff := Diff("a\nc\n", "a\nb\n")
	require.Contains(t, diff, "--- want")
	require.Contains(t, diff, "+++ got")
	require.Contains(t, diff, "-b")
	require.Contains(t, diff, "+c")
}

func TestInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	for _, name := range []string{"a.uris", "a.uris.golden", "nested/b.uris", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	inputs, err := Corpus{Extension: "uris"}.inputs(dir)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a.uris"),
		filepath.Join(dir, "nested", "b.uris"),
	}, inputs)
}

func TestWrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.golden")
	require.NoError(t, write(path, "content\n"))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "content\n", string(b))

	require.NoError(t, write(path, ""))
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
	require.NoError(t, write(path, ""), "removing a missing output is not an error")
}

func TestRun(t *testing.T) {
	Corpus{
		Root:      "testdata",
		Extension: "txt",
		Outputs:   []Output{{Extension: "upper"}},
		Test: func(t *testing.T, path string, text string) []string {
			out := []byte(text)
			for x, b := range out {
				if b >= 'a' && b <= 'z' {
					out[x] = b - 'a' + 'A'
				}
			}
			return []string{string(out)}
		},
	}.Run(t)
}
