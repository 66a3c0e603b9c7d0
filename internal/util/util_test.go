// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("hello, world!"), 0600))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello, world!", string(content))
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "deep", "test.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("test data"), 0600))
	assert.FileExists(t, path)
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("first"), 0600))
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0600))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAtomicWriteFile_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	path := filepath.Join(t.TempDir(), "secret.toml")

	require.NoError(t, AtomicWriteFile(path, []byte("x"), 0600))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
	}{
		{"ascii", "hello world", 8},
		{"cjk", "日本語テキスト", 5},
		{"mixed", "Zoë 山田 Yamada", 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Truncate(tt.in, tt.width)
			assert.LessOrEqual(t, Width(out), tt.width)
			assert.True(t, strings.HasSuffix(out, Ellipsis))
		})
	}
}

func TestTruncate_ShortUnchanged(t *testing.T) {
	assert.Equal(t, "ACC1", Truncate("ACC1", 10))
	assert.Equal(t, "", Truncate("ACC1", 0))
}

func TestWidth_WideRunes(t *testing.T) {
	assert.Equal(t, 5, Width("hello"))
	assert.Equal(t, 6, Width("日本語"))
}

func TestPadRight(t *testing.T) {
	out := PadRight("Ada", 6)
	assert.Equal(t, "Ada   ", out)
	assert.Equal(t, 6, Width(PadRight("日本語テキスト", 6)))
	assert.Equal(t, "", PadRight("x", 0))
}

func TestSingleLine(t *testing.T) {
	assert.Equal(t, "a b c", SingleLine("a\nb\t c  "))
}

func TestMask(t *testing.T) {
	assert.Equal(t, "***", Mask("pw1"))
	assert.Equal(t, "**", Mask("日本"))
}
