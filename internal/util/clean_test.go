package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("  “Automations” save time…\r\nThey’re fast.  ")...)
	assert.Equal(t, "\"Automations\" save time...\nThey're fast.", CleanText(in, "test"))

	assert.Equal(t, "a�b", CleanText([]byte{'a', 0xff, 'b'}, "test"))
}

func TestIsLikelyBinary(t *testing.T) {
	assert.True(t, IsLikelyBinary([]byte{'P', 'K', 0x03, 0x04, 0x00}))
	assert.False(t, IsLikelyBinary([]byte("plain text")))
}

func TestReadTextFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "about.md")
	require.NoError(t, os.WriteFile(good, []byte("# About\n\nWe build automations.\n"), 0o600))
	text, err := ReadTextFile(good)
	require.NoError(t, err)
	assert.Equal(t, "# About\n\nWe build automations.", text)

	bin := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(bin, []byte{0x89, 'P', 'N', 'G', 0x00}, 0o600))
	_, err = ReadTextFile(bin)
	assert.ErrorContains(t, err, "binary")

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte(" \n"), 0o600))
	_, err = ReadTextFile(empty)
	assert.ErrorContains(t, err, "empty")

	_, err = ReadTextFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
