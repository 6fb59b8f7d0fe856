// Package util holds helpers for reading content bodies from local files.
package util

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

const maxBinaryCheckBytes = 512

// MaxFileSize bounds files accepted as content bodies.
const MaxFileSize = 4 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Typographic punctuation and stray C1 bytes pasted from word processors.
var punctuation = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'", "\u201c", "\"", "\u201d", "\"",
	"\u2013", "-", "\u2014", "--", "\u2026", "...", "\u00a0", " ",
	"\u0091", "'", "\u0092", "'", "\u0093", "\"", "\u0094", "\"",
	"\u0096", "-", "\u0097", "--",
	"\r\n", "\n",
)

func IsLikelyBinary(data []byte) bool {
	if len(data) > maxBinaryCheckBytes {
		data = data[:maxBinaryCheckBytes]
	}
	return bytes.IndexByte(data, 0) >= 0
}

// CleanText strips a BOM, repairs invalid UTF-8 and normalizes punctuation and line endings.
func CleanText(data []byte, src string) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		log.WithField("source", src).Warn("invalid UTF-8, replacing invalid characters")
		data = bytes.ToValidUTF8(data, []byte(string(utf8.RuneError)))
	}
	return strings.TrimSpace(punctuation.Replace(string(data)))
}

// ReadTextFile loads path as a content body, refusing binary and oversized files.
func ReadTextFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > MaxFileSize {
		return "", fmt.Errorf("%s is larger than %d bytes", path, MaxFileSize)
	}
	if IsLikelyBinary(data) {
		return "", fmt.Errorf("%s looks like a binary file", path)
	}
	text := CleanText(data, path)
	if text == "" {
		return "", errors.New(path + " is empty")
	}
	return text, nil
}
