// Package clix parses the flags shared by several commands.
package clix

import (
	"fmt"
	"strings"

	"folio/internal/models"

	"github.com/spf13/pflag"
)

type PaginationParams struct {
	Limit  int
	Offset int
}

// ParsePagination reads --limit and --offset. A non-positive limit means "use the default".
func ParsePagination(flags *pflag.FlagSet) (PaginationParams, error) {
	limit, err := flags.GetInt("limit")
	if err != nil {
		return PaginationParams{}, err
	}
	offset, _ := flags.GetInt("offset")
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		return PaginationParams{}, fmt.Errorf("--offset must not be negative")
	}
	return PaginationParams{Limit: limit, Offset: offset}, nil
}

// ParseTags splits the comma separated --tags flag, dropping blanks.
func ParseTags(flags *pflag.FlagSet) ([]string, error) {
	tagsStr, err := flags.GetString("tags")
	if err != nil {
		return nil, err
	}
	var tags []string
	for _, t := range strings.Split(tagsStr, ",") {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags, nil
}

// ParseCategory reads --category; empty is allowed and means "any".
func ParseCategory(flags *pflag.FlagSet) (models.Category, error) {
	raw, err := flags.GetString("category")
	if err != nil {
		return "", err
	}
	c := models.Category(strings.ToLower(strings.TrimSpace(raw)))
	if c != "" && !c.Valid() {
		return "", fmt.Errorf("unknown category %q (want project, service or page)", raw)
	}
	return c, nil
}

// Snippet flattens s to one line and cuts it to at most n runes.
func Snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
