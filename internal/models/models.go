package models

import (
	"time"
)

// Category is the kind of site content a record describes.
type Category string

const (
	CategoryProject Category = "project"
	CategoryService Category = "service"
	CategoryPage    Category = "page"
)

// Categories lists the accepted content categories in display order.
var Categories = []Category{CategoryProject, CategoryService, CategoryPage}

// Valid reports whether c is one of the accepted categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Content is a piece of site content eligible for search.
type Content struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Content     string    `db:"content" json:"content"`
	Category    Category  `db:"category" json:"category"`
	Tags        []string  `db:"tags" json:"tags"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SearchQuery is one recorded search: what was asked, which strategy answered and how many hits.
type SearchQuery struct {
	ID           int64     `db:"id" json:"id"`
	Query        string    `db:"query" json:"query"`
	Path         string    `db:"path" json:"path"`
	ResultsCount int       `db:"results_count" json:"resultsCount"`
	ExecutedAt   time.Time `db:"executed_at" json:"executedAt"`
}
