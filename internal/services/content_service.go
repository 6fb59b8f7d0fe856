package services

import (
	"context"
	"fmt"
	"strings"

	"folio/internal/models"
	"folio/internal/store"
	"folio/internal/validate"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ContentInput is the writable part of a content record.
type ContentInput struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=1000"`
	Content     string          `json:"content" validate:"required"`
	Category    models.Category `json:"category" validate:"required,oneof=project service page"`
	Tags        []string        `json:"tags" validate:"max=20,dive,max=50"`
}

type ListContentParams struct {
	Limit    int
	Offset   int
	Category models.Category
}

type ContentService struct {
	contents store.ContentStore
	val      *validate.Validator
}

func NewContentService(cs store.ContentStore, val *validate.Validator) *ContentService {
	if val == nil {
		val = validate.New()
	}
	return &ContentService{contents: cs, val: val}
}

func (s *ContentService) AddContent(ctx context.Context, in ContentInput) (*models.Content, error) {
	in, err := s.check(in)
	if err != nil {
		return nil, err
	}
	content := &models.Content{
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
		Category:    in.Category,
		Tags:        in.Tags,
	}
	if err := s.contents.CreateContent(ctx, content); err != nil {
		return nil, fmt.Errorf("failed to create content: %w", err)
	}
	log.WithFields(log.Fields{"id": content.ID, "category": content.Category}).Info("content created")
	return content, nil
}

func (s *ContentService) GetContent(ctx context.Context, id int64) (*models.Content, error) {
	content, err := s.contents.GetContent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get content %d: %w", id, err)
	}
	return content, nil
}

func (s *ContentService) UpdateContent(ctx context.Context, id int64, in ContentInput) (*models.Content, error) {
	in, err := s.check(in)
	if err != nil {
		return nil, err
	}
	content := &models.Content{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
		Category:    in.Category,
		Tags:        in.Tags,
	}
	if err := s.contents.UpdateContent(ctx, content); err != nil {
		return nil, fmt.Errorf("failed to update content %d: %w", id, err)
	}
	log.WithField("id", id).Info("content updated")
	return content, nil
}

func (s *ContentService) DeleteContent(ctx context.Context, id int64) error {
	if err := s.contents.DeleteContent(ctx, id); err != nil {
		return fmt.Errorf("failed to delete content %d: %w", id, err)
	}
	log.WithField("id", id).Info("content deleted")
	return nil
}

func (s *ContentService) ListContent(ctx context.Context, params ListContentParams) ([]*models.Content, error) {
	if params.Category != "" && !params.Category.Valid() {
		return nil, models.NewValidationError("category", "category must be one of: project, service, page")
	}
	if params.Limit <= 0 {
		params.Limit = DefaultListLimit
	}
	if params.Limit > MaxListLimit {
		params.Limit = MaxListLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	items, err := s.contents.ListContent(ctx, params.Limit, params.Offset, params.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	return items, nil
}

// check trims the text fields, normalizes tags and validates the result.
func (s *ContentService) check(in ContentInput) (ContentInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = models.Category(strings.ToLower(strings.TrimSpace(string(in.Category))))
	in.Tags = NormalizeTags(in.Tags)
	if err := s.val.Struct(in); err != nil {
		return in, err
	}
	return in, nil
}

// NormalizeTags trims tags and drops empty or case-insensitive duplicate entries, keeping order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}
