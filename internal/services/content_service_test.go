package services

import (
	"context"
	"errors"
	"testing"

	"folio/internal/models"
	"folio/internal/store"
	"folio/internal/store/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAddContent_NormalizesInput(t *testing.T) {
	cs := new(mocks.ContentStore)
	cs.On("CreateContent", mock.Anything, mock.MatchedBy(func(c *models.Content) bool {
		return c.Title == "Automations" &&
			c.Category == models.CategoryService &&
			assert.ObjectsAreEqual([]string{"automation", "make.com"}, c.Tags)
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Content).ID = 7
	}).Return(nil)

	svc := NewContentService(cs, nil)
	got, err := svc.AddContent(context.Background(), ContentInput{
		Title:    "  Automations ",
		Content:  automationsBody,
		Category: "Service",
		Tags:     []string{"automation", " ", "Automation", "make.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	cs.AssertExpectations(t)
}

func TestAddContent_Invalid(t *testing.T) {
	cs := new(mocks.ContentStore)
	svc := NewContentService(cs, nil)

	_, err := svc.AddContent(context.Background(), ContentInput{Title: " ", Content: "x", Category: "blog"})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"title", "category"}, fields)
	cs.AssertNotCalled(t, "CreateContent", mock.Anything, mock.Anything)
}

func TestUpdateContent_NotFound(t *testing.T) {
	cs := new(mocks.ContentStore)
	cs.On("UpdateContent", mock.Anything, mock.Anything).Return(store.ErrNotFound)

	_, err := NewContentService(cs, nil).UpdateContent(context.Background(), 9, ContentInput{
		Title: "Page", Content: "About us.", Category: models.CategoryPage,
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetAndDeleteContent(t *testing.T) {
	cs := new(mocks.ContentStore)
	cs.On("GetContent", mock.Anything, int64(1)).Return(automationsRecord(), nil)
	cs.On("DeleteContent", mock.Anything, int64(2)).Return(store.ErrNotFound)

	svc := NewContentService(cs, nil)
	got, err := svc.GetContent(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Automations", got.Title)

	assert.ErrorIs(t, svc.DeleteContent(context.Background(), 2), store.ErrNotFound)
}

func TestListContent_ClampsPaging(t *testing.T) {
	cs := new(mocks.ContentStore)
	cs.On("ListContent", mock.Anything, DefaultListLimit, 0, models.Category("")).Return([]*models.Content{}, nil).Once()
	cs.On("ListContent", mock.Anything, MaxListLimit, 10, models.CategoryProject).Return(nil, errors.New("db down")).Once()

	svc := NewContentService(cs, nil)
	items, err := svc.ListContent(context.Background(), ListContentParams{Offset: -4})
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.ListContent(context.Background(), ListContentParams{Limit: 1000, Offset: 10, Category: models.CategoryProject})
	assert.ErrorContains(t, err, "db down")

	_, err = svc.ListContent(context.Background(), ListContentParams{Category: "blog"})
	assert.ErrorIs(t, err, models.ErrValidation)
	cs.AssertExpectations(t)
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"Go", "pgx"}, NormalizeTags([]string{" Go", "go", "", "pgx "}))
	assert.Equal(t, []string{}, NormalizeTags(nil))
}
