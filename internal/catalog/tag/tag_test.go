// Copyright (c) 2026 Fermata. All rights reserved.

package tag_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermata-app/fermata/internal/catalog/tag"
	"github.com/fermata-app/fermata/internal/platform/apperr"
)

// fakeRepository enforces the store's exact-match unique name constraint.
type fakeRepository struct {
	created *tag.Tag
	names   map[string]bool
}

func (f *fakeRepository) FindAll(ctx context.Context) ([]*tag.Tag, error) { return nil, nil }

func (f *fakeRepository) FindByID(ctx context.Context, id int) (*tag.Tag, error) {
	return nil, apperr.NotFound("Tag")
}

func (f *fakeRepository) Create(ctx context.Context, t *tag.Tag) error {
	if f.names[t.Name] {
		return apperr.Conflict("Resource already exists")
	}
	if f.names == nil {
		f.names = map[string]bool{}
	}
	f.names[t.Name] = true
	t.ID = len(f.names)
	f.created = t
	return nil
}

func (f *fakeRepository) SoftDelete(ctx context.Context, id, deletedBy int) error { return nil }

func testService(repo tag.Repository) *tag.Service {
	return tag.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestService_CreateTag_Validation rejects empty and oversized names.
*/
func TestService_CreateTag_Validation(t *testing.T) {
	tests := []struct {
		name    string
		tagName string
	}{
		{"empty", ""},
		{"whitespace_only", "   "},
		{"too_long", strings.Repeat("é", 101)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{}

			err := testService(repo).CreateTag(context.Background(), &tag.Tag{Name: tt.tagName})

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Nil(t, repo.created)
		})
	}
}

/*
TestService_CreateTag_CaseSensitiveNames treats names differing only in case
as distinct tags; only an exact duplicate conflicts.
*/
func TestService_CreateTag_CaseSensitiveNames(t *testing.T) {
	repo := &fakeRepository{}
	service := testService(repo)

	require.NoError(t, service.CreateTag(context.Background(), &tag.Tag{Name: "Baroque"}))
	require.NoError(t, service.CreateTag(context.Background(), &tag.Tag{Name: "baroque"}))

	err := service.CreateTag(context.Background(), &tag.Tag{Name: "Baroque"})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

/*
TestService_CreateTag_Persists stores a valid tag and writes back its id.
*/
func TestService_CreateTag_Persists(t *testing.T) {
	repo := &fakeRepository{}
	input := &tag.Tag{Name: "ロマン派"}

	err := testService(repo).CreateTag(context.Background(), input)

	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, 1, input.ID)
	assert.Equal(t, "ロマン派", repo.created.Name)
}
