// Copyright (c) 2026 Fermata. All rights reserved.

package piece_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermata-app/fermata/internal/catalog/piece"
	"github.com/fermata-app/fermata/internal/platform/apperr"
	"github.com/fermata-app/fermata/pkg/names"
	"github.com/fermata-app/fermata/pkg/pointer"
)

// fakeRepository is an in-memory stand-in for the piece store.
type fakeRepository struct {
	nameCount int
	created   *piece.Piece
	updated   *piece.Piece
}

func (f *fakeRepository) List(ctx context.Context, filter piece.Filter, limit, offset int) ([]*piece.Piece, int, error) {
	return nil, 0, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id int) (*piece.Piece, error) {
	return nil, apperr.NotFound("Piece")
}

func (f *fakeRepository) FindDetail(ctx context.Context, id int) (*piece.Detail, error) {
	return nil, apperr.NotFound("Piece")
}

func (f *fakeRepository) FindByComposer(ctx context.Context, composerID int) ([]*piece.Piece, error) {
	return nil, nil
}

func (f *fakeRepository) FindByArranger(ctx context.Context, arrangerID int) ([]*piece.Piece, error) {
	return nil, nil
}

func (f *fakeRepository) FindChildren(ctx context.Context, parentID int) ([]*piece.Piece, error) {
	return nil, nil
}

func (f *fakeRepository) FindRecent(ctx context.Context, limit int) ([]*piece.Piece, error) {
	return nil, nil
}

func (f *fakeRepository) FindPopular(ctx context.Context, limit int) ([]*piece.Piece, error) {
	return nil, nil
}

func (f *fakeRepository) Create(ctx context.Context, p *piece.Piece) error {
	p.ID = 1
	f.created = p
	return nil
}

func (f *fakeRepository) Update(ctx context.Context, p *piece.Piece) error {
	f.updated = p
	return nil
}

func (f *fakeRepository) SoftDelete(ctx context.Context, id, deletedBy int) error { return nil }

func (f *fakeRepository) AddName(ctx context.Context, pieceID int, name string) (*piece.Name, error) {
	return &piece.Name{ID: 99, Name: name}, nil
}

func (f *fakeRepository) RemoveName(ctx context.Context, pieceID, nameID int) error { return nil }

func (f *fakeRepository) CountNames(ctx context.Context, pieceID int) (int, error) {
	return f.nameCount, nil
}

func (f *fakeRepository) AddTag(ctx context.Context, pieceID, tagID, actorID int) error { return nil }

func (f *fakeRepository) RemoveTag(ctx context.Context, pieceID, tagID int) error { return nil }

func testService(repo piece.Repository) *piece.Service {
	return piece.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestPiece_Classification derives arrangement and suite membership from the
optional references.
*/
func TestPiece_Classification(t *testing.T) {
	original := &piece.Piece{ComposerID: 1}
	assert.False(t, original.IsArrangement())
	assert.False(t, original.IsPartOfSuite())

	arrangement := &piece.Piece{ComposerID: 1, ArrangerID: pointer.To(2)}
	assert.True(t, arrangement.IsArrangement())

	movement := &piece.Piece{ComposerID: 1, ParentPieceID: pointer.To(10)}
	assert.True(t, movement.IsPartOfSuite())
}

/*
TestPiece_MainName resolves the display name per language from the name rows.
*/
func TestPiece_MainName(t *testing.T) {
	p := &piece.Piece{Names: []piece.Name{
		{ID: 1, Name: "アルハンブラの思い出"},
		{ID: 2, Name: "Recuerdos de la Alhambra"},
	}}

	assert.Equal(t, "アルハンブラの思い出", p.MainName(names.LangJA))
	assert.Equal(t, "Recuerdos de la Alhambra", p.MainName(names.LangEN))
}

/*
TestDetail_ComposerMainName applies the same language resolution to the
composer names carried on the detail projection.
*/
func TestDetail_ComposerMainName(t *testing.T) {
	detail := &piece.Detail{ComposerNames: []string{"タレガ", "Francisco Tárrega"}}

	assert.Equal(t, "タレガ", detail.ComposerMainName(names.LangJA))
	assert.Equal(t, "Francisco Tárrega", detail.ComposerMainName(names.LangEN))
}

/*
TestService_CreatePiece_Validation rejects malformed input before it reaches
the store.
*/
func TestService_CreatePiece_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input piece.Piece
	}{
		{"no_names", piece.Piece{ComposerID: 1}},
		{"missing_composer", piece.Piece{Names: []piece.Name{{Name: "Asturias"}}}},
		{
			"negative_arranger",
			piece.Piece{
				Names:      []piece.Name{{Name: "Asturias"}},
				ComposerID: 1,
				ArrangerID: pointer.To(-3),
			},
		},
		{
			"composition_year_out_of_range",
			piece.Piece{
				Names:           []piece.Name{{Name: "Asturias"}},
				ComposerID:      1,
				CompositionYear: pointer.To(2500),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{}
			input := tt.input

			err := testService(repo).CreatePiece(context.Background(), &input)

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Nil(t, repo.created)
		})
	}
}

/*
TestService_UpdatePiece_RejectsSelfParent refuses a movement that references
itself as its suite.
*/
func TestService_UpdatePiece_RejectsSelfParent(t *testing.T) {
	repo := &fakeRepository{}
	input := piece.Piece{ComposerID: 1, ParentPieceID: pointer.To(5)}

	err := testService(repo).UpdatePiece(context.Background(), 5, &input)

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Nil(t, repo.updated)

	// The same parent is fine on a different piece.
	err = testService(repo).UpdatePiece(context.Background(), 6, &input)
	require.NoError(t, err)
	assert.NotNil(t, repo.updated)
}
