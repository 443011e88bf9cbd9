// Copyright (c) 2026 Fermata. All rights reserved.

package piece

import (
	"context"
	"log/slog"

	"github.com/fermata-app/fermata/internal/platform/apperr"
	"github.com/fermata-app/fermata/internal/platform/validate"
	"github.com/fermata-app/fermata/pkg/names"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListPieces(context context.Context, filter Filter, limit, offset int) ([]*Piece, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) GetPiece(context context.Context, id int) (*Piece, error) {
	return service.repo.FindByID(context, id)
}

func (service *Service) GetPieceDetail(context context.Context, id int) (*Detail, error) {
	return service.repo.FindDetail(context, id)
}

func (service *Service) ListChildren(context context.Context, parentID int) ([]*Piece, error) {
	return service.repo.FindChildren(context, parentID)
}

func (service *Service) ListByComposer(context context.Context, composerID int) ([]*Piece, error) {
	return service.repo.FindByComposer(context, composerID)
}

func (service *Service) ListByArranger(context context.Context, arrangerID int) ([]*Piece, error) {
	return service.repo.FindByArranger(context, arrangerID)
}

func (service *Service) ListRecent(context context.Context, limit int) ([]*Piece, error) {
	return service.repo.FindRecent(context, limit)
}

func (service *Service) ListPopular(context context.Context, limit int) ([]*Piece, error) {
	return service.repo.FindPopular(context, limit)
}

func (service *Service) CreatePiece(context context.Context, piece *Piece) error {
	normalizeNames(piece.Names)

	validator := &validate.Validator{}
	validator.Custom(FieldNames, len(piece.Names) == 0, "At least one name is required")
	for _, n := range piece.Names {
		validator.Required(FieldName, n.Name).MaxLen(FieldName, n.Name, 300)
	}
	validator.Positive(FieldComposerID, piece.ComposerID)
	validateReferences(validator, piece)

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Create(context, piece); err != nil {
		return err
	}

	service.logger.Info("piece_created",
		slog.Int("piece_id", piece.ID),
		slog.String("name", piece.MainName(names.LangEN)),
	)
	return nil
}

func (service *Service) UpdatePiece(context context.Context, id int, piece *Piece) error {
	piece.ID = id

	validator := &validate.Validator{}
	validator.Positive(FieldComposerID, piece.ComposerID)
	validateReferences(validator, piece)
	// A suite movement cannot be its own parent.
	validator.Custom(FieldParentPieceID, piece.ParentPieceID != nil && *piece.ParentPieceID == id, "A piece cannot be its own parent")

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Update(context, piece); err != nil {
		return err
	}

	service.logger.Info("piece_updated", slog.Int("piece_id", id))
	return nil
}

func (service *Service) DeletePiece(context context.Context, id, actorID int) error {
	if err := service.repo.SoftDelete(context, id, actorID); err != nil {
		return err
	}

	service.logger.Warn("piece_deleted", slog.Int("piece_id", id), slog.Int("actor_id", actorID))
	return nil
}

func (service *Service) AddName(context context.Context, pieceID int, name string) (*Name, error) {
	name = names.Normalize(name)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, 300)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	added, err := service.repo.AddName(context, pieceID, name)
	if err != nil {
		return nil, err
	}

	service.logger.Info("piece_name_added", slog.Int("piece_id", pieceID), slog.String("name", name))
	return added, nil
}

// RemoveName soft-deletes a single name. A piece must always keep at least
// one active name, so removing the last one is rejected.
func (service *Service) RemoveName(context context.Context, pieceID, nameID int) error {
	total, err := service.repo.CountNames(context, pieceID)
	if err != nil {
		return err
	}
	if total <= 1 {
		return apperr.Unprocessable("Cannot remove the last remaining name")
	}

	if err := service.repo.RemoveName(context, pieceID, nameID); err != nil {
		return err
	}

	service.logger.Info("piece_name_removed", slog.Int("piece_id", pieceID), slog.Int("name_id", nameID))
	return nil
}

func (service *Service) AddTag(context context.Context, pieceID, tagID, actorID int) error {
	if err := service.repo.AddTag(context, pieceID, tagID, actorID); err != nil {
		return err
	}

	service.logger.Info("piece_tag_added", slog.Int("piece_id", pieceID), slog.Int("tag_id", tagID))
	return nil
}

func (service *Service) RemoveTag(context context.Context, pieceID, tagID int) error {
	if err := service.repo.RemoveTag(context, pieceID, tagID); err != nil {
		return err
	}

	service.logger.Info("piece_tag_removed", slog.Int("piece_id", pieceID), slog.Int("tag_id", tagID))
	return nil
}

func normalizeNames(list []Name) {
	for i := range list {
		list[i].Name = names.Normalize(list[i].Name)
	}
}

func validateReferences(validator *validate.Validator, piece *Piece) {
	if piece.ArrangerID != nil {
		validator.Positive(FieldArrangerID, *piece.ArrangerID)
	}
	if piece.ParentPieceID != nil {
		validator.Positive(FieldParentPieceID, *piece.ParentPieceID)
	}
	if piece.CompositionYear != nil {
		validator.Range(FieldCompositionYear, *piece.CompositionYear, 1, 2100)
	}
	if piece.SheetMusicInfo != nil {
		validator.MaxLen(FieldSheetMusicInfo, *piece.SheetMusicInfo, 2000)
	}
}
