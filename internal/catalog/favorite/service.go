// Copyright (c) 2026 Fermata. All rights reserved.

package favorite

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fermata-app/fermata/internal/platform/apperr"
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

/*
Add favorites a piece for a user. The operation is idempotent:

  - no row for the pair: a new one is inserted
  - a soft-deleted row: it is reactivated in place
  - an active row: it is returned unchanged

A concurrent duplicate insert loses against the unique pair index and is
retried as a reactivation.
*/
func (service *Service) Add(context context.Context, userID, pieceID int) (*Favorite, error) {
	existing, err := service.repo.FindByUserAndPiece(context, userID, pieceID)
	switch {
	case err == nil:
		if existing.IsActive() {
			return existing, nil
		}
		if err := service.repo.Reactivate(context, existing.ID); err != nil {
			return nil, err
		}
		existing.DeletedAt = nil
		service.logger.Info("favorite_reactivated", slog.Int("user_id", userID), slog.Int("piece_id", pieceID))
		return existing, nil

	case isNotFound(err):
		created := &Favorite{UserID: userID, PieceID: pieceID}
		insertErr := service.repo.Insert(context, created)
		if insertErr == nil {
			service.logger.Info("favorite_added", slog.Int("user_id", userID), slog.Int("piece_id", pieceID))
			return created, nil
		}
		// Lost a concurrent race for the same pair. The row now exists,
		// so a second pass resolves it.
		if isConflict(insertErr) {
			return service.Add(context, userID, pieceID)
		}
		return nil, insertErr

	default:
		return nil, err
	}
}

// Remove unfavorites a piece. Removing an absent or already removed favorite
// is a no-op, never an error.
func (service *Service) Remove(context context.Context, userID, pieceID int) error {
	existing, err := service.repo.FindByUserAndPiece(context, userID, pieceID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	if !existing.IsActive() {
		return nil
	}

	if err := service.repo.SoftDelete(context, existing.ID); err != nil {
		return err
	}

	service.logger.Info("favorite_removed", slog.Int("user_id", userID), slog.Int("piece_id", pieceID))
	return nil
}

func (service *Service) CountByPiece(context context.Context, pieceID int) (int, error) {
	return service.repo.CountByPiece(context, pieceID)
}

func (service *Service) ListByUser(context context.Context, userID int) ([]*Favorite, error) {
	return service.repo.ListByUser(context, userID)
}

func isNotFound(err error) bool {
	var appError *apperr.AppError
	return errors.As(err, &appError) && appError.HTTPStatus == http.StatusNotFound
}

func isConflict(err error) bool {
	var appError *apperr.AppError
	return errors.As(err, &appError) && appError.HTTPStatus == http.StatusConflict
}
