// Copyright (c) 2026 Fermata. All rights reserved.

package video

import (
	"context"
	"log/slog"

	"github.com/fermata-app/fermata/internal/platform/validate"
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

// ListByPiece returns the videos of a piece. Public callers only see
// approved entries; moderators may request the unfiltered list.
func (service *Service) ListByPiece(context context.Context, pieceID int, includeUnapproved bool) ([]*Video, error) {
	return service.repo.FindByPiece(context, pieceID, !includeUnapproved)
}

func (service *Service) GetVideo(context context.Context, id int) (*Video, error) {
	return service.repo.FindByID(context, id)
}

func (service *Service) ListPending(context context.Context) ([]*Video, error) {
	return service.repo.FindPending(context)
}

// Submit stores a new video reference in the pending state.
func (service *Service) Submit(context context.Context, video *Video) error {
	video.Status = StatusPending
	video.ApprovedBy = nil

	validator := &validate.Validator{}
	validator.Required(FieldURL, video.URL).MaxLen(FieldURL, video.URL, 500).URL(FieldURL, video.URL)
	if !validator.HasErrors() {
		validator.Custom(FieldURL, video.VideoID() == "", "Must be a YouTube video URL")
	}
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Create(context, video); err != nil {
		return err
	}

	service.logger.Info("video_submitted",
		slog.Int("video_id", video.ID),
		slog.Int("piece_id", video.PieceID),
		slog.String("youtube_id", video.VideoID()),
	)
	return nil
}

// Approve marks a video as publicly visible. Repeating a decision or
// reversing a rejection is allowed; the latest decision wins.
func (service *Service) Approve(context context.Context, id, adminID int) error {
	if err := service.repo.SetStatus(context, id, StatusApproved, adminID); err != nil {
		return err
	}

	service.logger.Info("video_approved", slog.Int("video_id", id), slog.Int("admin_id", adminID))
	return nil
}

// Reject hides a video from public listings. Like Approve, it overwrites
// any previous decision.
func (service *Service) Reject(context context.Context, id, adminID int) error {
	if err := service.repo.SetStatus(context, id, StatusRejected, adminID); err != nil {
		return err
	}

	service.logger.Info("video_rejected", slog.Int("video_id", id), slog.Int("admin_id", adminID))
	return nil
}

func (service *Service) DeleteVideo(context context.Context, id, actorID int) error {
	if err := service.repo.SoftDelete(context, id, actorID); err != nil {
		return err
	}

	service.logger.Warn("video_deleted", slog.Int("video_id", id), slog.Int("actor_id", actorID))
	return nil
}
