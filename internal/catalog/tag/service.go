// Copyright (c) 2026 Fermata. All rights reserved.

package tag

import (
	"context"
	"log/slog"

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

func (service *Service) ListTags(context context.Context) ([]*Tag, error) {
	return service.repo.FindAll(context)
}

func (service *Service) GetTag(context context.Context, id int) (*Tag, error) {
	return service.repo.FindByID(context, id)
}

func (service *Service) CreateTag(context context.Context, tag *Tag) error {
	tag.Name = names.Normalize(tag.Name)

	validator := &validate.Validator{}
	validator.Required(FieldName, tag.Name).MaxLen(FieldName, tag.Name, 100)
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Create(context, tag); err != nil {
		return err
	}

	service.logger.Info("tag_created", slog.Int("tag_id", tag.ID), slog.String("name", tag.Name))
	return nil
}

func (service *Service) DeleteTag(context context.Context, id, actorID int) error {
	if err := service.repo.SoftDelete(context, id, actorID); err != nil {
		return err
	}

	service.logger.Warn("tag_deleted", slog.Int("tag_id", id), slog.Int("actor_id", actorID))
	return nil
}
