// Copyright (c) 2026 Fermata. All rights reserved.

package person

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

func (service *Service) ListPersons(context context.Context, filter Filter, limit, offset int) ([]*Person, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) GetPerson(context context.Context, id int) (*Person, error) {
	return service.repo.FindByID(context, id)
}

func (service *Service) CreatePerson(context context.Context, person *Person) error {
	normalizeNames(person.Names)

	validator := &validate.Validator{}
	validator.Custom(FieldNames, len(person.Names) == 0, "At least one name is required")
	for _, n := range person.Names {
		validator.Required(FieldName, n.Name).MaxLen(FieldName, n.Name, 200)
	}
	validateLifespan(validator, person.BirthYear, person.DeathYear)
	if person.Bio != nil {
		validator.MaxLen(FieldBio, *person.Bio, 5000)
	}
	if person.Country != nil {
		validator.MaxLen(FieldCountry, *person.Country, 100)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Create(context, person); err != nil {
		return err
	}

	service.logger.Info("person_created",
		slog.Int("person_id", person.ID),
		slog.String("name", person.MainName(names.LangEN)),
	)
	return nil
}

func (service *Service) UpdatePerson(context context.Context, id int, person *Person) error {
	person.ID = id

	validator := &validate.Validator{}
	validateLifespan(validator, person.BirthYear, person.DeathYear)
	if person.Bio != nil {
		validator.MaxLen(FieldBio, *person.Bio, 5000)
	}
	if person.Country != nil {
		validator.MaxLen(FieldCountry, *person.Country, 100)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Update(context, person); err != nil {
		return err
	}

	service.logger.Info("person_updated", slog.Int("person_id", id))
	return nil
}

func (service *Service) DeletePerson(context context.Context, id, actorID int) error {
	if err := service.repo.SoftDelete(context, id, actorID); err != nil {
		return err
	}

	service.logger.Warn("person_deleted", slog.Int("person_id", id), slog.Int("actor_id", actorID))
	return nil
}

func (service *Service) AddName(context context.Context, personID int, name string) (*Name, error) {
	name = names.Normalize(name)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	added, err := service.repo.AddName(context, personID, name)
	if err != nil {
		return nil, err
	}

	service.logger.Info("person_name_added", slog.Int("person_id", personID), slog.String("name", name))
	return added, nil
}

// RemoveName soft-deletes a single name. A person must always keep at least
// one active name, so removing the last one is rejected.
func (service *Service) RemoveName(context context.Context, personID, nameID int) error {
	total, err := service.repo.CountNames(context, personID)
	if err != nil {
		return err
	}
	if total <= 1 {
		return apperr.Unprocessable("Cannot remove the last remaining name")
	}

	if err := service.repo.RemoveName(context, personID, nameID); err != nil {
		return err
	}

	service.logger.Info("person_name_removed", slog.Int("person_id", personID), slog.Int("name_id", nameID))
	return nil
}

func normalizeNames(list []Name) {
	for i := range list {
		list[i].Name = names.Normalize(list[i].Name)
	}
}

func validateLifespan(validator *validate.Validator, birthYear, deathYear *int) {
	if birthYear != nil {
		validator.Range(FieldBirthYear, *birthYear, 1, 2100)
	}
	if deathYear != nil {
		validator.Range(FieldDeathYear, *deathYear, 1, 2100)
	}
	if birthYear != nil && deathYear != nil {
		validator.Custom(FieldDeathYear, *deathYear < *birthYear, "Death year must not precede birth year")
	}
}
