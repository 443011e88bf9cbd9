// Copyright (c) 2026 Fermata. All rights reserved.

package person_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermata-app/fermata/internal/catalog/person"
	"github.com/fermata-app/fermata/internal/platform/apperr"
	"github.com/fermata-app/fermata/pkg/names"
	"github.com/fermata-app/fermata/pkg/pointer"
)

// fakeRepository is an in-memory stand-in for the person store. Only the
// behavior exercised by the service tests is configurable.
type fakeRepository struct {
	nameCount    int
	countErr     error
	created      *person.Person
	removedNames []int
}

func (f *fakeRepository) List(ctx context.Context, filter person.Filter, limit, offset int) ([]*person.Person, int, error) {
	return nil, 0, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id int) (*person.Person, error) {
	return nil, apperr.NotFound("Person")
}

func (f *fakeRepository) Create(ctx context.Context, p *person.Person) error {
	p.ID = 1
	f.created = p
	return nil
}

func (f *fakeRepository) Update(ctx context.Context, p *person.Person) error { return nil }

func (f *fakeRepository) SoftDelete(ctx context.Context, id, deletedBy int) error { return nil }

func (f *fakeRepository) AddName(ctx context.Context, personID int, name string) (*person.Name, error) {
	return &person.Name{ID: 99, Name: name}, nil
}

func (f *fakeRepository) RemoveName(ctx context.Context, personID, nameID int) error {
	f.removedNames = append(f.removedNames, nameID)
	return nil
}

func (f *fakeRepository) CountNames(ctx context.Context, personID int) (int, error) {
	return f.nameCount, f.countErr
}

func testService(repo person.Repository) *person.Service {
	return person.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestPerson_IsAlive distinguishes living persons by the absence of a death year.
*/
func TestPerson_IsAlive(t *testing.T) {
	living := &person.Person{BirthYear: pointer.To(1944)}
	assert.True(t, living.IsAlive())

	deceased := &person.Person{BirthYear: pointer.To(1852), DeathYear: pointer.To(1909)}
	assert.False(t, deceased.IsAlive())
}

/*
TestPerson_MainName resolves the display name per language from the name rows.
*/
func TestPerson_MainName(t *testing.T) {
	p := &person.Person{Names: []person.Name{
		{ID: 1, Name: "タレガ"},
		{ID: 2, Name: "Francisco Tárrega"},
	}}

	assert.Equal(t, "タレガ", p.MainName(names.LangJA))
	assert.Equal(t, "Francisco Tárrega", p.MainName(names.LangEN))
}

/*
TestService_CreatePerson_Validation rejects malformed input before it reaches
the store.
*/
func TestService_CreatePerson_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input person.Person
	}{
		{"no_names", person.Person{}},
		{"blank_name", person.Person{Names: []person.Name{{Name: "   "}}}},
		{
			"death_before_birth",
			person.Person{
				Names:     []person.Name{{Name: "Sor"}},
				BirthYear: pointer.To(1778),
				DeathYear: pointer.To(1700),
			},
		},
		{
			"birth_year_out_of_range",
			person.Person{
				Names:     []person.Name{{Name: "Sor"}},
				BirthYear: pointer.To(0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{}
			input := tt.input

			err := testService(repo).CreatePerson(context.Background(), &input)

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Nil(t, repo.created)
		})
	}
}

/*
TestService_CreatePerson_NormalizesNames folds decomposed Unicode input into
NFC before persisting.
*/
func TestService_CreatePerson_NormalizesNames(t *testing.T) {
	repo := &fakeRepository{}
	decomposed := "Tárrega" // a + combining acute
	input := person.Person{Names: []person.Name{{Name: decomposed}}}

	err := testService(repo).CreatePerson(context.Background(), &input)

	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, "Tárrega", repo.created.Names[0].Name)
}

/*
TestService_RemoveName_KeepsLastName refuses to strip a person of their only
remaining name.
*/
func TestService_RemoveName_KeepsLastName(t *testing.T) {
	repo := &fakeRepository{nameCount: 1}

	err := testService(repo).RemoveName(context.Background(), 7, 42)

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNPROCESSABLE", ae.Code)
	assert.Empty(t, repo.removedNames)
}

/*
TestService_RemoveName_AllowsWithSiblings removes a name when at least one
other active name survives.
*/
func TestService_RemoveName_AllowsWithSiblings(t *testing.T) {
	repo := &fakeRepository{nameCount: 3}

	err := testService(repo).RemoveName(context.Background(), 7, 42)

	require.NoError(t, err)
	assert.Equal(t, []int{42}, repo.removedNames)
}
