// Copyright (c) 2026 Fermata. All rights reserved.

// Package person manages composers and arrangers in the catalog.
//
// A person has no single canonical name. Display names live in a child table
// and carry both Japanese and Western spellings; callers pick the right one
// per language through [Person.MainName].
package person

import (
	"time"

	"github.com/fermata-app/fermata/pkg/names"
	"github.com/fermata-app/fermata/pkg/slice"
)

// Name is one display name of a person. Rows are ordered by insertion.
type Name struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Person represents a composer or arranger.
type Person struct {
	ID        int        `json:"id"`
	Names     []Name     `json:"names"`
	Bio       *string    `json:"bio"`
	BirthYear *int       `json:"birth_year"`
	DeathYear *int       `json:"death_year"`
	Country   *string    `json:"country"`
	CreatedAt time.Time  `json:"created_at"`
	CreatedBy int        `json:"created_by"`
	DeletedAt *time.Time `json:"-"` // soft-delete tracker
	DeletedBy *int       `json:"-"`
}

// IsAlive reports whether the person has no recorded death year.
func (person *Person) IsAlive() bool {
	return person.DeathYear == nil
}

// NameList returns the raw name strings in insertion order.
func (person *Person) NameList() []string {
	return slice.Map(person.Names, func(n Name) string { return n.Name })
}

// MainName picks the display name for the requested language.
func (person *Person) MainName(lang names.Lang) string {
	return names.Main(person.NameList(), lang)
}

// Filter holds the parameters for a paginated person search.
type Filter struct {
	Query   string  // Substring match against any active name
	Country *string // Exact country equality
	Alive   *bool   // true: no death year, false: death year present
}

// Global field names for validation
const (
	FieldNames     = "names"
	FieldName      = "name"
	FieldBio       = "bio"
	FieldBirthYear = "birth_year"
	FieldDeathYear = "death_year"
	FieldCountry   = "country"
)
