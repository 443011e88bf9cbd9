// Copyright (c) 2026 Fermata. All rights reserved.

/*
Package piece manages musical works in the catalog.

A piece always references a composer. An arranger reference marks the work as
an arrangement, and a parent reference places a movement inside a suite. Like
persons, pieces carry multiple display names in a child table and expose a
language-aware main name.
*/
package piece

import (
	"time"

	"github.com/fermata-app/fermata/pkg/names"
	"github.com/fermata-app/fermata/pkg/slice"
)

// Name is one display name of a piece. Rows are ordered by insertion.
type Name struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Tag is the compact tag shape embedded in piece responses.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Piece represents a musical work.
type Piece struct {
	ID              int        `json:"id"`
	Names           []Name     `json:"names"`
	ComposerID      int        `json:"composer_id"`
	ArrangerID      *int       `json:"arranger_id"`
	ParentPieceID   *int       `json:"parent_piece_id"`
	CompositionYear *int       `json:"composition_year"`
	SheetMusicInfo  *string    `json:"sheet_music_info"`
	Tags            []Tag      `json:"tags"`
	CreatedAt       time.Time  `json:"created_at"`
	CreatedBy       int        `json:"created_by"`
	DeletedAt       *time.Time `json:"-"` // soft-delete tracker
	DeletedBy       *int       `json:"-"`

	// TagIDs is the write-side tag assignment, accepted on create.
	TagIDs []int `json:"tag_ids,omitempty"`
}

// IsArrangement reports whether the piece is an arrangement of another
// composer's work.
func (piece *Piece) IsArrangement() bool {
	return piece.ArrangerID != nil
}

// IsPartOfSuite reports whether the piece is a movement of a parent work.
func (piece *Piece) IsPartOfSuite() bool {
	return piece.ParentPieceID != nil
}

// NameList returns the raw name strings in insertion order.
func (piece *Piece) NameList() []string {
	return slice.Map(piece.Names, func(n Name) string { return n.Name })
}

// MainName picks the display name for the requested language.
func (piece *Piece) MainName(lang names.Lang) string {
	return names.Main(piece.NameList(), lang)
}

// Detail is the full projection of a piece for detail pages: the work itself
// plus resolved participant names and the live favorite count.
type Detail struct {
	Piece

	ComposerNames []string `json:"composer_names"`
	ArrangerNames []string `json:"arranger_names"`
	FavoriteCount int      `json:"favorite_count"`
}

// ComposerMainName picks the composer's display name for the requested language.
func (detail *Detail) ComposerMainName(lang names.Lang) string {
	return names.Main(detail.ComposerNames, lang)
}

// Filter holds the parameters for a paginated piece search.
type Filter struct {
	Query      string // Substring match against any active name
	ComposerID *int   // Exact composer reference
	TagIDs     []int  // Matches pieces carrying ANY of these tags
}

// Global field names for validation
const (
	FieldNames           = "names"
	FieldName            = "name"
	FieldComposerID      = "composer_id"
	FieldArrangerID      = "arranger_id"
	FieldParentPieceID   = "parent_piece_id"
	FieldCompositionYear = "composition_year"
	FieldSheetMusicInfo  = "sheet_music_info"
)
