// Copyright (c) 2026 Fermata. All rights reserved.

// Package tag manages the flat tag vocabulary applied to pieces.
package tag

import "time"

// Tag represents a categorization attribute applied to a piece.
// Names are unique (case-sensitive) among active tags.
type Tag struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	CreatedBy int        `json:"created_by"`
	DeletedAt *time.Time `json:"-"` // soft-delete tracker
	DeletedBy *int       `json:"-"`
}

// Global field names for validation
const (
	FieldName = "name"
)
