// Copyright (c) 2026 Fermata. All rights reserved.

/*
Package favorite implements the per-user favorite toggle on pieces.

A favorite row is never duplicated for a (user, piece) pair. Toggling off
soft-deletes the row and toggling back on reactivates it, so the row id is
stable across repeated toggles. A unique index on the pair arbitrates
concurrent additions.
*/
package favorite

import "time"

// Favorite marks a piece as favorited by a user.
type Favorite struct {
	ID        int        `json:"id"`
	UserID    int        `json:"user_id"`
	PieceID   int        `json:"piece_id"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"` // soft-delete tracker
}

// IsActive reports whether the favorite currently counts.
func (favorite *Favorite) IsActive() bool {
	return favorite.DeletedAt == nil
}
