// Copyright (c) 2026 Fermata. All rights reserved.

package favorite

import "context"

type Repository interface {
	// FindByUserAndPiece returns the row for the pair regardless of its
	// soft-delete state. The toggle logic needs to see dead rows.
	FindByUserAndPiece(context context.Context, userID, pieceID int) (*Favorite, error)

	Insert(context context.Context, f *Favorite) error
	Reactivate(context context.Context, id int) error
	SoftDelete(context context.Context, id int) error

	CountByPiece(context context.Context, pieceID int) (int, error)
	ListByUser(context context.Context, userID int) ([]*Favorite, error)
}
