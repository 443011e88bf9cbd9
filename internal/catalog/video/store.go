// Copyright (c) 2026 Fermata. All rights reserved.

package video

import "context"

type Repository interface {
	FindByPiece(context context.Context, pieceID int, onlyApproved bool) ([]*Video, error)
	FindByID(context context.Context, id int) (*Video, error)
	FindPending(context context.Context) ([]*Video, error)
	Create(context context.Context, v *Video) error
	SetStatus(context context.Context, id int, status Status, approverID int) error
	SoftDelete(context context.Context, id, deletedBy int) error
}
