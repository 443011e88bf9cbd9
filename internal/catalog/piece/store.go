// Copyright (c) 2026 Fermata. All rights reserved.

package piece

import "context"

type Repository interface {
	List(context context.Context, f Filter, limit, offset int) ([]*Piece, int, error)
	FindByID(context context.Context, id int) (*Piece, error)
	FindDetail(context context.Context, id int) (*Detail, error)
	FindByComposer(context context.Context, composerID int) ([]*Piece, error)
	FindByArranger(context context.Context, arrangerID int) ([]*Piece, error)
	FindChildren(context context.Context, parentID int) ([]*Piece, error)
	FindRecent(context context.Context, limit int) ([]*Piece, error)
	FindPopular(context context.Context, limit int) ([]*Piece, error)

	Create(context context.Context, p *Piece) error
	Update(context context.Context, p *Piece) error
	SoftDelete(context context.Context, id, deletedBy int) error

	AddName(context context.Context, pieceID int, name string) (*Name, error)
	RemoveName(context context.Context, pieceID, nameID int) error
	CountNames(context context.Context, pieceID int) (int, error)

	AddTag(context context.Context, pieceID, tagID, actorID int) error
	RemoveTag(context context.Context, pieceID, tagID int) error
}
