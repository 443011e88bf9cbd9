// Copyright (c) 2026 Fermata. All rights reserved.

package tag

import "context"

type Repository interface {
	FindAll(context context.Context) ([]*Tag, error)
	FindByID(context context.Context, id int) (*Tag, error)
	Create(context context.Context, t *Tag) error
	SoftDelete(context context.Context, id, deletedBy int) error
}
