// Copyright (c) 2026 Fermata. All rights reserved.

package person

import "context"

type Repository interface {
	List(context context.Context, f Filter, limit, offset int) ([]*Person, int, error)
	FindByID(context context.Context, id int) (*Person, error)
	Create(context context.Context, p *Person) error
	Update(context context.Context, p *Person) error
	SoftDelete(context context.Context, id, deletedBy int) error

	AddName(context context.Context, personID int, name string) (*Name, error)
	RemoveName(context context.Context, personID, nameID int) error
	CountNames(context context.Context, personID int) (int, error)
}
