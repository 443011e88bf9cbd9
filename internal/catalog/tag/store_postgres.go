package tag

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fermata-app/fermata/internal/platform/database/schema"
	"github.com/fermata-app/fermata/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) FindAll(context context.Context) ([]*Tag, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s IS NULL ORDER BY %s ASC`,
		schema.Tag.ID, schema.Tag.Name, schema.Tag.CreatedAt, schema.Tag.CreatedBy,
		schema.Tag.Table, schema.Tag.DeletedAt, schema.Tag.Name,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_tags")
	}
	defer rows.Close()

	tags := make([]*Tag, 0)
	for rows.Next() {
		t := &Tag{}
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.CreatedBy); err != nil {
			return nil, dberr.Wrap(err, "scan_tag")
		}
		tags = append(tags, t)
	}

	return tags, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int) (*Tag, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		schema.Tag.ID, schema.Tag.Name, schema.Tag.CreatedAt, schema.Tag.CreatedBy,
		schema.Tag.Table, schema.Tag.ID, schema.Tag.DeletedAt,
	)

	t := &Tag{}
	err := repository.db.QueryRow(context, query, id).Scan(&t.ID, &t.Name, &t.CreatedAt, &t.CreatedBy)
	if err != nil {
		return nil, dberr.Wrap(err, "get_tag")
	}
	return t, nil
}

// Create inserts a tag. A duplicate active name surfaces as a Conflict
// through the unique index on the name column.
func (repository *PostgresRepository) Create(context context.Context, t *Tag) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, NOW(), $2)
		RETURNING %s, %s
	`,
		schema.Tag.Table, schema.Tag.Name, schema.Tag.CreatedAt, schema.Tag.CreatedBy,
		schema.Tag.ID, schema.Tag.CreatedAt,
	)

	err := repository.db.QueryRow(context, query, t.Name, t.CreatedBy).Scan(&t.ID, &t.CreatedAt)
	return dberr.Wrap(err, "create_tag")
}

func (repository *PostgresRepository) SoftDelete(context context.Context, id, deletedBy int) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW(), %s = $2 WHERE %s = $1 AND %s IS NULL`,
		schema.Tag.Table, schema.Tag.DeletedAt, schema.Tag.DeletedBy,
		schema.Tag.ID, schema.Tag.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, id, deletedBy)
	if err != nil {
		return dberr.Wrap(err, "delete_tag")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
