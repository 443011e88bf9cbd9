package person

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

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

// namesSubquery aggregates the active names of a person into a JSON array,
// ordered by insertion. Soft-deleted name rows never surface.
func namesSubquery() string {
	return fmt.Sprintf(`COALESCE((
		SELECT json_agg(json_build_object('id', n.%s, 'name', n.%s) ORDER BY n.%s)
		FROM %s n
		WHERE n.%s = p.%s AND n.%s IS NULL
	), '[]')`,
		schema.PersonName.ID, schema.PersonName.Name, schema.PersonName.ID,
		schema.PersonName.Table,
		schema.PersonName.PersonID, schema.Person.ID, schema.PersonName.DeletedAt,
	)
}

func (repository *PostgresRepository) List(context context.Context, f Filter, limit, offset int) ([]*Person, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s,
			COUNT(*) OVER() AS total_count,
			%s AS names
		FROM %s p
		WHERE p.%s IS NULL
	`,
		schema.Person.ID, schema.Person.Bio, schema.Person.BirthYear, schema.Person.DeathYear,
		schema.Person.Country, schema.Person.CreatedAt, schema.Person.CreatedBy,
		namesSubquery(),
		schema.Person.Table,
		schema.Person.DeletedAt,
	))

	// Substring search against any active name
	if f.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM %s n
			WHERE n.%s = p.%s AND n.%s IS NULL AND n.%s ILIKE $%d
		)`,
			schema.PersonName.Table,
			schema.PersonName.PersonID, schema.Person.ID, schema.PersonName.DeletedAt,
			schema.PersonName.Name, argID,
		))
		args = append(args, "%"+f.Query+"%")
		argID++
	}

	if f.Country != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s = $%d", schema.Person.Country, argID))
		args = append(args, *f.Country)
		argID++
	}

	if f.Alive != nil {
		if *f.Alive {
			queryBuilder.WriteString(fmt.Sprintf(" AND p.%s IS NULL", schema.Person.DeathYear))
		} else {
			queryBuilder.WriteString(fmt.Sprintf(" AND p.%s IS NOT NULL", schema.Person.DeathYear))
		}
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY p.%s ASC", schema.Person.ID))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_persons")
	}
	defer rows.Close()

	var persons []*Person
	var total int

	for rows.Next() {
		p := &Person{}
		var namesJSON []byte
		if err := rows.Scan(&p.ID, &p.Bio, &p.BirthYear, &p.DeathYear, &p.Country, &p.CreatedAt, &p.CreatedBy, &total, &namesJSON); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_person")
		}
		if err := json.Unmarshal(namesJSON, &p.Names); err != nil {
			return nil, 0, dberr.Wrap(err, "unmarshal_person_names")
		}
		persons = append(persons, p)
	}

	return persons, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int) (*Person, error) {
	query := fmt.Sprintf(`
		SELECT p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s,
			%s AS names
		FROM %s p
		WHERE p.%s = $1 AND p.%s IS NULL
	`,
		schema.Person.ID, schema.Person.Bio, schema.Person.BirthYear, schema.Person.DeathYear,
		schema.Person.Country, schema.Person.CreatedAt, schema.Person.CreatedBy,
		namesSubquery(),
		schema.Person.Table,
		schema.Person.ID, schema.Person.DeletedAt,
	)

	p := &Person{}
	var namesJSON []byte

	err := repository.db.QueryRow(context, query, id).Scan(
		&p.ID, &p.Bio, &p.BirthYear, &p.DeathYear, &p.Country, &p.CreatedAt, &p.CreatedBy, &namesJSON,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_person")
	}

	if err := json.Unmarshal(namesJSON, &p.Names); err != nil {
		return nil, dberr.Wrap(err, "unmarshal_person_names")
	}
	return p, nil
}

// Create inserts the person and its initial name rows in one transaction.
func (repository *PostgresRepository) Create(context context.Context, p *Person) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_person")
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW(), $5)
		RETURNING %s, %s
	`,
		schema.Person.Table,
		schema.Person.Bio, schema.Person.BirthYear, schema.Person.DeathYear, schema.Person.Country,
		schema.Person.CreatedAt, schema.Person.CreatedBy,
		schema.Person.ID, schema.Person.CreatedAt,
	)

	err = transaction.QueryRow(context, query, p.Bio, p.BirthYear, p.DeathYear, p.Country, p.CreatedBy).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_person")
	}

	nameQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, NOW()) RETURNING %s`,
		schema.PersonName.Table, schema.PersonName.PersonID, schema.PersonName.Name, schema.PersonName.CreatedAt,
		schema.PersonName.ID,
	)
	for i := range p.Names {
		if err := transaction.QueryRow(context, nameQuery, p.ID, p.Names[i].Name).Scan(&p.Names[i].ID); err != nil {
			return dberr.Wrap(err, "create_person_name")
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_create_person")
	}
	return nil
}

func (repository *PostgresRepository) Update(context context.Context, p *Person) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.Person.Table,
		schema.Person.Bio, schema.Person.BirthYear, schema.Person.DeathYear, schema.Person.Country,
		schema.Person.ID, schema.Person.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, p.ID, p.Bio, p.BirthYear, p.DeathYear, p.Country)
	if err != nil {
		return dberr.Wrap(err, "update_person")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) SoftDelete(context context.Context, id, deletedBy int) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW(), %s = $2 WHERE %s = $1 AND %s IS NULL`,
		schema.Person.Table, schema.Person.DeletedAt, schema.Person.DeletedBy,
		schema.Person.ID, schema.Person.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, id, deletedBy)
	if err != nil {
		return dberr.Wrap(err, "delete_person")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) AddName(context context.Context, personID int, name string) (*Name, error) {
	// Attach only to live persons
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		SELECT p.%s, $2, NOW()
		FROM %s p
		WHERE p.%s = $1 AND p.%s IS NULL
		RETURNING %s
	`,
		schema.PersonName.Table, schema.PersonName.PersonID, schema.PersonName.Name, schema.PersonName.CreatedAt,
		schema.Person.ID,
		schema.Person.Table,
		schema.Person.ID, schema.Person.DeletedAt,
		schema.PersonName.ID,
	)

	n := &Name{Name: name}
	if err := repository.db.QueryRow(context, query, personID, name).Scan(&n.ID); err != nil {
		return nil, dberr.Wrap(err, "add_person_name")
	}
	return n, nil
}

func (repository *PostgresRepository) RemoveName(context context.Context, personID, nameID int) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s = $2 AND %s IS NULL`,
		schema.PersonName.Table, schema.PersonName.DeletedAt,
		schema.PersonName.ID, schema.PersonName.PersonID, schema.PersonName.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, nameID, personID)
	if err != nil {
		return dberr.Wrap(err, "remove_person_name")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) CountNames(context context.Context, personID int) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1 AND %s IS NULL`,
		schema.PersonName.Table, schema.PersonName.PersonID, schema.PersonName.DeletedAt,
	)

	var total int
	if err := repository.db.QueryRow(context, query, personID).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_person_names")
	}
	return total, nil
}
