package favorite

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

func (repository *PostgresRepository) FindByUserAndPiece(context context.Context, userID, pieceID int) (*Favorite, error) {
	// Deliberately no deletedat filter: the toggle inspects dead rows.
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = $1 AND %s = $2`,
		schema.Favorite.ID, schema.Favorite.UserID, schema.Favorite.PieceID,
		schema.Favorite.CreatedAt, schema.Favorite.DeletedAt,
		schema.Favorite.Table,
		schema.Favorite.UserID, schema.Favorite.PieceID,
	)

	f := &Favorite{}
	err := repository.db.QueryRow(context, query, userID, pieceID).Scan(
		&f.ID, &f.UserID, &f.PieceID, &f.CreatedAt, &f.DeletedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_favorite")
	}
	return f, nil
}

// Insert creates a favorite for a live piece. A concurrent duplicate surfaces
// as a Conflict through the UNIQUE (userid, pieceid) index.
func (repository *PostgresRepository) Insert(context context.Context, f *Favorite) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		SELECT $1, pc.%s, NOW()
		FROM %s pc
		WHERE pc.%s = $2 AND pc.%s IS NULL
		RETURNING %s, %s
	`,
		schema.Favorite.Table, schema.Favorite.UserID, schema.Favorite.PieceID, schema.Favorite.CreatedAt,
		schema.Piece.ID,
		schema.Piece.Table,
		schema.Piece.ID, schema.Piece.DeletedAt,
		schema.Favorite.ID, schema.Favorite.CreatedAt,
	)

	err := repository.db.QueryRow(context, query, f.UserID, f.PieceID).Scan(&f.ID, &f.CreatedAt)
	return dberr.Wrap(err, "insert_favorite")
}

func (repository *PostgresRepository) Reactivate(context context.Context, id int) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NULL WHERE %s = $1`,
		schema.Favorite.Table, schema.Favorite.DeletedAt, schema.Favorite.ID,
	)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "reactivate_favorite")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) SoftDelete(context context.Context, id int) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.Favorite.Table, schema.Favorite.DeletedAt, schema.Favorite.ID, schema.Favorite.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_favorite")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) CountByPiece(context context.Context, pieceID int) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1 AND %s IS NULL`,
		schema.Favorite.Table, schema.Favorite.PieceID, schema.Favorite.DeletedAt,
	)

	var total int
	if err := repository.db.QueryRow(context, query, pieceID).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_favorites")
	}
	return total, nil
}

func (repository *PostgresRepository) ListByUser(context context.Context, userID int) ([]*Favorite, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
		ORDER BY %s DESC, %s DESC
	`,
		schema.Favorite.ID, schema.Favorite.UserID, schema.Favorite.PieceID,
		schema.Favorite.CreatedAt, schema.Favorite.DeletedAt,
		schema.Favorite.Table,
		schema.Favorite.UserID, schema.Favorite.DeletedAt,
		schema.Favorite.CreatedAt, schema.Favorite.ID,
	)

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_favorites")
	}
	defer rows.Close()

	favorites := make([]*Favorite, 0)
	for rows.Next() {
		f := &Favorite{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.PieceID, &f.CreatedAt, &f.DeletedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_favorite")
		}
		favorites = append(favorites, f)
	}

	return favorites, nil
}
