package piece

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fermata-app/fermata/internal/platform/database/schema"
	"github.com/fermata-app/fermata/internal/platform/dberr"
)

// PostgresRepository is the pgx implementation of [Repository].
//
// It leans on JSON aggregation sub-queries to hydrate names and tags in a
// single round-trip, and on a COUNT(*) OVER() window for totals. Soft-delete
// filtering is applied transitively: deleted name rows, deleted tag links,
// and deleted tags never leak into aggregates.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// pieceColumns is the shared SELECT list for the root entity, aliased to pc.
func pieceColumns() string {
	return fmt.Sprintf("pc.%s, pc.%s, pc.%s, pc.%s, pc.%s, pc.%s, pc.%s, pc.%s",
		schema.Piece.ID, schema.Piece.ComposerID, schema.Piece.ArrangerID, schema.Piece.ParentPieceID,
		schema.Piece.CompositionYear, schema.Piece.SheetMusicInfo, schema.Piece.CreatedAt, schema.Piece.CreatedBy,
	)
}

// namesSubquery aggregates the active names of a piece into a JSON array,
// ordered by insertion.
func namesSubquery() string {
	return fmt.Sprintf(`COALESCE((
		SELECT json_agg(json_build_object('id', n.%s, 'name', n.%s) ORDER BY n.%s)
		FROM %s n
		WHERE n.%s = pc.%s AND n.%s IS NULL
	), '[]')`,
		schema.PieceName.ID, schema.PieceName.Name, schema.PieceName.ID,
		schema.PieceName.Table,
		schema.PieceName.PieceID, schema.Piece.ID, schema.PieceName.DeletedAt,
	)
}

// tagsSubquery aggregates the active tags of a piece. Both the join row and
// the tag itself must be live.
func tagsSubquery() string {
	return fmt.Sprintf(`COALESCE((
		SELECT json_agg(json_build_object('id', t.%s, 'name', t.%s) ORDER BY t.%s)
		FROM %s t
		JOIN %s pt ON t.%s = pt.%s
		WHERE pt.%s = pc.%s AND pt.%s IS NULL AND t.%s IS NULL
	), '[]')`,
		schema.Tag.ID, schema.Tag.Name, schema.Tag.Name,
		schema.Tag.Table,
		schema.PieceTag.Table, schema.Tag.ID, schema.PieceTag.TagID,
		schema.PieceTag.PieceID, schema.Piece.ID, schema.PieceTag.DeletedAt, schema.Tag.DeletedAt,
	)
}

func (repository *PostgresRepository) scanPieces(rows interface {
	Next() bool
	Scan(dest ...any) error
}, withTotal bool) ([]*Piece, int, error) {
	var pieces []*Piece
	var total int

	for rows.Next() {
		p := &Piece{}
		var namesJSON, tagsJSON []byte

		dest := []any{
			&p.ID, &p.ComposerID, &p.ArrangerID, &p.ParentPieceID,
			&p.CompositionYear, &p.SheetMusicInfo, &p.CreatedAt, &p.CreatedBy,
		}
		if withTotal {
			dest = append(dest, &total)
		}
		dest = append(dest, &namesJSON, &tagsJSON)

		if err := rows.Scan(dest...); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_piece")
		}
		if err := json.Unmarshal(namesJSON, &p.Names); err != nil {
			return nil, 0, dberr.Wrap(err, "unmarshal_piece_names")
		}
		if err := json.Unmarshal(tagsJSON, &p.Tags); err != nil {
			return nil, 0, dberr.Wrap(err, "unmarshal_piece_tags")
		}
		pieces = append(pieces, p)
	}

	return pieces, total, nil
}

// buildListQuery composes the dynamic list statement. Filters are appended
// in a fixed order so argument numbering stays predictable.
func buildListQuery(f Filter, limit, offset int) (string, []any) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s,
			COUNT(*) OVER() AS total_count,
			%s AS names,
			%s AS tags
		FROM %s pc
		WHERE pc.%s IS NULL
	`,
		pieceColumns(), namesSubquery(), tagsSubquery(),
		schema.Piece.Table,
		schema.Piece.DeletedAt,
	))

	// Substring search against any active name
	if f.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM %s n
			WHERE n.%s = pc.%s AND n.%s IS NULL AND n.%s ILIKE $%d
		)`,
			schema.PieceName.Table,
			schema.PieceName.PieceID, schema.Piece.ID, schema.PieceName.DeletedAt,
			schema.PieceName.Name, argID,
		))
		args = append(args, "%"+f.Query+"%")
		argID++
	}

	if f.ComposerID != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND pc.%s = $%d", schema.Piece.ComposerID, argID))
		args = append(args, *f.ComposerID)
		argID++
	}

	// Tag filter matches pieces carrying ANY of the requested tags.
	// Deleted links and deleted tags are ignored.
	if len(f.TagIDs) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM %s pt
			JOIN %s t ON t.%s = pt.%s
			WHERE pt.%s = pc.%s AND pt.%s IS NULL AND t.%s IS NULL AND pt.%s = ANY($%d)
		)`,
			schema.PieceTag.Table,
			schema.Tag.Table, schema.Tag.ID, schema.PieceTag.TagID,
			schema.PieceTag.PieceID, schema.Piece.ID, schema.PieceTag.DeletedAt, schema.Tag.DeletedAt,
			schema.PieceTag.TagID, argID,
		))
		args = append(args, f.TagIDs)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY pc.%s ASC", schema.Piece.ID))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	return queryBuilder.String(), args
}

func (repository *PostgresRepository) List(context context.Context, f Filter, limit, offset int) ([]*Piece, int, error) {
	query, args := buildListQuery(f, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_pieces")
	}
	defer rows.Close()

	return repository.scanPieces(rows, true)
}

func (repository *PostgresRepository) FindByID(context context.Context, id int) (*Piece, error) {
	query := fmt.Sprintf(`
		SELECT %s,
			%s AS names,
			%s AS tags
		FROM %s pc
		WHERE pc.%s = $1 AND pc.%s IS NULL
	`,
		pieceColumns(), namesSubquery(), tagsSubquery(),
		schema.Piece.Table,
		schema.Piece.ID, schema.Piece.DeletedAt,
	)

	p := &Piece{}
	var namesJSON, tagsJSON []byte

	err := repository.db.QueryRow(context, query, id).Scan(
		&p.ID, &p.ComposerID, &p.ArrangerID, &p.ParentPieceID,
		&p.CompositionYear, &p.SheetMusicInfo, &p.CreatedAt, &p.CreatedBy,
		&namesJSON, &tagsJSON,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_piece")
	}

	if err := json.Unmarshal(namesJSON, &p.Names); err != nil {
		return nil, dberr.Wrap(err, "unmarshal_piece_names")
	}
	if err := json.Unmarshal(tagsJSON, &p.Tags); err != nil {
		return nil, dberr.Wrap(err, "unmarshal_piece_tags")
	}
	return p, nil
}

// detailQuery builds the single-read projection behind FindDetail. The
// person-name subqueries join the owning person row, so names of a
// soft-deleted arranger aggregate to NULL just as a deleted composer drops
// the piece through the strict join.
func detailQuery() string {
	personNames := func(owner string) string {
		return fmt.Sprintf(`(
			SELECT json_agg(pn.%s ORDER BY pn.%s)
			FROM %s pn
			JOIN %s pe ON pe.%s = pn.%s AND pe.%s IS NULL
			WHERE pn.%s = %s AND pn.%s IS NULL
		)`,
			schema.PersonName.Name, schema.PersonName.ID,
			schema.PersonName.Table,
			schema.Person.Table, schema.Person.ID, schema.PersonName.PersonID, schema.Person.DeletedAt,
			schema.PersonName.PersonID, owner, schema.PersonName.DeletedAt,
		)
	}

	return fmt.Sprintf(`
		SELECT %s,
			%s AS names,
			%s AS tags,
			COALESCE(%s, '[]') AS composer_names,
			%s AS arranger_names,
			(SELECT count(*) FROM %s f WHERE f.%s = pc.%s AND f.%s IS NULL) AS favorite_count
		FROM %s pc
		JOIN %s comp ON comp.%s = pc.%s AND comp.%s IS NULL
		WHERE pc.%s = $1 AND pc.%s IS NULL
	`,
		pieceColumns(), namesSubquery(), tagsSubquery(),
		personNames("pc."+schema.Piece.ComposerID),
		personNames("pc."+schema.Piece.ArrangerID),
		schema.Favorite.Table, schema.Favorite.PieceID, schema.Piece.ID, schema.Favorite.DeletedAt,
		schema.Piece.Table,
		schema.Person.Table, schema.Person.ID, schema.Piece.ComposerID, schema.Person.DeletedAt,
		schema.Piece.ID, schema.Piece.DeletedAt,
	)
}

/*
FindDetail retrieves the full projection of a piece in one logical read.

The composer join is strict: a piece whose composer has been soft-deleted is
treated the same as a missing piece. The arranger join is optional, but a
soft-deleted arranger contributes no names. The favorite count only considers
active favorite rows.

Returns:
  - *Detail: Piece, resolved participant names, active tags, favorite count
  - error: dberr.ErrNotFound when the piece or its composer is gone
*/
func (repository *PostgresRepository) FindDetail(context context.Context, id int) (*Detail, error) {
	query := detailQuery()

	detail := &Detail{}
	var namesJSON, tagsJSON, composerJSON, arrangerJSON []byte

	err := repository.db.QueryRow(context, query, id).Scan(
		&detail.ID, &detail.ComposerID, &detail.ArrangerID, &detail.ParentPieceID,
		&detail.CompositionYear, &detail.SheetMusicInfo, &detail.CreatedAt, &detail.CreatedBy,
		&namesJSON, &tagsJSON, &composerJSON, &arrangerJSON,
		&detail.FavoriteCount,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_piece_detail")
	}

	if err := json.Unmarshal(namesJSON, &detail.Names); err != nil {
		return nil, dberr.Wrap(err, "unmarshal_piece_names")
	}
	if err := json.Unmarshal(tagsJSON, &detail.Tags); err != nil {
		return nil, dberr.Wrap(err, "unmarshal_piece_tags")
	}
	if err := json.Unmarshal(composerJSON, &detail.ComposerNames); err != nil {
		return nil, dberr.Wrap(err, "unmarshal_composer_names")
	}
	if arrangerJSON != nil {
		if err := json.Unmarshal(arrangerJSON, &detail.ArrangerNames); err != nil {
			return nil, dberr.Wrap(err, "unmarshal_arranger_names")
		}
	}
	return detail, nil
}

// listByReference fetches active pieces matching an exact FK column value.
func (repository *PostgresRepository) listByReference(context context.Context, column string, value int) ([]*Piece, error) {
	query := fmt.Sprintf(`
		SELECT %s,
			%s AS names,
			%s AS tags
		FROM %s pc
		WHERE pc.%s = $1 AND pc.%s IS NULL
		ORDER BY pc.%s ASC
	`,
		pieceColumns(), namesSubquery(), tagsSubquery(),
		schema.Piece.Table,
		column, schema.Piece.DeletedAt,
		schema.Piece.ID,
	)

	rows, err := repository.db.Query(context, query, value)
	if err != nil {
		return nil, dberr.Wrap(err, "list_pieces_by_"+column)
	}
	defer rows.Close()

	pieces, _, err := repository.scanPieces(rows, false)
	return pieces, err
}

func (repository *PostgresRepository) FindByComposer(context context.Context, composerID int) ([]*Piece, error) {
	return repository.listByReference(context, schema.Piece.ComposerID, composerID)
}

func (repository *PostgresRepository) FindByArranger(context context.Context, arrangerID int) ([]*Piece, error) {
	return repository.listByReference(context, schema.Piece.ArrangerID, arrangerID)
}

func (repository *PostgresRepository) FindChildren(context context.Context, parentID int) ([]*Piece, error) {
	return repository.listByReference(context, schema.Piece.ParentPieceID, parentID)
}

func (repository *PostgresRepository) FindRecent(context context.Context, limit int) ([]*Piece, error) {
	query := fmt.Sprintf(`
		SELECT %s,
			%s AS names,
			%s AS tags
		FROM %s pc
		WHERE pc.%s IS NULL
		ORDER BY pc.%s DESC, pc.%s DESC
		LIMIT $1
	`,
		pieceColumns(), namesSubquery(), tagsSubquery(),
		schema.Piece.Table,
		schema.Piece.DeletedAt,
		schema.Piece.CreatedAt, schema.Piece.ID,
	)

	rows, err := repository.db.Query(context, query, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "list_recent_pieces")
	}
	defer rows.Close()

	pieces, _, err := repository.scanPieces(rows, false)
	return pieces, err
}

// popularQuery ranks active pieces by their live favorite count, with the
// piece id as a deterministic tiebreak for stable pagination.
func popularQuery() string {
	return fmt.Sprintf(`
		SELECT %s,
			%s AS names,
			%s AS tags
		FROM %s pc
		LEFT JOIN (
			SELECT %s, count(*) AS favorite_count
			FROM %s
			WHERE %s IS NULL
			GROUP BY %s
		) fav ON fav.%s = pc.%s
		WHERE pc.%s IS NULL
		ORDER BY COALESCE(fav.favorite_count, 0) DESC, pc.%s ASC
		LIMIT $1
	`,
		pieceColumns(), namesSubquery(), tagsSubquery(),
		schema.Piece.Table,
		schema.Favorite.PieceID,
		schema.Favorite.Table,
		schema.Favorite.DeletedAt,
		schema.Favorite.PieceID,
		schema.Favorite.PieceID, schema.Piece.ID,
		schema.Piece.DeletedAt,
		schema.Piece.ID,
	)
}

func (repository *PostgresRepository) FindPopular(context context.Context, limit int) ([]*Piece, error) {
	rows, err := repository.db.Query(context, popularQuery(), limit)
	if err != nil {
		return nil, dberr.Wrap(err, "list_popular_pieces")
	}
	defer rows.Close()

	pieces, _, err := repository.scanPieces(rows, false)
	return pieces, err
}

// Create inserts the piece, its initial names, and any tag links in one
// transaction.
func (repository *PostgresRepository) Create(context context.Context, p *Piece) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_piece")
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW(), $6)
		RETURNING %s, %s
	`,
		schema.Piece.Table,
		schema.Piece.ComposerID, schema.Piece.ArrangerID, schema.Piece.ParentPieceID,
		schema.Piece.CompositionYear, schema.Piece.SheetMusicInfo,
		schema.Piece.CreatedAt, schema.Piece.CreatedBy,
		schema.Piece.ID, schema.Piece.CreatedAt,
	)

	err = transaction.QueryRow(context, query,
		p.ComposerID, p.ArrangerID, p.ParentPieceID, p.CompositionYear, p.SheetMusicInfo, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_piece")
	}

	nameQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, NOW()) RETURNING %s`,
		schema.PieceName.Table, schema.PieceName.PieceID, schema.PieceName.Name, schema.PieceName.CreatedAt,
		schema.PieceName.ID,
	)
	for i := range p.Names {
		if err := transaction.QueryRow(context, nameQuery, p.ID, p.Names[i].Name).Scan(&p.Names[i].ID); err != nil {
			return dberr.Wrap(err, "create_piece_name")
		}
	}

	if len(p.TagIDs) > 0 {
		tagQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, NOW(), $3)`,
			schema.PieceTag.Table, schema.PieceTag.PieceID, schema.PieceTag.TagID,
			schema.PieceTag.CreatedAt, schema.PieceTag.CreatedBy,
		)
		for _, tagID := range p.TagIDs {
			if _, err := transaction.Exec(context, tagQuery, p.ID, tagID, p.CreatedBy); err != nil {
				return dberr.Wrap(err, "create_piece_tag")
			}
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_create_piece")
	}
	return nil
}

func (repository *PostgresRepository) Update(context context.Context, p *Piece) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.Piece.Table,
		schema.Piece.ComposerID, schema.Piece.ArrangerID, schema.Piece.ParentPieceID,
		schema.Piece.CompositionYear, schema.Piece.SheetMusicInfo,
		schema.Piece.ID, schema.Piece.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query,
		p.ID, p.ComposerID, p.ArrangerID, p.ParentPieceID, p.CompositionYear, p.SheetMusicInfo,
	)
	if err != nil {
		return dberr.Wrap(err, "update_piece")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) SoftDelete(context context.Context, id, deletedBy int) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW(), %s = $2 WHERE %s = $1 AND %s IS NULL`,
		schema.Piece.Table, schema.Piece.DeletedAt, schema.Piece.DeletedBy,
		schema.Piece.ID, schema.Piece.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, id, deletedBy)
	if err != nil {
		return dberr.Wrap(err, "delete_piece")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) AddName(context context.Context, pieceID int, name string) (*Name, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		SELECT pc.%s, $2, NOW()
		FROM %s pc
		WHERE pc.%s = $1 AND pc.%s IS NULL
		RETURNING %s
	`,
		schema.PieceName.Table, schema.PieceName.PieceID, schema.PieceName.Name, schema.PieceName.CreatedAt,
		schema.Piece.ID,
		schema.Piece.Table,
		schema.Piece.ID, schema.Piece.DeletedAt,
		schema.PieceName.ID,
	)

	n := &Name{Name: name}
	if err := repository.db.QueryRow(context, query, pieceID, name).Scan(&n.ID); err != nil {
		return nil, dberr.Wrap(err, "add_piece_name")
	}
	return n, nil
}

func (repository *PostgresRepository) RemoveName(context context.Context, pieceID, nameID int) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s = $2 AND %s IS NULL`,
		schema.PieceName.Table, schema.PieceName.DeletedAt,
		schema.PieceName.ID, schema.PieceName.PieceID, schema.PieceName.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, nameID, pieceID)
	if err != nil {
		return dberr.Wrap(err, "remove_piece_name")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) CountNames(context context.Context, pieceID int) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1 AND %s IS NULL`,
		schema.PieceName.Table, schema.PieceName.PieceID, schema.PieceName.DeletedAt,
	)

	var total int
	if err := repository.db.QueryRow(context, query, pieceID).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_piece_names")
	}
	return total, nil
}

// AddTag links a tag to a piece. A previously soft-deleted link is
// reactivated in place, backed by the UNIQUE (pieceid, tagid) index.
func (repository *PostgresRepository) AddTag(context context.Context, pieceID, tagID, actorID int) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, NOW(), $3)
		ON CONFLICT (%s, %s) DO UPDATE SET %s = NULL
	`,
		schema.PieceTag.Table, schema.PieceTag.PieceID, schema.PieceTag.TagID,
		schema.PieceTag.CreatedAt, schema.PieceTag.CreatedBy,
		schema.PieceTag.PieceID, schema.PieceTag.TagID,
		schema.PieceTag.DeletedAt,
	)

	if _, err := repository.db.Exec(context, query, pieceID, tagID, actorID); err != nil {
		return dberr.Wrap(err, "add_piece_tag")
	}
	return nil
}

func (repository *PostgresRepository) RemoveTag(context context.Context, pieceID, tagID int) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s = $2 AND %s IS NULL`,
		schema.PieceTag.Table, schema.PieceTag.DeletedAt,
		schema.PieceTag.PieceID, schema.PieceTag.TagID, schema.PieceTag.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, pieceID, tagID)
	if err != nil {
		return dberr.Wrap(err, "remove_piece_tag")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
