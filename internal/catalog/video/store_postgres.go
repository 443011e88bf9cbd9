package video

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

func videoColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s",
		schema.Video.ID, schema.Video.PieceID, schema.Video.URL, schema.Video.Status,
		schema.Video.ApprovedBy, schema.Video.CreatedAt, schema.Video.CreatedBy,
	)
}

func scanVideo(row interface{ Scan(dest ...any) error }) (*Video, error) {
	v := &Video{}
	if err := row.Scan(&v.ID, &v.PieceID, &v.URL, &v.Status, &v.ApprovedBy, &v.CreatedAt, &v.CreatedBy); err != nil {
		return nil, err
	}
	v.Thumbnail = v.ThumbnailURL()
	return v, nil
}

func (repository *PostgresRepository) FindByPiece(context context.Context, pieceID int, onlyApproved bool) ([]*Video, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		videoColumns(), schema.Video.Table, schema.Video.PieceID, schema.Video.DeletedAt,
	)
	args := []any{pieceID}

	if onlyApproved {
		query += fmt.Sprintf(" AND %s = $2", schema.Video.Status)
		args = append(args, StatusApproved)
	}
	query += fmt.Sprintf(" ORDER BY %s ASC", schema.Video.ID)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_videos")
	}
	defer rows.Close()

	videos := make([]*Video, 0)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_video")
		}
		videos = append(videos, v)
	}

	return videos, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int) (*Video, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		videoColumns(), schema.Video.Table, schema.Video.ID, schema.Video.DeletedAt,
	)

	v, err := scanVideo(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_video")
	}
	return v, nil
}

// FindPending lists the moderation queue, oldest submissions first.
func (repository *PostgresRepository) FindPending(context context.Context) ([]*Video, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL ORDER BY %s ASC, %s ASC`,
		videoColumns(), schema.Video.Table, schema.Video.Status, schema.Video.DeletedAt,
		schema.Video.CreatedAt, schema.Video.ID,
	)

	rows, err := repository.db.Query(context, query, StatusPending)
	if err != nil {
		return nil, dberr.Wrap(err, "list_pending_videos")
	}
	defer rows.Close()

	videos := make([]*Video, 0)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_video")
		}
		videos = append(videos, v)
	}

	return videos, nil
}

// Create inserts a submission. The piece reference must be live, so the
// insert selects from the piece table rather than trusting the caller.
func (repository *PostgresRepository) Create(context context.Context, v *Video) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		SELECT pc.%s, $2, $3, NOW(), $4
		FROM %s pc
		WHERE pc.%s = $1 AND pc.%s IS NULL
		RETURNING %s, %s
	`,
		schema.Video.Table, schema.Video.PieceID, schema.Video.URL, schema.Video.Status,
		schema.Video.CreatedAt, schema.Video.CreatedBy,
		schema.Piece.ID,
		schema.Piece.Table,
		schema.Piece.ID, schema.Piece.DeletedAt,
		schema.Video.ID, schema.Video.CreatedAt,
	)

	err := repository.db.QueryRow(context, query, v.PieceID, v.URL, v.Status, v.CreatedBy).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_video")
	}
	v.Thumbnail = v.ThumbnailURL()
	return nil
}

// SetStatus records a moderation decision. Any prior decision is overwritten
// and the approver restamped.
func (repository *PostgresRepository) SetStatus(context context.Context, id int, status Status, approverID int) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1 AND %s IS NULL`,
		schema.Video.Table, schema.Video.Status, schema.Video.ApprovedBy,
		schema.Video.ID, schema.Video.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, id, status, approverID)
	if err != nil {
		return dberr.Wrap(err, "set_video_status")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) SoftDelete(context context.Context, id, deletedBy int) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW(), %s = $2 WHERE %s = $1 AND %s IS NULL`,
		schema.Video.Table, schema.Video.DeletedAt, schema.Video.DeletedBy,
		schema.Video.ID, schema.Video.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, id, deletedBy)
	if err != nil {
		return dberr.Wrap(err, "delete_video")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
