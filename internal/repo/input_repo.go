package repo

import (
	"context"
	"time"

	dom "inputdash/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGInputRepo struct {
	db *pgxpool.Pool
}

func NewPGInputRepo(db *pgxpool.Pool) *PGInputRepo {
	return &PGInputRepo{db: db}
}

func (r *PGInputRepo) Create(ctx context.Context, in dom.Input) (dom.Input, error) {
	query := `
		INSERT INTO inputs (user_id, text, category, intent, severity, source, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + inputColumns
	row := r.db.QueryRow(ctx, query,
		in.UserID, in.Text, in.Category, in.Intent, in.Severity, in.Source, in.Status)
	out, err := scanPGInput(row)
	return out, pgErr(err)
}

func (r *PGInputRepo) GetByID(ctx context.Context, userID, id int64) (dom.Input, error) {
	query := `SELECT ` + inputColumns + `
		FROM inputs WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	out, err := scanPGInput(r.db.QueryRow(ctx, query, id, userID))
	return out, pgErr(err)
}

func (r *PGInputRepo) List(ctx context.Context, userID int64, order dom.ListOrder) ([]dom.Input, error) {
	orderBy, err := orderClause(order)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + inputColumns + `
		FROM inputs WHERE user_id = $1 AND deleted_at IS NULL ` + orderBy
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []dom.Input{}
	for rows.Next() {
		in, err := scanPGInput(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, in)
	}
	return list, rows.Err()
}

func (r *PGInputRepo) Update(ctx context.Context, in dom.Input) (dom.Input, error) {
	query := `
		UPDATE inputs SET text = $3, category = $4, intent = $5, severity = $6, source = $7, status = $8
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		RETURNING ` + inputColumns
	row := r.db.QueryRow(ctx, query,
		in.ID, in.UserID, in.Text, in.Category, in.Intent, in.Severity, in.Source, in.Status)
	out, err := scanPGInput(row)
	return out, pgErr(err)
}

func (r *PGInputRepo) SoftDelete(ctx context.Context, userID, id int64) error {
	now := time.Now().UTC()
	tag, err := r.db.Exec(ctx,
		`UPDATE inputs SET deleted_at = $3 WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`,
		id, userID, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPGInput(row pgx.Row) (dom.Input, error) {
	var in dom.Input
	err := row.Scan(&in.ID, &in.UserID, &in.Text, &in.Category, &in.Intent, &in.Severity,
		&in.Source, &in.Status, &in.CreatedAt, &in.DeletedAt)
	return in, err
}
