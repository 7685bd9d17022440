package repo

import (
	"context"
	"database/sql"
	"time"

	dom "inputdash/internal/domain"
)

type SQLiteInputRepo struct {
	db *sql.DB
}

func NewSQLiteInputRepo(db *sql.DB) *SQLiteInputRepo {
	return &SQLiteInputRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteInputRepo) Create(ctx context.Context, in dom.Input) (dom.Input, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO inputs (user_id, text, category, intent, severity, source, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+inputColumns,
		in.UserID, in.Text, string(in.Category), string(in.Intent), string(in.Severity),
		string(in.Source), string(in.Status), formatSQLiteTime(time.Now()))
	out, err := scanSQLiteInput(row)
	return out, sqliteErr(err)
}

func (r *SQLiteInputRepo) GetByID(ctx context.Context, userID, id int64) (dom.Input, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+inputColumns+`
		FROM inputs WHERE id = ? AND user_id = ? AND deleted_at IS NULL`, id, userID)
	out, err := scanSQLiteInput(row)
	return out, sqliteErr(err)
}

func (r *SQLiteInputRepo) List(ctx context.Context, userID int64, order dom.ListOrder) ([]dom.Input, error) {
	orderBy, err := orderClause(order)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+inputColumns+`
		FROM inputs WHERE user_id = ? AND deleted_at IS NULL `+orderBy, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []dom.Input{}
	for rows.Next() {
		in, err := scanSQLiteInput(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, in)
	}
	return list, rows.Err()
}

func (r *SQLiteInputRepo) Update(ctx context.Context, in dom.Input) (dom.Input, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE inputs SET text = ?, category = ?, intent = ?, severity = ?, source = ?, status = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL
		RETURNING `+inputColumns,
		in.Text, string(in.Category), string(in.Intent), string(in.Severity), string(in.Source),
		string(in.Status), in.ID, in.UserID)
	out, err := scanSQLiteInput(row)
	return out, sqliteErr(err)
}

func (r *SQLiteInputRepo) SoftDelete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE inputs SET deleted_at = ? WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		formatSQLiteTime(time.Now()), id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSQLiteInput(row rowScanner) (dom.Input, error) {
	var (
		in                   dom.Input
		category, intent     string
		severity, source     string
		status               string
		createdAt, deletedAt sql.NullString
	)
	if err := row.Scan(&in.ID, &in.UserID, &in.Text, &category, &intent, &severity,
		&source, &status, &createdAt, &deletedAt); err != nil {
		return dom.Input{}, err
	}
	in.Category = dom.Category(category)
	in.Intent = dom.Intent(intent)
	in.Severity = dom.Severity(severity)
	in.Source = dom.Source(source)
	in.Status = dom.Status(status)
	in.CreatedAt = parseSQLiteTime(createdAt)
	in.DeletedAt = parseSQLiteTime(deletedAt)
	return in, nil
}
