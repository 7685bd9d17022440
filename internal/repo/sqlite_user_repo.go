package repo

import (
	"context"
	"database/sql"
	"time"

	dom "inputdash/internal/domain"
)

// SQLiteUserRepo implements UserRepo with SQLite.
type SQLiteUserRepo struct {
	db *sql.DB
}

func NewSQLiteUserRepo(db *sql.DB) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: db}
}

func (r *SQLiteUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE LOWER(email) = LOWER(?)`, email)
	return scanSQLiteUser(row)
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE id = ?`, id)
	return scanSQLiteUser(row)
}

func (r *SQLiteUserRepo) Create(ctx context.Context, email, passwordHash string) (dom.User, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, created_at)
		VALUES (?, ?, ?)
		RETURNING id, email, password_hash, created_at`,
		email, passwordHash, formatSQLiteTime(time.Now()))
	return scanSQLiteUser(row)
}

func scanSQLiteUser(row *sql.Row) (dom.User, error) {
	var (
		u       dom.User
		created sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &created); err != nil {
		return dom.User{}, sqliteErr(err)
	}
	if t := parseSQLiteTime(created); t != nil {
		u.CreatedAt = *t
	}
	return u, nil
}
