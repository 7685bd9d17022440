package repo

import (
	"context"
	"errors"
	"fmt"

	dom "inputdash/internal/domain"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// UserRepo provides user persistence.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	GetByID(ctx context.Context, id int64) (dom.User, error)
	Create(ctx context.Context, email, passwordHash string) (dom.User, error)
}

// InputRepo provides input persistence. Every read and write is scoped to the
// owning user and skips soft-deleted rows.
type InputRepo interface {
	Create(ctx context.Context, in dom.Input) (dom.Input, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Input, error)
	List(ctx context.Context, userID int64, order dom.ListOrder) ([]dom.Input, error)
	Update(ctx context.Context, in dom.Input) (dom.Input, error)
	SoftDelete(ctx context.Context, userID, id int64) error
}

func orderClause(order dom.ListOrder) (string, error) {
	switch order {
	case dom.OrderDashboard, "":
		return `ORDER BY CASE WHEN severity = 'high' THEN 0 ELSE 1 END,
			CASE WHEN status = 'done' THEN 1 ELSE 0 END,
			created_at DESC, id DESC`, nil
	case dom.OrderCategory:
		return `ORDER BY category ASC, created_at DESC, id DESC`, nil
	case dom.OrderCreatedAt:
		return `ORDER BY created_at DESC, id DESC`, nil
	}
	return "", fmt.Errorf("unsupported order %q", order)
}

const inputColumns = `id, user_id, text, category, intent, severity, source, status, created_at, deleted_at`
