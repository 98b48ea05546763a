package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"pressroom/internal/apperrors"
	"pressroom/internal/models"
)

// AdminRepo backs the admin registry: a row in admin_users exists for
// an email if and only if that identity holds admin privilege.
type AdminRepo interface {
	Exists(ctx context.Context, email string) (bool, error)
	Upsert(ctx context.Context, userID, email string) error
	Remove(ctx context.Context, email string) error
	List(ctx context.Context) ([]*models.AdminUser, error)
}

type adminRepo struct{ db *pgxpool.Pool }

func NewAdminRepo(db *pgxpool.Pool) AdminRepo { return &adminRepo{db: db} }

func (r *adminRepo) Exists(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM admin_users WHERE email = $1)`
	var ok bool
	if err := r.db.QueryRow(ctx, q, email).Scan(&ok); err != nil {
		return false, registryErr(err)
	}
	return ok, nil
}

func (r *adminRepo) Upsert(ctx context.Context, userID, email string) error {
	const q = `
		INSERT INTO admin_users (user_id, email)
		VALUES ($1, $2)
		ON CONFLICT (email) DO NOTHING
	`
	_, err := r.db.Exec(ctx, q, userID, email)
	return registryErr(err)
}

func (r *adminRepo) Remove(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM admin_users WHERE email = $1`, email)
	return registryErr(err)
}

func (r *adminRepo) List(ctx context.Context) ([]*models.AdminUser, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id, email FROM admin_users ORDER BY email`)
	if err != nil {
		return nil, registryErr(err)
	}
	defer rows.Close()

	var list []*models.AdminUser
	for rows.Next() {
		var a models.AdminUser
		if err := rows.Scan(&a.UserID, &a.Email); err != nil {
			return nil, registryErr(err)
		}
		list = append(list, &a)
	}
	return list, registryErr(rows.Err())
}

func registryErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", apperrors.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", apperrors.ErrRegistry, err)
}
