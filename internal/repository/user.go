package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"pressroom/internal/models"
)

// UserRepo resolves editors for the login endpoint. Everything past
// login (sessions, profiles) lives with the identity provider, not
// here.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (*models.Editor, error)
}

type userRepo struct{ db *pgxpool.Pool }

func NewUserRepo(db *pgxpool.Pool) UserRepo { return &userRepo{db: db} }

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.Editor, error) {
	const q = `SELECT id, email, password_hash FROM editors WHERE email = $1`
	var e models.Editor
	if err := r.db.QueryRow(ctx, q, email).Scan(&e.ID, &e.Email, &e.PasswordHash); err != nil {
		return nil, storeErr(err)
	}
	return &e, nil
}
