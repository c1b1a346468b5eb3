package repository

import (
	"context"
	"errors"

	"loja/internal/domain/model"
)

// ErrDuplicateEmail はメールアドレスの一意制約違反
var ErrDuplicateEmail = errors.New("email already exists")

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Create(ctx context.Context, u model.User) (model.User, error)
}
