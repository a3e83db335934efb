package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUID(ctx context.Context, uid string) (*User, error)
	// List returns users newest first.
	List(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int64, error)
}
