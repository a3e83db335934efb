package usermock

import (
	"context"

	domain "incorporation-portal/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn     func(ctx context.Context, u *domain.User) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	GetByUIDFn   func(ctx context.Context, uid string) (*domain.User, error)
	ListFn       func(ctx context.Context) ([]domain.User, error)
	CountFn      func(ctx context.Context) (int64, error)
}

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	if m.GetByUIDFn != nil {
		return m.GetByUIDFn(ctx, uid)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context) ([]domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) Count(ctx context.Context) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return 0, context.Canceled
}
