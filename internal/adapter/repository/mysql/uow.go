package mysql

import (
	"context"

	"incorporation-portal/internal/domain/application"
	"incorporation-portal/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Applications: &ApplicationRepository{db: tx},
		History:      &HistoryRepository{db: tx},
	}
}

// WithinTx runs fn with repositories bound to one transaction.
func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

// WithinApplicationTx resolves ref inside the transaction. Concurrent writers
// are detected by the version check in UpdateStatus, not by row locks.
func (u *GormUoW) WithinApplicationTx(ctx context.Context, ref string, fn func(r uow.Repos, a *application.Application) error) error {
	return u.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Applications.GetByRef(ctx, ref)
		if err != nil {
			return err
		}
		return fn(r, a)
	})
}
