package uow

import (
	"context"

	"incorporation-portal/internal/domain/application"
)

// Repos are bound to one transaction.
type Repos struct {
	Applications application.Repository
	History      application.HistoryRepository
}

type UnitOfWork interface {
	// resolve the application by ref inside the tx, then pass it in
	WithinApplicationTx(ctx context.Context, ref string, fn func(r Repos, a *application.Application) error) error
}
