package application

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a *Application) error

	// List returns every application, newest submission first.
	List(ctx context.Context) ([]Application, error)
	ListByUser(ctx context.Context, userID string) ([]Application, error)

	// GetByRef resolves ref as an application id first, then as a document id.
	GetByRef(ctx context.Context, ref string) (*Application, error)

	// UpdateStatus writes status and updatedAt only when the stored version
	// still equals expectedVersion, bumping the version. Returns ErrStaleVersion
	// otherwise.
	UpdateStatus(ctx context.Context, documentID string, status Status, expectedVersion uint64, at time.Time) error

	Delete(ctx context.Context, documentID string) error
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}

type HistoryRepository interface {
	Create(ctx context.Context, c *StatusChange) error
	ListByDocument(ctx context.Context, documentID string) ([]StatusChange, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}
