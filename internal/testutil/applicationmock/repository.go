package applicationmock

import (
	"context"
	"time"

	domain "incorporation-portal/internal/domain/application"
)

var (
	_ domain.Repository        = (*Repo)(nil)
	_ domain.HistoryRepository = (*HistoryRepo)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset read methods return context.Canceled; unset writes succeed.
type Repo struct {
	CreateFn        func(ctx context.Context, a *domain.Application) error
	ListFn          func(ctx context.Context) ([]domain.Application, error)
	ListByUserFn    func(ctx context.Context, userID string) ([]domain.Application, error)
	GetByRefFn      func(ctx context.Context, ref string) (*domain.Application, error)
	UpdateStatusFn  func(ctx context.Context, documentID string, status domain.Status, expectedVersion uint64, at time.Time) error
	DeleteFn        func(ctx context.Context, documentID string) error
	CountByStatusFn func(ctx context.Context) (map[domain.Status]int64, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) List(ctx context.Context) ([]domain.Application, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByUser(ctx context.Context, userID string) ([]domain.Application, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByRef(ctx context.Context, ref string) (*domain.Application, error) {
	if m.GetByRefFn != nil {
		return m.GetByRefFn(ctx, ref)
	}
	return nil, context.Canceled
}

func (m *Repo) UpdateStatus(ctx context.Context, documentID string, status domain.Status, expectedVersion uint64, at time.Time) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, documentID, status, expectedVersion, at)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, documentID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, documentID)
	}
	return nil
}

func (m *Repo) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx)
	}
	return nil, context.Canceled
}

// HistoryRepo is a function-backed mock that satisfies domain.HistoryRepository.
type HistoryRepo struct {
	CreateFn           func(ctx context.Context, c *domain.StatusChange) error
	ListByDocumentFn   func(ctx context.Context, documentID string) ([]domain.StatusChange, error)
	DeleteByDocumentFn func(ctx context.Context, documentID string) error
}

func (m *HistoryRepo) Create(ctx context.Context, c *domain.StatusChange) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *HistoryRepo) ListByDocument(ctx context.Context, documentID string) ([]domain.StatusChange, error) {
	if m.ListByDocumentFn != nil {
		return m.ListByDocumentFn(ctx, documentID)
	}
	return nil, context.Canceled
}

func (m *HistoryRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	if m.DeleteByDocumentFn != nil {
		return m.DeleteByDocumentFn(ctx, documentID)
	}
	return nil
}
