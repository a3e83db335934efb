package mysql

import (
	"context"
	"errors"
	"time"

	"incorporation-portal/internal/domain/application"

	"gorm.io/gorm"
)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *application.Application) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApplicationRepository) List(ctx context.Context) ([]application.Application, error) {
	var out []application.Application
	err := r.db.WithContext(ctx).
		Order("submitted_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *ApplicationRepository) ListByUser(ctx context.Context, userID string) ([]application.Application, error) {
	var out []application.Application
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// GetByRef tries the client-facing application id first, then the document id.
// Application ids are not unique; the newest match wins.
func (r *ApplicationRepository) GetByRef(ctx context.Context, ref string) (*application.Application, error) {
	var out application.Application
	err := r.db.WithContext(ctx).
		Where("application_id = ?", ref).
		Order("submitted_at DESC, id DESC").
		First(&out).Error
	if err == nil {
		return &out, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	out = application.Application{}
	if err := r.db.WithContext(ctx).Where("document_id = ?", ref).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, documentID string, status application.Status, expectedVersion uint64, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&application.Application{}).
		Where("document_id = ? AND version = ?", documentID, expectedVersion).
		Updates(map[string]any{
			"status":     status,
			"updated_at": at,
			"version":    gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return application.ErrStaleVersion
	}
	return nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, documentID string) error {
	res := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Delete(&application.Application{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[application.Status]int64, error) {
	var rows []struct {
		Status application.Status
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&application.Application{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[application.Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

type HistoryRepository struct{ db *gorm.DB }

func NewHistoryRepository(db *gorm.DB) *HistoryRepository { return &HistoryRepository{db: db} }

func (r *HistoryRepository) Create(ctx context.Context, c *application.StatusChange) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *HistoryRepository) ListByDocument(ctx context.Context, documentID string) ([]application.StatusChange, error) {
	var out []application.StatusChange
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("changed_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *HistoryRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	return r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Delete(&application.StatusChange{}).Error
}
