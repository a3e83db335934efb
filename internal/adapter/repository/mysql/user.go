package mysql

import (
	"context"

	"incorporation-portal/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	u.Email = user.NormalizeEmail(u.Email)
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var out user.User
	res := r.db.WithContext(ctx).Where("email = ?", user.NormalizeEmail(email)).First(&out)
	return &out, res.Error
}

func (r *UserRepository) GetByUID(ctx context.Context, uid string) (*user.User, error) {
	var out user.User
	res := r.db.WithContext(ctx).Where("uid = ?", uid).First(&out)
	return &out, res.Error
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	var out []user.User
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&user.User{}).Count(&n).Error
	return n, err
}
