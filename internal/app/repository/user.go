package repository

import (
	"context"

	"academy/internal/app/ds"
)

func (r *Repository) GetUserByID(ctx context.Context, id uint) (*ds.User, error) {
	var user ds.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*ds.User, error) {
	var user ds.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ds.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// CreateUser expects an already hashed password
func (r *Repository) CreateUser(ctx context.Context, user *ds.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}
