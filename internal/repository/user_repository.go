package repository

import (
	"context"

	"github.com/knagato/messenger-backend/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	ListExcept(ctx context.Context, email string) ([]model.User, error)
	EnsureByEmail(ctx context.Context, u *model.User) (created bool, err error)
	UpdateProfile(ctx context.Context, id uint64, name, image *string) (*model.User, error)
	SetDB(db *gorm.DB)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) ListExcept(ctx context.Context, email string) ([]model.User, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.User
	if err := r.db.WithContext(ctx).
		Where("email <> ?", email).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// EnsureByEmail creates the row on first sight of an identity; subsequent
// calls load the existing row into u.
func (r *userRepository) EnsureByEmail(ctx context.Context, u *model.User) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	res := r.db.WithContext(ctx).Where("email = ?", u.Email).FirstOrCreate(u)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uint64, name, image *string) (*model.User, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = *name
	}
	if image != nil {
		updates["image"] = *image
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}
