package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/user-activity-api/internal/models"
)

// ErrAlreadyDeleted indicates a soft delete targeting a row whose deletion
// flag is already set.
var ErrAlreadyDeleted = errors.New("activity already deleted")

// UserActivityRepository persists user activity rows.
type UserActivityRepository interface {
	Create(ctx context.Context, activity *models.UserActivity) error
	FindByID(ctx context.Context, id uint) (models.UserActivity, error)
	ExistsActiveByID(ctx context.Context, id uint) (bool, error)
	ListActiveByUser(ctx context.Context, userID uint, page, pageSize int) ([]models.UserActivity, int64, error)
	SoftDelete(ctx context.Context, id uint) error
}

type userActivityRepository struct {
	db *gorm.DB
}

// NewUserActivityRepository constructs the user activity repository.
func NewUserActivityRepository(db *gorm.DB) UserActivityRepository {
	return &userActivityRepository{db: db}
}

func (r *userActivityRepository) Create(ctx context.Context, activity *models.UserActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// FindByID returns the row regardless of its deletion flag.
func (r *userActivityRepository) FindByID(ctx context.Context, id uint) (models.UserActivity, error) {
	var activity models.UserActivity
	if err := r.db.WithContext(ctx).First(&activity, id).Error; err != nil {
		return models.UserActivity{}, err
	}
	return activity, nil
}

func (r *userActivityRepository) ExistsActiveByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserActivity{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListActiveByUser returns the page window of non-deleted activities for a
// user, newest first, plus the total count of all matching rows. Ties on
// created_at fall back to id so the ordering stays stable across pages.
func (r *userActivityRepository) ListActiveByUser(ctx context.Context, userID uint, page, pageSize int) ([]models.UserActivity, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.UserActivity{}).
		Where("user_id = ? AND is_deleted = ?", userID, false)

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if pageSize > 0 {
		if page < 0 {
			page = 0
		}
		query = query.Offset(page * pageSize).Limit(pageSize)
	}

	var activities []models.UserActivity
	if err := query.Order("created_at DESC, id DESC").Find(&activities).Error; err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}

// SoftDelete flips the deletion flag inside a single transaction so the
// existence check and the flag flip are atomic with respect to concurrent
// deleters of the same row. Returns gorm.ErrRecordNotFound when the row is
// absent and ErrAlreadyDeleted when the flag was already set.
func (r *userActivityRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var activity models.UserActivity
		if err := tx.First(&activity, id).Error; err != nil {
			return err
		}

		if activity.IsDeleted {
			return ErrAlreadyDeleted
		}

		return tx.Model(&activity).Update("is_deleted", true).Error
	})
}
