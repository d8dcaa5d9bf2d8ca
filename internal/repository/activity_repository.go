package repository

import (
	"context"

	"collabkanban/internal/model"
	"collabkanban/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityRepository only appends and reads; rows are never updated.
type ActivityRepository struct {
	db *gorm.DB
}

var _ service.ActivityRepository = (*ActivityRepository)(nil)

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *ActivityRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID, limit int) ([]model.Activity, error) {
	var feed []model.Activity
	query := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("created_at DESC, seq DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&feed).Error
	return feed, err
}
