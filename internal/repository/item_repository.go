package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"collabkanban/internal/model"
	"collabkanban/internal/service"
)

type ItemRepository struct {
	db *gorm.DB
}

var _ service.ItemRepository = (*ItemRepository)(nil)

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create adds a new card to the database
func (r *ItemRepository) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// GetByID retrieves a card by its ID
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	result := r.db.WithContext(ctx).First(&item, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &item, nil
}

// GetByBoardID retrieves every card on a board
func (r *ItemRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Item, error) {
	var items []model.Item
	result := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("position, created_at, id").Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

// GetByColumnID retrieves all cards in a specific column
func (r *ItemRepository) GetByColumnID(ctx context.Context, columnID uuid.UUID) ([]model.Item, error) {
	var items []model.Item
	result := r.db.WithContext(ctx).Where("column_id = ?", columnID).Order("position, created_at, id").Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

// Update writes the editable fields of a card. Assignee and creator are not touched.
func (r *ItemRepository) Update(ctx context.Context, item *model.Item) error {
	return affected(r.db.WithContext(ctx).Model(item).
		Select("column_id", "title", "content", "position", "last_active_at").
		Updates(item))
}

// Move changes a card's column and position
func (r *ItemRepository) Move(ctx context.Context, id, columnID uuid.UUID, order float64, at time.Time) error {
	return affected(r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ?", id).
		Updates(map[string]any{"column_id": columnID, "position": order, "last_active_at": at}))
}

// Assign sets or clears the card's assignee
func (r *ItemRepository) Assign(ctx context.Context, id uuid.UUID, assigneeID *uuid.UUID, at time.Time) error {
	var assignee any
	if assigneeID != nil {
		assignee = *assigneeID
	}
	return affected(r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ?", id).
		Select("assignee_id", "last_active_at").
		Updates(map[string]any{"assignee_id": assignee, "last_active_at": at}))
}

// Touch marks the card as active without rewriting any other column
func (r *ItemRepository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	return affected(r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ?", id).
		Update("last_active_at", at))
}

// Delete removes a card; comments cascade and activity rows keep a NULL item_id
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Item{}, "id = ?", id))
}

// ReassignColumn moves every card of a column into another one
func (r *ItemRepository) ReassignColumn(ctx context.Context, from, to uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("column_id = ?", from).
		Updates(map[string]any{"column_id": to, "last_active_at": at})
	return result.RowsAffected, result.Error
}

func affected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRowNotFound
	}
	return nil
}
