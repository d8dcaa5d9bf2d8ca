package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"collabkanban/internal/model"
	"collabkanban/internal/service"
)

type AssigneeRepository struct {
	db *gorm.DB
}

var _ service.AssigneeRepository = (*AssigneeRepository)(nil)

func NewAssigneeRepository(db *gorm.DB) *AssigneeRepository {
	return &AssigneeRepository{db: db}
}

// Create adds a new assignee to the database
func (r *AssigneeRepository) Create(ctx context.Context, assignee *model.Assignee) error {
	return r.db.WithContext(ctx).Create(assignee).Error
}

// GetByID retrieves an assignee by its ID
func (r *AssigneeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Assignee, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// GetByBoardID retrieves all assignees for a specific board
func (r *AssigneeRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Assignee, error) {
	var assignees []model.Assignee
	result := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("LOWER(name)").Find(&assignees)
	if result.Error != nil {
		return nil, result.Error
	}
	return assignees, nil
}

// FindByName matches the name case-insensitively within a board
func (r *AssigneeRepository) FindByName(ctx context.Context, boardID uuid.UUID, name string) (*model.Assignee, error) {
	return r.first(r.db.WithContext(ctx).Where("board_id = ? AND LOWER(name) = LOWER(?)", boardID, name))
}

// FindByAccount returns the assignee linked to an account on a board
func (r *AssigneeRepository) FindByAccount(ctx context.Context, boardID, accountID uuid.UUID) (*model.Assignee, error) {
	return r.first(r.db.WithContext(ctx).Where("board_id = ? AND account_id = ?", boardID, accountID))
}

// Update updates an existing assignee
func (r *AssigneeRepository) Update(ctx context.Context, assignee *model.Assignee) error {
	return r.db.WithContext(ctx).Save(assignee).Error
}

func (r *AssigneeRepository) first(query *gorm.DB) (*model.Assignee, error) {
	var assignee model.Assignee
	result := query.First(&assignee)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &assignee, nil
}
