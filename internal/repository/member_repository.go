package repository

import (
	"context"
	"errors"

	"collabkanban/internal/model"
	"collabkanban/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRepository struct {
	db *gorm.DB
}

var _ service.MemberRepository = (*MemberRepository)(nil)

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Create добавляет участника доски; повторная пара (board_id, account_id) отклоняется индексом
func (r *MemberRepository) Create(ctx context.Context, member *model.BoardMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// Get возвращает участника доски или nil, если доступа нет
func (r *MemberRepository) Get(ctx context.Context, boardID, accountID uuid.UUID) (*model.BoardMember, error) {
	var member model.BoardMember

	err := r.db.WithContext(ctx).
		Where("board_id = ? AND account_id = ?", boardID, accountID).
		First(&member).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Пользователь не имеет доступа
	}

	if err != nil {
		return nil, err
	}

	return &member, nil
}

// GetByBoardID возвращает список участников доски
func (r *MemberRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.BoardMember, error) {
	var members []model.BoardMember

	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("created_at").
		Find(&members).Error

	return members, err
}

// Delete удаляет доступ пользователя к доске
func (r *MemberRepository) Delete(ctx context.Context, boardID, accountID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("board_id = ? AND account_id = ?", boardID, accountID).Delete(&model.BoardMember{}).Error
}
