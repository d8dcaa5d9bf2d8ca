package repository

import (
	"context"
	"errors"

	"collabkanban/internal/model"
	"collabkanban/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationRepository struct {
	db *gorm.DB
}

var _ service.InvitationRepository = (*InvitationRepository)(nil)

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(ctx context.Context, inv *model.BoardInvitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvitationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BoardInvitation, error) {
	var inv model.BoardInvitation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetByEmail returns every invitation sent to email regardless of status or age.
func (r *InvitationRepository) GetByEmail(ctx context.Context, email string) ([]model.BoardInvitation, error) {
	var invs []model.BoardInvitation
	err := r.db.WithContext(ctx).Where("email = ?", email).Order("created_at, id").Find(&invs).Error
	return invs, err
}

func (r *InvitationRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.BoardInvitation, error) {
	var invs []model.BoardInvitation
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("created_at, id").Find(&invs).Error
	return invs, err
}

func (r *InvitationRepository) Update(ctx context.Context, inv *model.BoardInvitation) error {
	return r.db.WithContext(ctx).Save(inv).Error
}
