package model

import (
	"time"

	"github.com/google/uuid"
)

// BoardMember связывает аккаунт с доской. Пара (BoardID, AccountID) уникальна.
type BoardMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_board_member" json:"board_id"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_board_member" json:"account_id"`
	Role      string    `gorm:"not null;check:role IN ('owner', 'editor', 'admin')" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Роли участников доски
const (
	RoleOwner  = "owner"  // создатель доски
	RoleAdmin  = "admin"  // может управлять участниками
	RoleEditor = "editor" // может работать с карточками
)
