package model

import (
	"time"

	"github.com/google/uuid"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
	// InvitationExpired is never stored; it is derived from CreatedAt.
	InvitationExpired InvitationStatus = "expired"
)

type BoardInvitation struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	BoardID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"board_id"`
	Email     string           `gorm:"not null;index" json:"email"`
	InvitedBy uuid.UUID        `gorm:"type:uuid;not null" json:"invited_by"`
	Role      string           `gorm:"not null" json:"role"`
	Status    InvitationStatus `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}
