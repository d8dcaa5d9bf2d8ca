package model

import (
	"github.com/google/uuid"
)

// Assignee is a person cards can be assigned to. Virtual assignees have no AccountID.
// FormerAccountID is set when a member leaves and their assignee turns virtual.
type Assignee struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BoardID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"board_id"`
	Name            string     `gorm:"not null" json:"name"`
	AccountID       *uuid.UUID `gorm:"type:uuid" json:"account_id"`
	FormerAccountID *uuid.UUID `gorm:"type:uuid" json:"former_account_id,omitempty"`
}

func (a Assignee) IsVirtual() bool {
	return a.AccountID == nil
}

// ClaimableBy reports whether accountID may take over this assignee by name:
// it is virtual and was never held by a different account.
func (a Assignee) ClaimableBy(accountID uuid.UUID) bool {
	return a.IsVirtual() && (a.FormerAccountID == nil || *a.FormerAccountID == accountID)
}
