package model

import (
	"time"

	"github.com/google/uuid"
)

// Item is a card on a board. ColumnID always references a column of BoardID.
type Item struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BoardID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"board_id"`
	ColumnID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"column_id"`
	Title        string     `gorm:"not null" json:"title"`
	Content      *string    `json:"content"`
	Order        float64    `gorm:"column:position;not null" json:"order"`
	CreatedBy    *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	AssigneeID   *uuid.UUID `gorm:"type:uuid" json:"assignee_id"`
	LastActiveAt time.Time  `gorm:"not null" json:"last_active_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (i Item) Position() float64 { return i.Order }

func (i Item) TieBreak() string { return tieBreak(i.CreatedAt, i.ID) }
