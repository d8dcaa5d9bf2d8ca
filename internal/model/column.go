package model

import (
	"time"

	"github.com/google/uuid"
)

type Column struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BoardID    uuid.UUID `gorm:"type:uuid;not null;index" json:"board_id"`
	Name       string    `gorm:"not null" json:"name"`
	Color      string    `gorm:"not null;default:''" json:"color"`
	Order      float64   `gorm:"column:position;not null" json:"order"`
	IsDefault  bool      `gorm:"not null;default:false" json:"is_default"`
	IsExpanded bool      `gorm:"not null;default:true" json:"is_expanded"`
	Shortcut   *string   `gorm:"size:4" json:"shortcut,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (c Column) Position() float64 { return c.Order }

func (c Column) TieBreak() string { return tieBreak(c.CreatedAt, c.ID) }
