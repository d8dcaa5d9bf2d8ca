package model

import (
	"time"

	"github.com/google/uuid"
)

// tieBreak sorts equal positions by creation time, then id.
func tieBreak(createdAt time.Time, id uuid.UUID) string {
	return createdAt.UTC().Format("20060102150405.000000000") + id.String()
}
