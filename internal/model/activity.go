package model

import (
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityBoardCreated    ActivityType = "board_created"
	ActivityBoardUpdated    ActivityType = "board_updated"
	ActivityColumnCreated   ActivityType = "column_created"
	ActivityColumnUpdated   ActivityType = "column_updated"
	ActivityColumnMoved     ActivityType = "column_moved"
	ActivityColumnDeleted   ActivityType = "column_deleted"
	ActivityCardCreated     ActivityType = "card_created"
	ActivityCardUpdated     ActivityType = "card_updated"
	ActivityCardMoved       ActivityType = "card_moved"
	ActivityCardDeleted     ActivityType = "card_deleted"
	ActivityCardAssigned    ActivityType = "card_assigned"
	ActivityCommentCreated  ActivityType = "comment_created"
	ActivityCommentUpdated  ActivityType = "comment_updated"
	ActivityCommentDeleted  ActivityType = "comment_deleted"
	ActivityMemberInvited   ActivityType = "member_invited"
	ActivityMemberJoined    ActivityType = "member_joined"
	ActivityMemberRemoved   ActivityType = "member_removed"
	ActivityAssigneeCreated ActivityType = "assignee_created"
)

// Activity is an append-only audit row. Rows are never updated.
type Activity struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	BoardID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"board_id"`
	Type      ActivityType `gorm:"not null" json:"type"`
	ItemID    *uuid.UUID   `gorm:"type:uuid" json:"item_id,omitempty"`
	UserID    *uuid.UUID   `gorm:"type:uuid" json:"user_id,omitempty"`
	Content   string       `gorm:"not null" json:"content"`
	CreatedAt time.Time    `json:"created_at"`
}

func (Activity) TableName() string {
	return "activities"
}
