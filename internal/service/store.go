package service

import (
	"context"
	"time"

	"collabkanban/internal/model"

	"github.com/google/uuid"
)

// Lookups return (nil, nil) when the row does not exist.

type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
}

type BoardRepository interface {
	Create(ctx context.Context, board *model.Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error)
	Update(ctx context.Context, board *model.Board) error
	// Delete cascades to everything the board owns.
	Delete(ctx context.Context, id uuid.UUID) error
	ListForAccount(ctx context.Context, accountID uuid.UUID) ([]model.Board, error)
}

type ColumnRepository interface {
	Create(ctx context.Context, column *model.Column) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Column, error)
	GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Column, error)
	GetDefault(ctx context.Context, boardID uuid.UUID) (*model.Column, error)
	Count(ctx context.Context, boardID uuid.UUID) (int64, error)
	Update(ctx context.Context, column *model.Column) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Item, error)
	GetByColumnID(ctx context.Context, columnID uuid.UUID) ([]model.Item, error)
	// Update writes the editable fields only: column, title, content, order
	// and LastActiveAt. The assignee is left to Assign.
	Update(ctx context.Context, item *model.Item) error
	// Move writes only the column, order and LastActiveAt.
	Move(ctx context.Context, id, columnID uuid.UUID, order float64, at time.Time) error
	// Assign writes only the assignee and LastActiveAt.
	Assign(ctx context.Context, id uuid.UUID, assigneeID *uuid.UUID, at time.Time) error
	// Touch writes only LastActiveAt.
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
	// Delete removes the card and its comments.
	Delete(ctx context.Context, id uuid.UUID) error
	// ReassignColumn moves every card of from into to and touches LastActiveAt.
	ReassignColumn(ctx context.Context, from, to uuid.UUID, at time.Time) (int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	GetByItemID(ctx context.Context, itemID uuid.UUID) ([]model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type MemberRepository interface {
	Create(ctx context.Context, member *model.BoardMember) error
	Get(ctx context.Context, boardID, accountID uuid.UUID) (*model.BoardMember, error)
	GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.BoardMember, error)
	Delete(ctx context.Context, boardID, accountID uuid.UUID) error
}

type InvitationRepository interface {
	Create(ctx context.Context, inv *model.BoardInvitation) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.BoardInvitation, error)
	GetByEmail(ctx context.Context, email string) ([]model.BoardInvitation, error)
	GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.BoardInvitation, error)
	Update(ctx context.Context, inv *model.BoardInvitation) error
}

type AssigneeRepository interface {
	Create(ctx context.Context, assignee *model.Assignee) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Assignee, error)
	GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Assignee, error)
	// FindByName compares names case-insensitively.
	FindByName(ctx context.Context, boardID uuid.UUID, name string) (*model.Assignee, error)
	FindByAccount(ctx context.Context, boardID, accountID uuid.UUID) (*model.Assignee, error)
	Update(ctx context.Context, assignee *model.Assignee) error
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	// GetByBoardID returns the newest entries first.
	GetByBoardID(ctx context.Context, boardID uuid.UUID, limit int) ([]model.Activity, error)
}

// Repositories is the view of storage inside one transaction.
type Repositories interface {
	Accounts() AccountRepository
	Boards() BoardRepository
	Columns() ColumnRepository
	Items() ItemRepository
	Comments() CommentRepository
	Members() MemberRepository
	Invitations() InvitationRepository
	Assignees() AssigneeRepository
	Activities() ActivityRepository
}

// Store runs fn in one all-or-nothing transaction. Any error returned by fn
// rolls back every write fn made.
type Store interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}
