package repository

import (
	"context"

	"collabkanban/internal/service"

	"gorm.io/gorm"
)

// Store runs every intent inside one database transaction.
type Store struct {
	db *gorm.DB
}

var _ service.Store = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) WithinTx(ctx context.Context, fn func(repos service.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repositories{db: tx})
	})
}

type repositories struct {
	db *gorm.DB
}

func (r *repositories) Accounts() service.AccountRepository       { return NewAccountRepository(r.db) }
func (r *repositories) Boards() service.BoardRepository           { return NewBoardRepository(r.db) }
func (r *repositories) Columns() service.ColumnRepository         { return NewColumnRepository(r.db) }
func (r *repositories) Items() service.ItemRepository             { return NewItemRepository(r.db) }
func (r *repositories) Comments() service.CommentRepository       { return NewCommentRepository(r.db) }
func (r *repositories) Members() service.MemberRepository         { return NewMemberRepository(r.db) }
func (r *repositories) Invitations() service.InvitationRepository { return NewInvitationRepository(r.db) }
func (r *repositories) Assignees() service.AssigneeRepository     { return NewAssigneeRepository(r.db) }
func (r *repositories) Activities() service.ActivityRepository    { return NewActivityRepository(r.db) }
