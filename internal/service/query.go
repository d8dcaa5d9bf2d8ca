package service

import (
	"context"
	"fmt"
	"time"

	"collabkanban/internal/model"
	"collabkanban/internal/ordering"
	"collabkanban/internal/permission"

	"github.com/google/uuid"
)

// ColumnView is a column with its cards in render order.
type ColumnView struct {
	model.Column
	Items []model.Item `json:"items"`
}

// BoardSnapshot is the canonical state of one board as seen by the caller.
type BoardSnapshot struct {
	Board     model.Board         `json:"board"`
	Role      string              `json:"role"`
	Columns   []ColumnView        `json:"columns"`
	Members   []model.BoardMember `json:"members"`
	Assignees []model.Assignee    `json:"assignees"`
}

// InvitationView carries the effective status, which reads as expired once
// the invitation is older than the TTL.
type InvitationView struct {
	model.BoardInvitation
	EffectiveStatus model.InvitationStatus `json:"effective_status"`
	ExpiresAt       time.Time              `json:"expires_at"`
}

func (s *Service) GetBoard(ctx context.Context, accountID, boardID uuid.UUID) (*BoardSnapshot, error) {
	var snap *BoardSnapshot
	err := s.store.WithinTx(ctx, func(repos Repositories) error {
		board, role, err := access(ctx, repos, boardID, accountID)
		if err != nil {
			return err
		}
		columns, err := repos.Columns().GetByBoardID(ctx, board.ID)
		if err != nil {
			return fmt.Errorf("get columns: %w", err)
		}
		items, err := repos.Items().GetByBoardID(ctx, board.ID)
		if err != nil {
			return fmt.Errorf("get cards: %w", err)
		}
		members, err := repos.Members().GetByBoardID(ctx, board.ID)
		if err != nil {
			return fmt.Errorf("get members: %w", err)
		}
		assignees, err := repos.Assignees().GetByBoardID(ctx, board.ID)
		if err != nil {
			return fmt.Errorf("get assignees: %w", err)
		}

		snap = &BoardSnapshot{
			Board:     *board,
			Role:      role.String(),
			Columns:   Arrange(columns, items),
			Members:   members,
			Assignees: assignees,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Arrange sorts columns and groups cards under them, both by order.
func Arrange(columns []model.Column, items []model.Item) []ColumnView {
	ordering.Sort(columns)
	ordering.Sort(items)

	byColumn := make(map[uuid.UUID][]model.Item, len(columns))
	for _, it := range items {
		byColumn[it.ColumnID] = append(byColumn[it.ColumnID], it)
	}
	views := make([]ColumnView, 0, len(columns))
	for _, c := range columns {
		cards := byColumn[c.ID]
		if cards == nil {
			cards = []model.Item{}
		}
		views = append(views, ColumnView{Column: c, Items: cards})
	}
	return views
}

func (s *Service) ListBoards(ctx context.Context, accountID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	err := s.store.WithinTx(ctx, func(repos Repositories) error {
		var err error
		boards, err = repos.Boards().ListForAccount(ctx, accountID)
		if err != nil {
			return fmt.Errorf("list boards: %w", err)
		}
		return nil
	})
	return boards, err
}

func (s *Service) ListComments(ctx context.Context, accountID, itemID uuid.UUID) ([]model.Comment, error) {
	var comments []model.Comment
	err := s.store.WithinTx(ctx, func(repos Repositories) error {
		item, err := getItem(ctx, repos, itemID)
		if err != nil {
			return err
		}
		if _, _, err := access(ctx, repos, item.BoardID, accountID); err != nil {
			return err
		}
		comments, err = repos.Comments().GetByItemID(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("get comments: %w", err)
		}
		return nil
	})
	return comments, err
}

// ListActivity returns the newest entries first. A limit outside
// (0, page size] falls back to the page size.
func (s *Service) ListActivity(ctx context.Context, accountID, boardID uuid.UUID, limit int) ([]model.Activity, error) {
	if limit <= 0 || limit > s.activityPageSize {
		limit = s.activityPageSize
	}
	var feed []model.Activity
	err := s.store.WithinTx(ctx, func(repos Repositories) error {
		if _, _, err := access(ctx, repos, boardID, accountID); err != nil {
			return err
		}
		var err error
		feed, err = repos.Activities().GetByBoardID(ctx, boardID, limit)
		if err != nil {
			return fmt.Errorf("get activity: %w", err)
		}
		return nil
	})
	return feed, err
}

// PendingInvitations lists invitations the caller can still act on.
func (s *Service) PendingInvitations(ctx context.Context, accountID uuid.UUID) ([]InvitationView, error) {
	var views []InvitationView
	err := s.store.WithinTx(ctx, func(repos Repositories) error {
		account, err := getAccount(ctx, repos, accountID)
		if err != nil {
			return err
		}
		all, err := repos.Invitations().GetByEmail(ctx, account.Email)
		if err != nil {
			return fmt.Errorf("get invitations: %w", err)
		}
		now := s.clock()
		views = s.invitationViews(s.lifecycle.FilterActionable(all, now), now)
		return nil
	})
	return views, err
}

// BoardInvitations lists every invitation of the board with its effective
// status. Requires the manageMembers capability.
func (s *Service) BoardInvitations(ctx context.Context, accountID, boardID uuid.UUID) ([]InvitationView, error) {
	var views []InvitationView
	err := s.store.WithinTx(ctx, func(repos Repositories) error {
		_, role, err := access(ctx, repos, boardID, accountID)
		if err != nil {
			return err
		}
		if err := authorize(role, permission.ManageMembers); err != nil {
			return err
		}
		invs, err := repos.Invitations().GetByBoardID(ctx, boardID)
		if err != nil {
			return fmt.Errorf("get invitations: %w", err)
		}
		views = s.invitationViews(invs, s.clock())
		return nil
	})
	return views, err
}

func (s *Service) invitationViews(invs []model.BoardInvitation, now time.Time) []InvitationView {
	views := make([]InvitationView, 0, len(invs))
	for _, inv := range invs {
		views = append(views, InvitationView{
			BoardInvitation: inv,
			EffectiveStatus: s.lifecycle.EffectiveStatus(&inv, now),
			ExpiresAt:       s.lifecycle.ExpiresAt(&inv),
		})
	}
	return views
}
