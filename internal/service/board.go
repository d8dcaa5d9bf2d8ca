package service

import (
	"context"
	"fmt"

	"collabkanban/internal/apperror"
	"collabkanban/internal/model"
	"collabkanban/internal/permission"

	"github.com/google/uuid"
)

// CreateBoard creates the board with its owner membership, the default
// column and an assignee linked to the owner.
func (s *Service) CreateBoard(ctx context.Context, accountID uuid.UUID, cmd CreateBoard) (*model.Board, error) {
	var board *model.Board
	err := s.run(ctx, "createBoard", accountID, &cmd, func(repos Repositories) error {
		account, err := repos.Accounts().GetByID(ctx, accountID)
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		if account == nil {
			return apperror.NotFound("account")
		}

		now := s.clock()
		board = &model.Board{
			ID:        uuid.New(),
			Name:      cmd.Name,
			Color:     cmd.Color,
			OwnerID:   accountID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repos.Boards().Create(ctx, board); err != nil {
			return fmt.Errorf("create board: %w", err)
		}

		owner := &model.BoardMember{
			ID:        uuid.New(),
			BoardID:   board.ID,
			AccountID: accountID,
			Role:      model.RoleOwner,
			CreatedAt: now,
		}
		if err := repos.Members().Create(ctx, owner); err != nil {
			return fmt.Errorf("create owner member: %w", err)
		}

		column := &model.Column{
			ID:         uuid.New(),
			BoardID:    board.ID,
			Name:       s.defaultColumnName,
			Order:      1,
			IsDefault:  true,
			IsExpanded: true,
			CreatedAt:  now,
		}
		if err := repos.Columns().Create(ctx, column); err != nil {
			return fmt.Errorf("create default column: %w", err)
		}

		if _, err := ensureAssignee(ctx, repos, board.ID, account); err != nil {
			return err
		}

		return s.record(ctx, repos, board.ID, model.ActivityBoardCreated, accountID, nil, "created board %q", board.Name)
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

func (s *Service) UpdateBoard(ctx context.Context, accountID uuid.UUID, cmd UpdateBoard) (*model.Board, error) {
	var board *model.Board
	err := s.run(ctx, "updateBoard", accountID, &cmd, func(repos Repositories) error {
		b, role, err := access(ctx, repos, cmd.BoardID, accountID)
		if err != nil {
			return err
		}
		if err := authorize(role, permission.UpdateBoard); err != nil {
			return err
		}
		board = b

		changed := false
		if cmd.Name != nil && *cmd.Name != board.Name {
			board.Name = *cmd.Name
			changed = true
		}
		if cmd.Color != nil && *cmd.Color != board.Color {
			board.Color = *cmd.Color
			changed = true
		}
		if !changed {
			return nil
		}

		board.UpdatedAt = s.clock()
		if err := repos.Boards().Update(ctx, board); err != nil {
			return fmt.Errorf("update board: %w", err)
		}
		return s.record(ctx, repos, board.ID, model.ActivityBoardUpdated, accountID, nil, "updated board %q", board.Name)
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

// DeleteBoard removes the board and everything it owns. No activity survives it.
func (s *Service) DeleteBoard(ctx context.Context, accountID, boardID uuid.UUID) error {
	return s.run(ctx, "deleteBoard", accountID, nil, func(repos Repositories) error {
		_, role, err := access(ctx, repos, boardID, accountID)
		if err != nil {
			return err
		}
		if err := authorize(role, permission.DeleteBoard); err != nil {
			return err
		}
		if err := repos.Boards().Delete(ctx, boardID); err != nil {
			return fmt.Errorf("delete board: %w", err)
		}
		return nil
	})
}
