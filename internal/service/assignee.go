package service

import (
	"context"
	"fmt"

	"collabkanban/internal/apperror"
	"collabkanban/internal/model"
	"collabkanban/internal/permission"

	"github.com/google/uuid"
)

// CreateVirtualAssignee adds an assignee without an account. Names are unique
// per board, ignoring case.
func (s *Service) CreateVirtualAssignee(ctx context.Context, accountID uuid.UUID, cmd CreateVirtualAssignee) (*model.Assignee, error) {
	var assignee *model.Assignee
	err := s.run(ctx, "createVirtualAssignee", accountID, &cmd, func(repos Repositories) error {
		board, role, err := access(ctx, repos, cmd.BoardID, accountID)
		if err != nil {
			return err
		}
		if err := authorize(role, permission.CreateAssignee); err != nil {
			return err
		}

		existing, err := repos.Assignees().FindByName(ctx, board.ID, cmd.Name)
		if err != nil {
			return fmt.Errorf("find assignee: %w", err)
		}
		if existing != nil {
			return apperror.Domain(apperror.CodeAssigneeNameTaken, "assignee %q already exists", existing.Name)
		}

		assignee = &model.Assignee{ID: uuid.New(), BoardID: board.ID, Name: cmd.Name}
		if err := repos.Assignees().Create(ctx, assignee); err != nil {
			return fmt.Errorf("create assignee: %w", err)
		}
		return s.record(ctx, repos, board.ID, model.ActivityAssigneeCreated, accountID, nil, "added assignee %q", assignee.Name)
	})
	if err != nil {
		return nil, err
	}
	return assignee, nil
}

// ensureAssignee links the account to an assignee on the board. A virtual
// assignee with the account's name is claimed unless it belonged to another
// account that left the board; a taken name falls back to "name (email)".
func ensureAssignee(ctx context.Context, repos Repositories, boardID uuid.UUID, account *model.Account) (*model.Assignee, error) {
	linked, err := repos.Assignees().FindByAccount(ctx, boardID, account.ID)
	if err != nil {
		return nil, fmt.Errorf("find assignee: %w", err)
	}
	if linked != nil {
		return linked, nil
	}

	accountID := account.ID
	name := account.Name
	byName, err := repos.Assignees().FindByName(ctx, boardID, name)
	if err != nil {
		return nil, fmt.Errorf("find assignee: %w", err)
	}
	if byName != nil && byName.ClaimableBy(accountID) {
		byName.AccountID = &accountID
		byName.FormerAccountID = nil
		if err := repos.Assignees().Update(ctx, byName); err != nil {
			return nil, fmt.Errorf("link assignee: %w", err)
		}
		return byName, nil
	}
	if byName != nil {
		name = fmt.Sprintf("%s (%s)", account.Name, account.Email)
	}

	assignee := &model.Assignee{ID: uuid.New(), BoardID: boardID, Name: name, AccountID: &accountID}
	if err := repos.Assignees().Create(ctx, assignee); err != nil {
		return nil, fmt.Errorf("create assignee: %w", err)
	}
	return assignee, nil
}
