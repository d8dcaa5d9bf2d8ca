package service

import (
	"context"
	"fmt"

	"collabkanban/internal/apperror"
	"collabkanban/internal/invitation"
	"collabkanban/internal/model"
	"collabkanban/internal/permission"

	"github.com/google/uuid"
)

// InviteUser creates a pending invitation. Duplicate invitations to the same
// email are allowed.
func (s *Service) InviteUser(ctx context.Context, accountID uuid.UUID, cmd InviteUser) (*model.BoardInvitation, error) {
	var inv *model.BoardInvitation
	err := s.run(ctx, "inviteUser", accountID, &cmd, func(repos Repositories) error {
		board, role, err := access(ctx, repos, cmd.BoardID, accountID)
		if err != nil {
			return err
		}
		if err := authorize(role, permission.ManageMembers); err != nil {
			return err
		}

		inviteRole := cmd.Role
		if inviteRole == "" {
			inviteRole = model.RoleEditor
		}
		inv = &model.BoardInvitation{
			ID:        uuid.New(),
			BoardID:   board.ID,
			Email:     cmd.Email,
			InvitedBy: accountID,
			Role:      inviteRole,
			Status:    model.InvitationPending,
			CreatedAt: s.clock(),
		}
		if err := repos.Invitations().Create(ctx, inv); err != nil {
			return fmt.Errorf("create invitation: %w", err)
		}
		return s.record(ctx, repos, board.ID, model.ActivityMemberInvited, accountID, nil, "invited %s as %s", inv.Email, inv.Role)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// AcceptInvitation adds the caller to the board with the invited role, marks
// the invitation accepted and links a board assignee to the caller.
func (s *Service) AcceptInvitation(ctx context.Context, accountID uuid.UUID, cmd AcceptInvitation) (*model.BoardMember, error) {
	var member *model.BoardMember
	err := s.run(ctx, "acceptInvitation", accountID, &cmd, func(repos Repositories) error {
		inv, err := getInvitation(ctx, repos, cmd.InvitationID)
		if err != nil {
			return err
		}
		account, err := getAccount(ctx, repos, accountID)
		if err != nil {
			return err
		}
		if err := s.lifecycle.CheckAccept(inv, account.Email, s.clock()); err != nil {
			return err
		}

		board, err := repos.Boards().GetByID(ctx, inv.BoardID)
		if err != nil {
			return fmt.Errorf("get board: %w", err)
		}
		if board == nil {
			return apperror.NotFound("board")
		}

		member, err = repos.Members().Get(ctx, board.ID, accountID)
		if err != nil {
			return fmt.Errorf("get member: %w", err)
		}
		if member == nil && board.OwnerID != accountID {
			member = &model.BoardMember{
				ID:        uuid.New(),
				BoardID:   board.ID,
				AccountID: accountID,
				Role:      inv.Role,
				CreatedAt: s.clock(),
			}
			if err := repos.Members().Create(ctx, member); err != nil {
				return fmt.Errorf("create member: %w", err)
			}
		}

		invitation.Accept(inv)
		if err := repos.Invitations().Update(ctx, inv); err != nil {
			return fmt.Errorf("accept invitation: %w", err)
		}
		if _, err := ensureAssignee(ctx, repos, board.ID, account); err != nil {
			return err
		}
		if member == nil {
			member = &model.BoardMember{BoardID: board.ID, AccountID: accountID, Role: model.RoleOwner}
		}
		return s.record(ctx, repos, board.ID, model.ActivityMemberJoined, accountID, nil, "%s joined as %s", account.Name, member.Role)
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// DeclineInvitation is only available to the invited email. Expiry does not
// block declining.
func (s *Service) DeclineInvitation(ctx context.Context, accountID uuid.UUID, cmd DeclineInvitation) (*model.BoardInvitation, error) {
	var inv *model.BoardInvitation
	err := s.run(ctx, "declineInvitation", accountID, &cmd, func(repos Repositories) error {
		i, err := getInvitation(ctx, repos, cmd.InvitationID)
		if err != nil {
			return err
		}
		account, err := getAccount(ctx, repos, accountID)
		if err != nil {
			return err
		}
		if invitation.NormalizeEmail(i.Email) != invitation.NormalizeEmail(account.Email) {
			return apperror.NotFound("invitation")
		}
		if err := s.lifecycle.CheckDecline(i); err != nil {
			return err
		}

		inv = i
		invitation.Decline(inv)
		if err := repos.Invitations().Update(ctx, inv); err != nil {
			return fmt.Errorf("decline invitation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// RemoveMember drops a member. The owner cannot be removed. The member's
// linked assignee becomes virtual so existing assignments stay, and only the
// same account can reclaim it.
func (s *Service) RemoveMember(ctx context.Context, accountID uuid.UUID, cmd RemoveMember) error {
	return s.run(ctx, "removeBoardMember", accountID, &cmd, func(repos Repositories) error {
		board, role, err := access(ctx, repos, cmd.BoardID, accountID)
		if err != nil {
			return err
		}
		if err := authorize(role, permission.ManageMembers); err != nil {
			return err
		}
		if cmd.AccountID == board.OwnerID {
			return apperror.Domain(apperror.CodeCannotRemoveOwner, "the board owner cannot be removed")
		}

		member, err := repos.Members().Get(ctx, board.ID, cmd.AccountID)
		if err != nil {
			return fmt.Errorf("get member: %w", err)
		}
		if member == nil {
			return apperror.NotFound("member")
		}
		if err := repos.Members().Delete(ctx, board.ID, cmd.AccountID); err != nil {
			return fmt.Errorf("delete member: %w", err)
		}

		assignee, err := repos.Assignees().FindByAccount(ctx, board.ID, cmd.AccountID)
		if err != nil {
			return fmt.Errorf("find assignee: %w", err)
		}
		if assignee != nil {
			assignee.FormerAccountID = assignee.AccountID
			assignee.AccountID = nil
			if err := repos.Assignees().Update(ctx, assignee); err != nil {
				return fmt.Errorf("unlink assignee: %w", err)
			}
		}

		name := cmd.AccountID.String()
		removed, err := repos.Accounts().GetByID(ctx, cmd.AccountID)
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		if removed != nil {
			name = removed.Name
		}
		return s.record(ctx, repos, board.ID, model.ActivityMemberRemoved, accountID, nil, "removed %s (%s)", name, member.Role)
	})
}

func getInvitation(ctx context.Context, repos Repositories, id uuid.UUID) (*model.BoardInvitation, error) {
	inv, err := repos.Invitations().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	if inv == nil {
		return nil, apperror.NotFound("invitation")
	}
	return inv, nil
}

func getAccount(ctx context.Context, repos Repositories, id uuid.UUID) (*model.Account, error) {
	account, err := repos.Accounts().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		return nil, apperror.NotFound("account")
	}
	return account, nil
}
