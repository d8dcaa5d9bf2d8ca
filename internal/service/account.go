package service

import (
	"context"
	"fmt"

	"collabkanban/internal/apperror"
	"collabkanban/internal/auth"
	"collabkanban/internal/model"

	"github.com/google/uuid"
)

// Register creates an account and then accepts every pending, unexpired
// invitation sent to its email. Each acceptance commits on its own; a failed
// one is logged and does not undo the sign-up.
func (s *Service) Register(ctx context.Context, cmd Register) (*model.Account, error) {
	if err := s.check(&cmd); err != nil {
		s.observe(ctx, "register", uuid.Nil, s.now(), err)
		return nil, err
	}
	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var account *model.Account
	err = s.run(ctx, "register", uuid.Nil, nil, func(repos Repositories) error {
		existing, err := repos.Accounts().FindByEmail(ctx, cmd.Email)
		if err != nil {
			return fmt.Errorf("find account: %w", err)
		}
		if existing != nil {
			return apperror.Domain(apperror.CodeEmailTaken, "an account with this email already exists")
		}

		account = &model.Account{
			ID:             uuid.New(),
			Email:          cmd.Email,
			Name:           cmd.Name,
			HashedPassword: hash,
			CreatedAt:      s.clock(),
		}
		if err := repos.Accounts().Create(ctx, account); err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.acceptPendingInvitations(ctx, account)
	return account, nil
}

func (s *Service) acceptPendingInvitations(ctx context.Context, account *model.Account) {
	invs, err := s.PendingInvitations(ctx, account.ID)
	if err != nil {
		s.log.Errorw("list invitations after sign-up", "account_id", account.ID, "error", err)
		return
	}
	for _, inv := range invs {
		if _, err := s.AcceptInvitation(ctx, account.ID, AcceptInvitation{InvitationID: inv.ID}); err != nil {
			s.log.Warnw("auto-accept invitation", "account_id", account.ID, "invitation_id", inv.ID, "error", err)
		}
	}
}

// Login checks the password and returns the account. Unknown email and wrong
// password are indistinguishable.
func (s *Service) Login(ctx context.Context, cmd Login) (*model.Account, error) {
	var account *model.Account
	err := s.run(ctx, "login", uuid.Nil, &cmd, func(repos Repositories) error {
		a, err := repos.Accounts().FindByEmail(ctx, cmd.Email)
		if err != nil {
			return fmt.Errorf("find account: %w", err)
		}
		if a == nil || !auth.CheckPassword(a.HashedPassword, cmd.Password) {
			return apperror.Domain(apperror.CodeInvalidCredentials, "invalid credentials")
		}
		account = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Account returns the caller's own account.
func (s *Service) Account(ctx context.Context, accountID uuid.UUID) (*model.Account, error) {
	var account *model.Account
	err := s.store.WithinTx(ctx, func(repos Repositories) error {
		a, err := getAccount(ctx, repos, accountID)
		account = a
		return err
	})
	return account, err
}
