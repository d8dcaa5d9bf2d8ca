package service

import (
	"context"
	"fmt"
	"time"

	"collabkanban/internal/apperror"
	"collabkanban/internal/model"
	"collabkanban/internal/permission"

	"github.com/google/uuid"
)

func (s *Service) CreateComment(ctx context.Context, accountID uuid.UUID, cmd CreateComment) (*model.Comment, error) {
	var comment *model.Comment
	err := s.run(ctx, "createComment", accountID, &cmd, func(repos Repositories) error {
		item, err := getItem(ctx, repos, cmd.ItemID)
		if err != nil {
			return err
		}
		_, role, err := access(ctx, repos, item.BoardID, accountID)
		if err != nil {
			return err
		}
		if err := authorize(role, permission.Comment); err != nil {
			return err
		}

		now := s.clock()
		comment = &model.Comment{
			ID:        uuid.New(),
			ItemID:    item.ID,
			Content:   cmd.Content,
			CreatedBy: accountID,
			CreatedAt: now,
		}
		if err := repos.Comments().Create(ctx, comment); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		if err := touchItem(ctx, repos, item, now); err != nil {
			return err
		}
		return s.record(ctx, repos, item.BoardID, model.ActivityCommentCreated, accountID, &item.ID, "commented on %q", item.Title)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Service) UpdateComment(ctx context.Context, accountID uuid.UUID, cmd UpdateComment) (*model.Comment, error) {
	var comment *model.Comment
	err := s.run(ctx, "updateComment", accountID, &cmd, func(repos Repositories) error {
		c, item, err := s.editableComment(ctx, repos, accountID, cmd.CommentID)
		if err != nil {
			return err
		}

		now := s.clock()
		comment = c
		comment.Content = cmd.Content
		if err := repos.Comments().Update(ctx, comment); err != nil {
			return fmt.Errorf("update comment: %w", err)
		}
		if err := touchItem(ctx, repos, item, now); err != nil {
			return err
		}
		return s.record(ctx, repos, item.BoardID, model.ActivityCommentUpdated, accountID, &item.ID, "edited a comment on %q", item.Title)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Service) DeleteComment(ctx context.Context, accountID uuid.UUID, cmd DeleteComment) error {
	return s.run(ctx, "deleteComment", accountID, &cmd, func(repos Repositories) error {
		comment, item, err := s.editableComment(ctx, repos, accountID, cmd.CommentID)
		if err != nil {
			return err
		}

		if err := repos.Comments().Delete(ctx, comment.ID); err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		if err := touchItem(ctx, repos, item, s.clock()); err != nil {
			return err
		}
		return s.record(ctx, repos, item.BoardID, model.ActivityCommentDeleted, accountID, &item.ID, "deleted a comment on %q", item.Title)
	})
}

// editableComment resolves the comment and its card, checks board access and
// then the author and edit window rules.
func (s *Service) editableComment(ctx context.Context, repos Repositories, accountID, commentID uuid.UUID) (*model.Comment, *model.Item, error) {
	comment, err := repos.Comments().GetByID(ctx, commentID)
	if err != nil {
		return nil, nil, fmt.Errorf("get comment: %w", err)
	}
	if comment == nil {
		return nil, nil, apperror.NotFound("comment")
	}
	item, err := getItem(ctx, repos, comment.ItemID)
	if err != nil {
		return nil, nil, err
	}
	_, role, err := access(ctx, repos, item.BoardID, accountID)
	if err != nil {
		return nil, nil, err
	}
	if err := authorize(role, permission.Comment); err != nil {
		return nil, nil, err
	}
	if err := CheckCommentEditable(comment, accountID, s.clock(), s.commentWindow); err != nil {
		return nil, nil, err
	}
	return comment, item, nil
}

// CheckCommentEditable allows the author to edit within window of creation.
// A comment exactly window old is still editable.
func CheckCommentEditable(comment *model.Comment, accountID uuid.UUID, now time.Time, window time.Duration) error {
	if comment.CreatedBy != accountID {
		return apperror.Domain(apperror.CodeCommentNotAuthor, "only the author can change this comment")
	}
	if now.Sub(comment.CreatedAt) > window {
		return apperror.Domain(apperror.CodeCommentEditWindowClosed, "comments can only be changed within %s", window)
	}
	return nil
}

func touchItem(ctx context.Context, repos Repositories, item *model.Item, at time.Time) error {
	item.LastActiveAt = at
	if err := repos.Items().Touch(ctx, item.ID, at); err != nil {
		return fmt.Errorf("touch card: %w", err)
	}
	return nil
}
