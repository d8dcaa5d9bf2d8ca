package service

import (
	"context"
	"fmt"

	"collabkanban/internal/apperror"
	"collabkanban/internal/model"
	"collabkanban/internal/ordering"
	"collabkanban/internal/permission"

	"github.com/google/uuid"
)

// UpsertItem creates a card when cmd.ID is nil. Otherwise the card must exist
// on a board the caller can see; a card_updated entry is written only when
// the title or content actually changed.
func (s *Service) UpsertItem(ctx context.Context, accountID uuid.UUID, cmd UpsertItem) (*model.Item, error) {
	intent := "createItem"
	if cmd.ID != nil {
		intent = "updateItem"
	}

	var item *model.Item
	err := s.run(ctx, intent, accountID, &cmd, func(repos Repositories) error {
		column, err := getColumn(ctx, repos, cmd.ColumnID)
		if err != nil {
			return err
		}
		if cmd.ID == nil {
			item, err = s.createItem(ctx, repos, accountID, column, cmd)
			return err
		}
		item, err = s.updateItem(ctx, repos, accountID, column, cmd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) createItem(ctx context.Context, repos Repositories, accountID uuid.UUID, column *model.Column, cmd UpsertItem) (*model.Item, error) {
	_, role, err := access(ctx, repos, column.BoardID, accountID)
	if err != nil {
		return nil, err
	}
	if err := authorize(role, permission.CreateItem); err != nil {
		return nil, err
	}

	order := cmd.Order
	if order == nil {
		appended, err := appendOrder(ctx, repos, column.ID)
		if err != nil {
			return nil, err
		}
		order = &appended
	}

	now := s.clock()
	creator := accountID
	item := &model.Item{
		ID:           uuid.New(),
		BoardID:      column.BoardID,
		ColumnID:     column.ID,
		Title:        cmd.Title,
		Content:      cmd.Content,
		Order:        *order,
		CreatedBy:    &creator,
		LastActiveAt: now,
		CreatedAt:    now,
	}
	if err := repos.Items().Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}
	if err := s.record(ctx, repos, item.BoardID, model.ActivityCardCreated, accountID, &item.ID, "created card %q in %q", item.Title, column.Name); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) updateItem(ctx context.Context, repos Repositories, accountID uuid.UUID, column *model.Column, cmd UpsertItem) (*model.Item, error) {
	item, err := getItem(ctx, repos, *cmd.ID)
	if err != nil {
		return nil, err
	}
	_, role, err := access(ctx, repos, item.BoardID, accountID)
	if err != nil {
		return nil, err
	}
	if err := authorize(role, permission.UpdateItem); err != nil {
		return nil, err
	}
	if column.BoardID != item.BoardID {
		return nil, apperror.NotFound("column")
	}

	textChanged := item.Title != cmd.Title || !sameString(item.Content, cmd.Content)
	columnChanged := item.ColumnID != column.ID
	orderChanged := cmd.Order != nil && *cmd.Order != item.Order
	if !textChanged && !columnChanged && !orderChanged {
		return item, nil
	}

	item.Title = cmd.Title
	item.Content = cmd.Content
	item.ColumnID = column.ID
	if cmd.Order != nil {
		item.Order = *cmd.Order
	} else if columnChanged {
		appended, err := appendOrder(ctx, repos, column.ID)
		if err != nil {
			return nil, err
		}
		item.Order = appended
	}
	item.LastActiveAt = s.clock()

	if err := repos.Items().Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update card: %w", err)
	}
	if textChanged {
		if err := s.record(ctx, repos, item.BoardID, model.ActivityCardUpdated, accountID, &item.ID, "updated card %q", item.Title); err != nil {
			return nil, err
		}
	}
	if columnChanged {
		if err := s.record(ctx, repos, item.BoardID, model.ActivityCardMoved, accountID, &item.ID, "moved card %q to %q", item.Title, column.Name); err != nil {
			return nil, err
		}
	}
	return item, nil
}

// MoveItem changes a card's column and order. Reordering inside the same
// column is not logged.
func (s *Service) MoveItem(ctx context.Context, accountID uuid.UUID, cmd MoveItem) (*model.Item, error) {
	var item *model.Item
	err := s.run(ctx, "moveItem", accountID, &cmd, func(repos Repositories) error {
		it, err := getItem(ctx, repos, cmd.ID)
		if err != nil {
			return err
		}
		_, role, err := access(ctx, repos, it.BoardID, accountID)
		if err != nil {
			return err
		}
		if err := authorize(role, permission.MoveItem); err != nil {
			return err
		}

		target, err := getColumn(ctx, repos, cmd.ColumnID)
		if err != nil {
			return err
		}
		if target.BoardID != it.BoardID {
			return apperror.NotFound("column")
		}

		order := cmd.Order
		if order == nil {
			prev, next, err := itemNeighbours(ctx, repos, target.ID, cmd.AfterID, cmd.BeforeID)
			if err != nil {
				return err
			}
			computed := ordering.ComputeOrder(prev, next)
			if ordering.Collapsed(prev, next, computed) {
				s.log.Warnw("card order collapsed", "item_id", it.ID, "order", computed)
			}
			order = &computed
		}

		item = it
		fromColumn := item.ColumnID
		item.ColumnID = target.ID
		item.Order = *order
		item.LastActiveAt = s.clock()
		if err := repos.Items().Move(ctx, item.ID, item.ColumnID, item.Order, item.LastActiveAt); err != nil {
			return fmt.Errorf("move card: %w", err)
		}

		if fromColumn == target.ID {
			return nil
		}
		return s.record(ctx, repos, item.BoardID, model.ActivityCardMoved, accountID, &item.ID, "moved card %q to %q", item.Title, target.Name)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem lets owners and admins delete any card and editors their own.
func (s *Service) DeleteItem(ctx context.Context, accountID uuid.UUID, cmd DeleteItem) error {
	return s.run(ctx, "deleteCard", accountID, &cmd, func(repos Repositories) error {
		item, err := getItem(ctx, repos, cmd.ItemID)
		if err != nil {
			return err
		}
		_, role, err := access(ctx, repos, item.BoardID, accountID)
		if err != nil {
			return err
		}
		if !permission.CanDeleteCard(role, accountID, item) {
			return apperror.Forbidden("role %s may only delete cards it created", role)
		}

		if err := repos.Items().Delete(ctx, item.ID); err != nil {
			return fmt.Errorf("delete card: %w", err)
		}
		return s.record(ctx, repos, item.BoardID, model.ActivityCardDeleted, accountID, nil, "deleted card %q", item.Title)
	})
}

// UpdateItemAssignee assigns a board assignee to the card, or clears it.
func (s *Service) UpdateItemAssignee(ctx context.Context, accountID uuid.UUID, cmd UpdateItemAssignee) (*model.Item, error) {
	var item *model.Item
	err := s.run(ctx, "updateItemAssignee", accountID, &cmd, func(repos Repositories) error {
		it, err := getItem(ctx, repos, cmd.ItemID)
		if err != nil {
			return err
		}
		_, role, err := access(ctx, repos, it.BoardID, accountID)
		if err != nil {
			return err
		}
		if err := authorize(role, permission.AssignItem); err != nil {
			return err
		}

		var assignee *model.Assignee
		if cmd.AssigneeID != nil {
			assignee, err = repos.Assignees().GetByID(ctx, *cmd.AssigneeID)
			if err != nil {
				return fmt.Errorf("get assignee: %w", err)
			}
			if assignee == nil {
				return apperror.NotFound("assignee")
			}
			if assignee.BoardID != it.BoardID {
				return apperror.Domain(apperror.CodeAssigneeBoardMismatch, "assignee belongs to another board")
			}
		}

		item = it
		if sameUUID(item.AssigneeID, cmd.AssigneeID) {
			return nil
		}
		item.AssigneeID = cmd.AssigneeID
		item.LastActiveAt = s.clock()
		if err := repos.Items().Assign(ctx, item.ID, item.AssigneeID, item.LastActiveAt); err != nil {
			return fmt.Errorf("assign card: %w", err)
		}

		if assignee == nil {
			return s.record(ctx, repos, item.BoardID, model.ActivityCardAssigned, accountID, &item.ID, "unassigned card %q", item.Title)
		}
		return s.record(ctx, repos, item.BoardID, model.ActivityCardAssigned, accountID, &item.ID, "assigned card %q to %s", item.Title, assignee.Name)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func getItem(ctx context.Context, repos Repositories, id uuid.UUID) (*model.Item, error) {
	item, err := repos.Items().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}
	if item == nil {
		return nil, apperror.NotFound("card")
	}
	return item, nil
}

// appendOrder places a card after the last card of the column.
func appendOrder(ctx context.Context, repos Repositories, columnID uuid.UUID) (float64, error) {
	items, err := repos.Items().GetByColumnID(ctx, columnID)
	if err != nil {
		return 0, fmt.Errorf("list column cards: %w", err)
	}
	var last *float64
	for _, it := range items {
		if last == nil || it.Order > *last {
			order := it.Order
			last = &order
		}
	}
	return ordering.ComputeOrder(last, nil), nil
}

func itemNeighbours(ctx context.Context, repos Repositories, columnID uuid.UUID, afterID, beforeID *uuid.UUID) (prev, next *float64, err error) {
	resolve := func(id *uuid.UUID) (*float64, error) {
		if id == nil {
			return nil, nil
		}
		it, err := getItem(ctx, repos, *id)
		if err != nil {
			return nil, err
		}
		if it.ColumnID != columnID {
			return nil, apperror.Domain(apperror.CodeNeighbourNotInColumn, "neighbour card %s is not in the target column", it.ID)
		}
		order := it.Order
		return &order, nil
	}
	if prev, err = resolve(afterID); err != nil {
		return nil, nil, err
	}
	if next, err = resolve(beforeID); err != nil {
		return nil, nil, err
	}
	return prev, next, nil
}

func sameUUID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
