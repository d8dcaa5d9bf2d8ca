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

// CreateColumn appends a column: its order is the board's column count + 1.
func (s *Service) CreateColumn(ctx context.Context, accountID uuid.UUID, cmd CreateColumn) (*model.Column, error) {
	var column *model.Column
	err := s.run(ctx, "createColumn", accountID, &cmd, func(repos Repositories) error {
		board, role, err := access(ctx, repos, cmd.BoardID, accountID)
		if err != nil {
			return err
		}
		if err := authorize(role, permission.CreateColumn); err != nil {
			return err
		}

		count, err := repos.Columns().Count(ctx, board.ID)
		if err != nil {
			return fmt.Errorf("count columns: %w", err)
		}

		column = &model.Column{
			ID:         uuid.New(),
			BoardID:    board.ID,
			Name:       cmd.Name,
			Color:      cmd.Color,
			Order:      float64(count + 1),
			IsExpanded: true,
			CreatedAt:  s.clock(),
		}
		if err := repos.Columns().Create(ctx, column); err != nil {
			return fmt.Errorf("create column: %w", err)
		}
		return s.record(ctx, repos, board.ID, model.ActivityColumnCreated, accountID, nil, "created column %q", column.Name)
	})
	if err != nil {
		return nil, err
	}
	return column, nil
}

// UpdateColumn applies a partial update. Each present field is checked against
// its own capability before anything is written.
func (s *Service) UpdateColumn(ctx context.Context, accountID uuid.UUID, cmd UpdateColumn) (*model.Column, error) {
	var column *model.Column
	err := s.run(ctx, "updateColumn", accountID, &cmd, func(repos Repositories) error {
		c, err := getColumn(ctx, repos, cmd.ColumnID)
		if err != nil {
			return err
		}
		_, role, err := access(ctx, repos, c.BoardID, accountID)
		if err != nil {
			return err
		}

		checks := []struct {
			present bool
			action  permission.Action
		}{
			{cmd.Name != nil, permission.UpdateColumnName},
			{cmd.Color != nil, permission.UpdateColumnColor},
			{cmd.IsExpanded != nil, permission.UpdateColumnExpanded},
			{cmd.Shortcut != nil, permission.UpdateColumnShortcut},
		}
		for _, check := range checks {
			if !check.present {
				continue
			}
			if err := authorize(role, check.action); err != nil {
				return err
			}
		}

		column = c
		changed := false
		if cmd.Name != nil && *cmd.Name != column.Name {
			column.Name = *cmd.Name
			changed = true
		}
		if cmd.Color != nil && *cmd.Color != column.Color {
			column.Color = *cmd.Color
			changed = true
		}
		if cmd.IsExpanded != nil && *cmd.IsExpanded != column.IsExpanded {
			column.IsExpanded = *cmd.IsExpanded
			changed = true
		}
		if cmd.Shortcut != nil {
			var next *string
			if *cmd.Shortcut != "" {
				next = cmd.Shortcut
			}
			if !sameString(column.Shortcut, next) {
				column.Shortcut = next
				changed = true
			}
		}
		if !changed {
			return nil
		}

		if err := repos.Columns().Update(ctx, column); err != nil {
			return fmt.Errorf("update column: %w", err)
		}
		return s.record(ctx, repos, column.BoardID, model.ActivityColumnUpdated, accountID, nil, "updated column %q", column.Name)
	})
	if err != nil {
		return nil, err
	}
	return column, nil
}

// MoveColumn repositions a column using an explicit order or its new neighbours.
func (s *Service) MoveColumn(ctx context.Context, accountID uuid.UUID, cmd MoveColumn) (*model.Column, error) {
	var column *model.Column
	err := s.run(ctx, "moveColumn", accountID, &cmd, func(repos Repositories) error {
		c, err := getColumn(ctx, repos, cmd.ColumnID)
		if err != nil {
			return err
		}
		_, role, err := access(ctx, repos, c.BoardID, accountID)
		if err != nil {
			return err
		}
		if err := authorize(role, permission.MoveColumn); err != nil {
			return err
		}

		order := cmd.Order
		if order == nil {
			prev, next, err := columnNeighbours(ctx, repos, c.BoardID, cmd.AfterID, cmd.BeforeID)
			if err != nil {
				return err
			}
			computed := ordering.ComputeOrder(prev, next)
			if ordering.Collapsed(prev, next, computed) {
				s.log.Warnw("column order collapsed", "column_id", c.ID, "order", computed)
			}
			order = &computed
		}

		column = c
		column.Order = *order
		if err := repos.Columns().Update(ctx, column); err != nil {
			return fmt.Errorf("move column: %w", err)
		}
		return s.record(ctx, repos, column.BoardID, model.ActivityColumnMoved, accountID, nil, "moved column %q", column.Name)
	})
	if err != nil {
		return nil, err
	}
	return column, nil
}

// DeleteColumn moves the column's cards into the board's default column and
// then deletes it. The default column itself cannot be deleted.
func (s *Service) DeleteColumn(ctx context.Context, accountID uuid.UUID, cmd DeleteColumn) error {
	return s.run(ctx, "deleteColumn", accountID, &cmd, func(repos Repositories) error {
		column, err := getColumn(ctx, repos, cmd.ColumnID)
		if err != nil {
			return err
		}
		if column.BoardID != cmd.BoardID {
			return apperror.NotFound("column")
		}
		_, role, err := access(ctx, repos, column.BoardID, accountID)
		if err != nil {
			return err
		}
		if err := authorize(role, permission.DeleteColumn); err != nil {
			return err
		}
		if column.IsDefault {
			return apperror.Domain(apperror.CodeDefaultColumnProtected, "the default column cannot be deleted")
		}

		fallback, err := repos.Columns().GetDefault(ctx, column.BoardID)
		if err != nil {
			return fmt.Errorf("get default column: %w", err)
		}
		if fallback == nil {
			return fmt.Errorf("board %s has no default column", column.BoardID)
		}

		moved, err := repos.Items().ReassignColumn(ctx, column.ID, fallback.ID, s.clock())
		if err != nil {
			return fmt.Errorf("reassign cards: %w", err)
		}
		if err := repos.Columns().Delete(ctx, column.ID); err != nil {
			return fmt.Errorf("delete column: %w", err)
		}
		return s.record(ctx, repos, column.BoardID, model.ActivityColumnDeleted, accountID, nil,
			"deleted column %q and moved %d cards to %q", column.Name, moved, fallback.Name)
	})
}

func getColumn(ctx context.Context, repos Repositories, id uuid.UUID) (*model.Column, error) {
	column, err := repos.Columns().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get column: %w", err)
	}
	if column == nil {
		return nil, apperror.NotFound("column")
	}
	return column, nil
}

func columnNeighbours(ctx context.Context, repos Repositories, boardID uuid.UUID, afterID, beforeID *uuid.UUID) (prev, next *float64, err error) {
	resolve := func(id *uuid.UUID) (*float64, error) {
		if id == nil {
			return nil, nil
		}
		c, err := getColumn(ctx, repos, *id)
		if err != nil {
			return nil, err
		}
		if c.BoardID != boardID {
			return nil, apperror.NotFound("column")
		}
		order := c.Order
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

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
