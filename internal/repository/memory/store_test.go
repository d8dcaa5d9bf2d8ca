package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"collabkanban/internal/model"
	"collabkanban/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *Store) (model.Board, model.Item) {
	t.Helper()
	now := time.Now().UTC()
	board := model.Board{ID: uuid.New(), Name: "b", OwnerID: uuid.New(), CreatedAt: now}
	column := model.Column{ID: uuid.New(), BoardID: board.ID, Name: "Maybe", Order: 1, IsDefault: true, CreatedAt: now}
	item := model.Item{ID: uuid.New(), BoardID: board.ID, ColumnID: column.ID, Title: "card", Order: 1, CreatedAt: now}
	err := s.WithinTx(context.Background(), func(repos service.Repositories) error {
		ctx := context.Background()
		require.NoError(t, repos.Boards().Create(ctx, &board))
		require.NoError(t, repos.Columns().Create(ctx, &column))
		require.NoError(t, repos.Items().Create(ctx, &item))
		require.NoError(t, repos.Comments().Create(ctx, &model.Comment{ID: uuid.New(), ItemID: item.ID, Content: "c", CreatedAt: now}))
		return repos.Activities().Create(ctx, &model.Activity{ID: uuid.New(), BoardID: board.ID, ItemID: &item.ID, Type: model.ActivityCardCreated})
	})
	require.NoError(t, err)
	return board, item
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	s := New()
	board, _ := seed(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(repos service.Repositories) error {
		require.NoError(t, repos.Boards().Delete(ctx, board.ID))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = s.WithinTx(ctx, func(repos service.Repositories) error {
		got, err := repos.Boards().GetByID(ctx, board.ID)
		assert.NotNil(t, got)
		return err
	})
	require.NoError(t, err)
}

func TestItemDelete_RemovesCommentsAndDetachesActivity(t *testing.T) {
	s := New()
	board, item := seed(t, s)
	ctx := context.Background()

	err := s.WithinTx(ctx, func(repos service.Repositories) error {
		if err := repos.Items().Delete(ctx, item.ID); err != nil {
			return err
		}
		comments, err := repos.Comments().GetByItemID(ctx, item.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
		feed, err := repos.Activities().GetByBoardID(ctx, board.ID, 10)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Nil(t, feed[0].ItemID)
		return nil
	})
	require.NoError(t, err)
}

func TestBoardDelete_Cascades(t *testing.T) {
	s := New()
	board, item := seed(t, s)
	ctx := context.Background()

	err := s.WithinTx(ctx, func(repos service.Repositories) error {
		require.NoError(t, repos.Boards().Delete(ctx, board.ID))
		got, err := repos.Items().GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
		cols, err := repos.Columns().GetByBoardID(ctx, board.ID)
		require.NoError(t, err)
		assert.Empty(t, cols)
		feed, err := repos.Activities().GetByBoardID(ctx, board.ID, 0)
		require.NoError(t, err)
		assert.Empty(t, feed)
		return nil
	})
	require.NoError(t, err)
}

func TestFailOn(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")
	s.FailOn("boards.create", boom)

	err := s.WithinTx(ctx, func(repos service.Repositories) error {
		return repos.Boards().Create(ctx, &model.Board{ID: uuid.New()})
	})
	assert.ErrorIs(t, err, boom)

	s.Reset()
	err = s.WithinTx(ctx, func(repos service.Repositories) error {
		return repos.Boards().Create(ctx, &model.Board{ID: uuid.New()})
	})
	assert.NoError(t, err)
}

func TestAssigneeNamesAreCaseInsensitive(t *testing.T) {
	s := New()
	ctx := context.Background()
	boardID := uuid.New()

	err := s.WithinTx(ctx, func(repos service.Repositories) error {
		require.NoError(t, repos.Assignees().Create(ctx, &model.Assignee{ID: uuid.New(), BoardID: boardID, Name: "Ivan"}))
		found, err := repos.Assignees().FindByName(ctx, boardID, "IVAN")
		require.NoError(t, err)
		assert.NotNil(t, found)
		return repos.Assignees().Create(ctx, &model.Assignee{ID: uuid.New(), BoardID: boardID, Name: "ivan"})
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestWithinTx_CancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.WithinTx(ctx, func(service.Repositories) error { return nil })

	assert.ErrorIs(t, err, context.Canceled)
}

func TestItemNarrowWrites_KeepConcurrentMove(t *testing.T) {
	s := New()
	_, item := seed(t, s)
	ctx := context.Background()
	target := uuid.New()
	assignee := uuid.New()
	at := item.CreatedAt.Add(time.Minute)

	// Another writer moves the card after ours loaded it.
	stale := item
	err := s.WithinTx(ctx, func(repos service.Repositories) error {
		return repos.Items().Move(ctx, item.ID, target, 7, at)
	})
	require.NoError(t, err)

	err = s.WithinTx(ctx, func(repos service.Repositories) error {
		if err := repos.Items().Touch(ctx, stale.ID, at.Add(time.Minute)); err != nil {
			return err
		}
		return repos.Items().Assign(ctx, stale.ID, &assignee, at.Add(2*time.Minute))
	})
	require.NoError(t, err)

	err = s.WithinTx(ctx, func(repos service.Repositories) error {
		got, err := repos.Items().GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, target, got.ColumnID)
		assert.Equal(t, 7.0, got.Order)
		assert.Equal(t, "card", got.Title)
		assert.Equal(t, assignee, *got.AssigneeID)
		assert.Equal(t, at.Add(2*time.Minute), got.LastActiveAt)
		return nil
	})
	require.NoError(t, err)
}

func TestItemTouch_Missing(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.WithinTx(ctx, func(repos service.Repositories) error {
		return repos.Items().Touch(ctx, uuid.New(), time.Now())
	})

	assert.ErrorIs(t, err, ErrNotFound)
}
