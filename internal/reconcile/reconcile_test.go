package reconcile_test

import (
	"testing"
	"time"

	"collabkanban/internal/model"
	"collabkanban/internal/reconcile"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_OverlayUntilSettled(t *testing.T) {
	table := reconcile.NewTable[string]()
	key := reconcile.Key("card:1")
	table.Confirm(key, "server")

	gen := table.Begin(key, "local")
	assert.Equal(t, "local", table.View()[key])
	assert.True(t, table.Pending(key))

	assert.True(t, table.Settle(key, gen))
	assert.Equal(t, "server", table.View()[key])
	assert.False(t, table.Pending(key))
}

func TestTable_NewerRequestSupersedesOlder(t *testing.T) {
	table := reconcile.NewTable[string]()
	key := reconcile.Key("card:1")
	table.Confirm(key, "v0")

	first := table.Begin(key, "v1")
	second := table.Begin(key, "v2")
	assert.Equal(t, "v2", table.View()[key])

	// Медленный ответ на первый запрос не стирает второй оверлей
	assert.False(t, table.Settle(key, first))
	assert.Equal(t, "v2", table.View()[key])

	table.Confirm(key, "v2")
	assert.True(t, table.Settle(key, second))
	assert.Equal(t, "v2", table.View()[key])
}

func TestTable_FailedRequestRevertsOnRevalidation(t *testing.T) {
	table := reconcile.NewTable[string]()
	key := reconcile.Key("column:1")
	table.Confirm(key, "Todo")

	gen := table.Begin(key, "Doing")
	table.Settle(key, gen) // запрос упал

	table.ConfirmAll(map[reconcile.Key]string{key: "Todo"})
	assert.Equal(t, "Todo", table.View()[key])
}

func TestTable_PendingCreateAndDelete(t *testing.T) {
	table := reconcile.NewTable[string]()
	created := reconcile.Key("card:new")
	gone := reconcile.Key("card:old")
	table.Confirm(gone, "old")

	createGen := table.Begin(created, "new")
	table.BeginDelete(gone)

	view := table.View()
	assert.Equal(t, "new", view[created])
	_, visible := view[gone]
	assert.False(t, visible)

	// снимок сервера ещё не содержит новую карточку, оверлей остаётся
	table.ConfirmAll(map[reconcile.Key]string{})
	assert.Equal(t, "new", table.View()[created])

	assert.True(t, table.Settle(created, createGen))
	assert.Empty(t, table.View())
}

func TestReconcile_IsPure(t *testing.T) {
	entries := map[reconcile.Key]reconcile.Entry[int]{
		"a": {Confirmed: 1, HasConfirmed: true},
		"b": {Confirmed: 2, HasConfirmed: true, Pending: &reconcile.Overlay[int]{Value: 3}, Generation: 7},
	}

	first := reconcile.Reconcile(entries)
	second := reconcile.Reconcile(entries)

	assert.Equal(t, map[reconcile.Key]int{"a": 1, "b": 3}, first)
	assert.Equal(t, first, second)
}

func TestBoard_MoveCardRendersImmediately(t *testing.T) {
	board := reconcile.NewBoard()
	todo := model.Column{ID: uuid.New(), Name: "Todo", Order: 1}
	done := model.Column{ID: uuid.New(), Name: "Done", Order: 2}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := model.Item{ID: uuid.New(), ColumnID: todo.ID, Title: "a", Order: 1, CreatedAt: base}
	b := model.Item{ID: uuid.New(), ColumnID: todo.ID, Title: "b", Order: 2, CreatedAt: base}
	c := model.Item{ID: uuid.New(), ColumnID: done.ID, Title: "c", Order: 1, CreatedAt: base}
	board.Load([]model.Column{done, todo}, []model.Item{a, b, c})

	moved, gen, ok := board.MoveCard(b.ID, done.ID, 0)
	require.True(t, ok)
	assert.Equal(t, 0.0, moved.Order)

	columns, cards := board.View()
	assert.Equal(t, []uuid.UUID{todo.ID, done.ID}, []uuid.UUID{columns[0].ID, columns[1].ID})
	require.Len(t, cards[done.ID], 2)
	assert.Equal(t, b.ID, cards[done.ID][0].ID)
	assert.Len(t, cards[todo.ID], 1)

	// сервер подтвердил перемещение
	b.ColumnID = done.ID
	b.Order = moved.Order
	board.Load([]model.Column{todo, done}, []model.Item{a, b, c})
	assert.True(t, board.Items.Settle(reconcile.CardKey(b.ID), gen))

	_, cards = board.View()
	assert.Equal(t, b.ID, cards[done.ID][0].ID)
}

func TestBoard_MoveColumnBetweenNeighbours(t *testing.T) {
	board := reconcile.NewBoard()
	c1 := model.Column{ID: uuid.New(), Order: 1}
	c2 := model.Column{ID: uuid.New(), Order: 2}
	c3 := model.Column{ID: uuid.New(), Order: 3}
	board.Load([]model.Column{c1, c2, c3}, nil)

	moved, _, ok := board.MoveColumn(c3.ID, 1)
	require.True(t, ok)
	assert.Equal(t, 1.5, moved.Order)

	columns, _ := board.View()
	assert.Equal(t, []uuid.UUID{c1.ID, c3.ID, c2.ID}, []uuid.UUID{columns[0].ID, columns[1].ID, columns[2].ID})

	_, _, ok = board.MoveColumn(uuid.New(), 0)
	assert.False(t, ok)
}
