package reconcile

import (
	"collabkanban/internal/model"
	"collabkanban/internal/ordering"

	"github.com/google/uuid"
)

// Board is the client-side view of one board's columns and cards.
type Board struct {
	Columns *Table[model.Column]
	Items   *Table[model.Item]
}

func NewBoard() *Board {
	return &Board{
		Columns: NewTable[model.Column](),
		Items:   NewTable[model.Item](),
	}
}

// Load confirms a server snapshot.
func (b *Board) Load(columns []model.Column, items []model.Item) {
	cs := make(map[Key]model.Column, len(columns))
	for _, c := range columns {
		cs[ColumnKey(c.ID)] = c
	}
	is := make(map[Key]model.Item, len(items))
	for _, i := range items {
		is[CardKey(i.ID)] = i
	}
	b.Columns.ConfirmAll(cs)
	b.Items.ConfirmAll(is)
}

// View returns columns and per-column cards, each sorted by order.
func (b *Board) View() ([]model.Column, map[uuid.UUID][]model.Item) {
	columns := make([]model.Column, 0)
	for _, c := range b.Columns.View() {
		columns = append(columns, c)
	}
	ordering.Sort(columns)

	cards := make(map[uuid.UUID][]model.Item, len(columns))
	for _, i := range b.Items.View() {
		cards[i.ColumnID] = append(cards[i.ColumnID], i)
	}
	for id := range cards {
		ordering.Sort(cards[id])
	}
	return columns, cards
}

// MoveCard places a card at index of column in the current view and registers
// the overlay. The returned item carries the computed order to send to the
// server with the returned generation.
func (b *Board) MoveCard(cardID, columnID uuid.UUID, index int) (model.Item, uint64, bool) {
	view := b.Items.View()
	card, ok := view[CardKey(cardID)]
	if !ok {
		return model.Item{}, 0, false
	}

	_, cards := b.View()
	positions := make([]float64, 0, len(cards[columnID]))
	for _, other := range cards[columnID] {
		if other.ID == cardID {
			continue
		}
		positions = append(positions, other.Order)
	}
	if index < 0 {
		index = 0
	}
	if index > len(positions) {
		index = len(positions)
	}

	prev, next := ordering.Neighbours(positions, index)
	card.ColumnID = columnID
	card.Order = ordering.ComputeOrder(prev, next)
	gen := b.Items.Begin(CardKey(cardID), card)
	return card, gen, true
}

// MoveColumn is MoveCard for columns.
func (b *Board) MoveColumn(columnID uuid.UUID, index int) (model.Column, uint64, bool) {
	view := b.Columns.View()
	column, ok := view[ColumnKey(columnID)]
	if !ok {
		return model.Column{}, 0, false
	}

	columns, _ := b.View()
	positions := make([]float64, 0, len(columns))
	for _, other := range columns {
		if other.ID == columnID {
			continue
		}
		positions = append(positions, other.Order)
	}
	if index < 0 {
		index = 0
	}
	if index > len(positions) {
		index = len(positions)
	}

	prev, next := ordering.Neighbours(positions, index)
	column.Order = ordering.ComputeOrder(prev, next)
	gen := b.Columns.Begin(ColumnKey(columnID), column)
	return column, gen, true
}
