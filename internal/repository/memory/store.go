// Package memory is an in-process Store. Each transaction works on a copy of
// the state and publishes it only when fn returns nil, so a failed intent
// leaves nothing behind.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"collabkanban/internal/model"
	"collabkanban/internal/ordering"
	"collabkanban/internal/service"

	"github.com/google/uuid"
)

var (
	ErrDuplicate = errors.New("duplicate key")
	ErrNotFound  = errors.New("row not found")
)

type state struct {
	accounts    map[uuid.UUID]model.Account
	boards      map[uuid.UUID]model.Board
	columns     map[uuid.UUID]model.Column
	items       map[uuid.UUID]model.Item
	comments    map[uuid.UUID]model.Comment
	members     map[uuid.UUID]model.BoardMember
	invitations map[uuid.UUID]model.BoardInvitation
	assignees   map[uuid.UUID]model.Assignee
	// activities is append-only, oldest first.
	activities []model.Activity
}

func newState() *state {
	return &state{
		accounts:    map[uuid.UUID]model.Account{},
		boards:      map[uuid.UUID]model.Board{},
		columns:     map[uuid.UUID]model.Column{},
		items:       map[uuid.UUID]model.Item{},
		comments:    map[uuid.UUID]model.Comment{},
		members:     map[uuid.UUID]model.BoardMember{},
		invitations: map[uuid.UUID]model.BoardInvitation{},
		assignees:   map[uuid.UUID]model.Assignee{},
	}
}

func cloneMap[T any](m map[uuid.UUID]T) map[uuid.UUID]T {
	out := make(map[uuid.UUID]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	return &state{
		accounts:    cloneMap(s.accounts),
		boards:      cloneMap(s.boards),
		columns:     cloneMap(s.columns),
		items:       cloneMap(s.items),
		comments:    cloneMap(s.comments),
		members:     cloneMap(s.members),
		invitations: cloneMap(s.invitations),
		assignees:   cloneMap(s.assignees),
		activities:  append([]model.Activity(nil), s.activities...),
	}
}

type Store struct {
	mu       sync.Mutex
	state    *state
	failures map[string]error
}

func New() *Store {
	return &Store{state: newState(), failures: map[string]error{}}
}

// FailOn makes the named operation, e.g. "invitations.update", return err
// until Reset is called.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]error{}
}

// WithinTx serializes transactions. Writes become visible only on success.
func (s *Store) WithinTx(ctx context.Context, fn func(repos service.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txn{st: s.state.clone(), failures: s.failures}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.st
	return nil
}

type txn struct {
	st       *state
	failures map[string]error
}

func (t *txn) fail(op string) error {
	if err, ok := t.failures[op]; ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (t *txn) Accounts() service.AccountRepository       { return accounts{t} }
func (t *txn) Boards() service.BoardRepository           { return boards{t} }
func (t *txn) Columns() service.ColumnRepository         { return columns{t} }
func (t *txn) Items() service.ItemRepository             { return items{t} }
func (t *txn) Comments() service.CommentRepository       { return comments{t} }
func (t *txn) Members() service.MemberRepository         { return members{t} }
func (t *txn) Invitations() service.InvitationRepository { return invitations{t} }
func (t *txn) Assignees() service.AssigneeRepository     { return assignees{t} }
func (t *txn) Activities() service.ActivityRepository    { return activities{t} }

func ptr[T any](v T) *T { return &v }

type accounts struct{ *txn }

func (r accounts) Create(_ context.Context, a *model.Account) error {
	if err := r.fail("accounts.create"); err != nil {
		return err
	}
	for _, other := range r.st.accounts {
		if strings.EqualFold(other.Email, a.Email) {
			return fmt.Errorf("account email %q: %w", a.Email, ErrDuplicate)
		}
	}
	r.st.accounts[a.ID] = *a
	return nil
}

func (r accounts) GetByID(_ context.Context, id uuid.UUID) (*model.Account, error) {
	if a, ok := r.st.accounts[id]; ok {
		return ptr(a), nil
	}
	return nil, nil
}

func (r accounts) FindByEmail(_ context.Context, email string) (*model.Account, error) {
	for _, a := range r.st.accounts {
		if strings.EqualFold(a.Email, email) {
			return ptr(a), nil
		}
	}
	return nil, nil
}

type boards struct{ *txn }

func (r boards) Create(_ context.Context, b *model.Board) error {
	if err := r.fail("boards.create"); err != nil {
		return err
	}
	r.st.boards[b.ID] = *b
	return nil
}

func (r boards) GetByID(_ context.Context, id uuid.UUID) (*model.Board, error) {
	if b, ok := r.st.boards[id]; ok {
		return ptr(b), nil
	}
	return nil, nil
}

func (r boards) Update(_ context.Context, b *model.Board) error {
	if err := r.fail("boards.update"); err != nil {
		return err
	}
	r.st.boards[b.ID] = *b
	return nil
}

func (r boards) Delete(_ context.Context, id uuid.UUID) error {
	if err := r.fail("boards.delete"); err != nil {
		return err
	}
	st := r.st
	delete(st.boards, id)
	for k, c := range st.columns {
		if c.BoardID == id {
			delete(st.columns, k)
		}
	}
	for k, it := range st.items {
		if it.BoardID != id {
			continue
		}
		for ck, c := range st.comments {
			if c.ItemID == k {
				delete(st.comments, ck)
			}
		}
		delete(st.items, k)
	}
	for k, m := range st.members {
		if m.BoardID == id {
			delete(st.members, k)
		}
	}
	for k, inv := range st.invitations {
		if inv.BoardID == id {
			delete(st.invitations, k)
		}
	}
	for k, a := range st.assignees {
		if a.BoardID == id {
			delete(st.assignees, k)
		}
	}
	kept := st.activities[:0]
	for _, a := range st.activities {
		if a.BoardID != id {
			kept = append(kept, a)
		}
	}
	st.activities = kept
	return nil
}

func (r boards) ListForAccount(_ context.Context, accountID uuid.UUID) ([]model.Board, error) {
	visible := map[uuid.UUID]bool{}
	for _, m := range r.st.members {
		if m.AccountID == accountID {
			visible[m.BoardID] = true
		}
	}
	out := []model.Board{}
	for _, b := range r.st.boards {
		if b.OwnerID == accountID || visible[b.ID] {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type columns struct{ *txn }

func (r columns) Create(_ context.Context, c *model.Column) error {
	if err := r.fail("columns.create"); err != nil {
		return err
	}
	r.st.columns[c.ID] = *c
	return nil
}

func (r columns) GetByID(_ context.Context, id uuid.UUID) (*model.Column, error) {
	if c, ok := r.st.columns[id]; ok {
		return ptr(c), nil
	}
	return nil, nil
}

func (r columns) GetByBoardID(_ context.Context, boardID uuid.UUID) ([]model.Column, error) {
	out := []model.Column{}
	for _, c := range r.st.columns {
		if c.BoardID == boardID {
			out = append(out, c)
		}
	}
	ordering.Sort(out)
	return out, nil
}

func (r columns) GetDefault(_ context.Context, boardID uuid.UUID) (*model.Column, error) {
	for _, c := range r.st.columns {
		if c.BoardID == boardID && c.IsDefault {
			return ptr(c), nil
		}
	}
	return nil, nil
}

func (r columns) Count(_ context.Context, boardID uuid.UUID) (int64, error) {
	var n int64
	for _, c := range r.st.columns {
		if c.BoardID == boardID {
			n++
		}
	}
	return n, nil
}

func (r columns) Update(_ context.Context, c *model.Column) error {
	if err := r.fail("columns.update"); err != nil {
		return err
	}
	r.st.columns[c.ID] = *c
	return nil
}

func (r columns) Delete(_ context.Context, id uuid.UUID) error {
	if err := r.fail("columns.delete"); err != nil {
		return err
	}
	for _, it := range r.st.items {
		if it.ColumnID == id {
			return fmt.Errorf("column %s still has cards", id)
		}
	}
	delete(r.st.columns, id)
	return nil
}

type items struct{ *txn }

func (r items) Create(_ context.Context, it *model.Item) error {
	if err := r.fail("items.create"); err != nil {
		return err
	}
	r.st.items[it.ID] = *it
	return nil
}

func (r items) GetByID(_ context.Context, id uuid.UUID) (*model.Item, error) {
	if it, ok := r.st.items[id]; ok {
		return ptr(it), nil
	}
	return nil, nil
}

func (r items) GetByBoardID(_ context.Context, boardID uuid.UUID) ([]model.Item, error) {
	out := []model.Item{}
	for _, it := range r.st.items {
		if it.BoardID == boardID {
			out = append(out, it)
		}
	}
	ordering.Sort(out)
	return out, nil
}

func (r items) GetByColumnID(_ context.Context, columnID uuid.UUID) ([]model.Item, error) {
	out := []model.Item{}
	for _, it := range r.st.items {
		if it.ColumnID == columnID {
			out = append(out, it)
		}
	}
	ordering.Sort(out)
	return out, nil
}

func (r items) Update(_ context.Context, it *model.Item) error {
	if err := r.fail("items.update"); err != nil {
		return err
	}
	return r.patch(it.ID, func(stored *model.Item) {
		stored.ColumnID = it.ColumnID
		stored.Title = it.Title
		stored.Content = it.Content
		stored.Order = it.Order
		stored.LastActiveAt = it.LastActiveAt
	})
}

func (r items) Move(_ context.Context, id, columnID uuid.UUID, order float64, at time.Time) error {
	if err := r.fail("items.move"); err != nil {
		return err
	}
	return r.patch(id, func(stored *model.Item) {
		stored.ColumnID = columnID
		stored.Order = order
		stored.LastActiveAt = at
	})
}

func (r items) Assign(_ context.Context, id uuid.UUID, assigneeID *uuid.UUID, at time.Time) error {
	if err := r.fail("items.assign"); err != nil {
		return err
	}
	return r.patch(id, func(stored *model.Item) {
		stored.AssigneeID = assigneeID
		stored.LastActiveAt = at
	})
}

func (r items) Touch(_ context.Context, id uuid.UUID, at time.Time) error {
	if err := r.fail("items.touch"); err != nil {
		return err
	}
	return r.patch(id, func(stored *model.Item) { stored.LastActiveAt = at })
}

// patch applies fn to the stored card, leaving fields fn does not set alone.
func (r items) patch(id uuid.UUID, fn func(stored *model.Item)) error {
	stored, ok := r.st.items[id]
	if !ok {
		return fmt.Errorf("card %s: %w", id, ErrNotFound)
	}
	fn(&stored)
	r.st.items[id] = stored
	return nil
}

func (r items) Delete(_ context.Context, id uuid.UUID) error {
	if err := r.fail("items.delete"); err != nil {
		return err
	}
	for k, c := range r.st.comments {
		if c.ItemID == id {
			delete(r.st.comments, k)
		}
	}
	for i, a := range r.st.activities {
		if a.ItemID != nil && *a.ItemID == id {
			r.st.activities[i].ItemID = nil
		}
	}
	delete(r.st.items, id)
	return nil
}

func (r items) ReassignColumn(_ context.Context, from, to uuid.UUID, at time.Time) (int64, error) {
	if err := r.fail("items.reassign"); err != nil {
		return 0, err
	}
	var n int64
	for k, it := range r.st.items {
		if it.ColumnID != from {
			continue
		}
		it.ColumnID = to
		it.LastActiveAt = at
		r.st.items[k] = it
		n++
	}
	return n, nil
}

type comments struct{ *txn }

func (r comments) Create(_ context.Context, c *model.Comment) error {
	if err := r.fail("comments.create"); err != nil {
		return err
	}
	r.st.comments[c.ID] = *c
	return nil
}

func (r comments) GetByID(_ context.Context, id uuid.UUID) (*model.Comment, error) {
	if c, ok := r.st.comments[id]; ok {
		return ptr(c), nil
	}
	return nil, nil
}

func (r comments) GetByItemID(_ context.Context, itemID uuid.UUID) ([]model.Comment, error) {
	out := []model.Comment{}
	for _, c := range r.st.comments {
		if c.ItemID == itemID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r comments) Update(_ context.Context, c *model.Comment) error {
	if err := r.fail("comments.update"); err != nil {
		return err
	}
	r.st.comments[c.ID] = *c
	return nil
}

func (r comments) Delete(_ context.Context, id uuid.UUID) error {
	if err := r.fail("comments.delete"); err != nil {
		return err
	}
	delete(r.st.comments, id)
	return nil
}

type members struct{ *txn }

func (r members) Create(_ context.Context, m *model.BoardMember) error {
	if err := r.fail("members.create"); err != nil {
		return err
	}
	for _, other := range r.st.members {
		if other.BoardID == m.BoardID && other.AccountID == m.AccountID {
			return fmt.Errorf("board member: %w", ErrDuplicate)
		}
	}
	r.st.members[m.ID] = *m
	return nil
}

func (r members) Get(_ context.Context, boardID, accountID uuid.UUID) (*model.BoardMember, error) {
	for _, m := range r.st.members {
		if m.BoardID == boardID && m.AccountID == accountID {
			return ptr(m), nil
		}
	}
	return nil, nil
}

func (r members) GetByBoardID(_ context.Context, boardID uuid.UUID) ([]model.BoardMember, error) {
	out := []model.BoardMember{}
	for _, m := range r.st.members {
		if m.BoardID == boardID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r members) Delete(_ context.Context, boardID, accountID uuid.UUID) error {
	if err := r.fail("members.delete"); err != nil {
		return err
	}
	for k, m := range r.st.members {
		if m.BoardID == boardID && m.AccountID == accountID {
			delete(r.st.members, k)
		}
	}
	return nil
}

type invitations struct{ *txn }

func (r invitations) Create(_ context.Context, inv *model.BoardInvitation) error {
	if err := r.fail("invitations.create"); err != nil {
		return err
	}
	r.st.invitations[inv.ID] = *inv
	return nil
}

func (r invitations) GetByID(_ context.Context, id uuid.UUID) (*model.BoardInvitation, error) {
	if inv, ok := r.st.invitations[id]; ok {
		return ptr(inv), nil
	}
	return nil, nil
}

func (r invitations) GetByEmail(_ context.Context, email string) ([]model.BoardInvitation, error) {
	out := []model.BoardInvitation{}
	for _, inv := range r.st.invitations {
		if strings.EqualFold(inv.Email, email) {
			out = append(out, inv)
		}
	}
	sortInvitations(out)
	return out, nil
}

func (r invitations) GetByBoardID(_ context.Context, boardID uuid.UUID) ([]model.BoardInvitation, error) {
	out := []model.BoardInvitation{}
	for _, inv := range r.st.invitations {
		if inv.BoardID == boardID {
			out = append(out, inv)
		}
	}
	sortInvitations(out)
	return out, nil
}

func (r invitations) Update(_ context.Context, inv *model.BoardInvitation) error {
	if err := r.fail("invitations.update"); err != nil {
		return err
	}
	r.st.invitations[inv.ID] = *inv
	return nil
}

type assignees struct{ *txn }

func (r assignees) Create(_ context.Context, a *model.Assignee) error {
	if err := r.fail("assignees.create"); err != nil {
		return err
	}
	for _, other := range r.st.assignees {
		if other.BoardID == a.BoardID && strings.EqualFold(other.Name, a.Name) {
			return fmt.Errorf("assignee name %q: %w", a.Name, ErrDuplicate)
		}
	}
	r.st.assignees[a.ID] = *a
	return nil
}

func (r assignees) GetByID(_ context.Context, id uuid.UUID) (*model.Assignee, error) {
	if a, ok := r.st.assignees[id]; ok {
		return ptr(a), nil
	}
	return nil, nil
}

func (r assignees) GetByBoardID(_ context.Context, boardID uuid.UUID) ([]model.Assignee, error) {
	out := []model.Assignee{}
	for _, a := range r.st.assignees {
		if a.BoardID == boardID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

func (r assignees) FindByName(_ context.Context, boardID uuid.UUID, name string) (*model.Assignee, error) {
	for _, a := range r.st.assignees {
		if a.BoardID == boardID && strings.EqualFold(a.Name, name) {
			return ptr(a), nil
		}
	}
	return nil, nil
}

func (r assignees) FindByAccount(_ context.Context, boardID, accountID uuid.UUID) (*model.Assignee, error) {
	for _, a := range r.st.assignees {
		if a.BoardID == boardID && a.AccountID != nil && *a.AccountID == accountID {
			return ptr(a), nil
		}
	}
	return nil, nil
}

func (r assignees) Update(_ context.Context, a *model.Assignee) error {
	if err := r.fail("assignees.update"); err != nil {
		return err
	}
	r.st.assignees[a.ID] = *a
	return nil
}

type activities struct{ *txn }

func (r activities) Create(_ context.Context, a *model.Activity) error {
	if err := r.fail("activities.create"); err != nil {
		return err
	}
	r.st.activities = append(r.st.activities, *a)
	return nil
}

func (r activities) GetByBoardID(_ context.Context, boardID uuid.UUID, limit int) ([]model.Activity, error) {
	out := []model.Activity{}
	for i := len(r.st.activities) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		if a := r.st.activities[i]; a.BoardID == boardID {
			out = append(out, a)
		}
	}
	return out, nil
}

func sortInvitations(invs []model.BoardInvitation) {
	sort.Slice(invs, func(i, j int) bool {
		if !invs[i].CreatedAt.Equal(invs[j].CreatedAt) {
			return invs[i].CreatedAt.Before(invs[j].CreatedAt)
		}
		return invs[i].ID.String() < invs[j].ID.String()
	})
}

var _ service.Store = (*Store)(nil)
