package permission_test

import (
	"testing"

	"collabkanban/internal/model"
	"collabkanban/internal/permission"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRoleOf(t *testing.T) {
	owner := uuid.New()
	editor := uuid.New()
	stranger := uuid.New()
	board := &model.Board{ID: uuid.New(), OwnerID: owner}
	member := &model.BoardMember{BoardID: board.ID, AccountID: editor, Role: model.RoleEditor}

	assert.Equal(t, permission.Owner, permission.RoleOf(board, nil, owner))
	assert.Equal(t, permission.Editor, permission.RoleOf(board, member, editor))
	assert.Equal(t, permission.None, permission.RoleOf(board, nil, stranger))
	assert.Equal(t, permission.None, permission.RoleOf(board, member, stranger))
	assert.Equal(t, permission.None, permission.RoleOf(nil, member, editor))

	// Роль "owner" в таблице участников не даёт владения без board.OwnerID
	forged := &model.BoardMember{BoardID: board.ID, AccountID: stranger, Role: model.RoleOwner}
	assert.Equal(t, permission.None, permission.RoleOf(board, forged, stranger))
}

func TestCan_Matrix(t *testing.T) {
	cases := []struct {
		action permission.Action
		owner  bool
		admin  bool
		editor bool
	}{
		{permission.UpdateBoard, true, false, false},
		{permission.CreateColumn, true, false, false},
		{permission.DeleteColumn, true, false, false},
		{permission.MoveColumn, true, false, false},
		{permission.UpdateColumnColor, true, false, false},
		{permission.UpdateColumnName, true, true, true},
		{permission.UpdateColumnExpanded, true, true, true},
		{permission.ManageMembers, true, true, false},
		{permission.DeleteCard, true, true, false},
		{permission.CreateItem, true, true, true},
		{permission.UpdateItem, true, true, true},
		{permission.MoveItem, true, true, true},
		{permission.AssignItem, true, true, true},
	}

	for _, tc := range cases {
		t.Run(string(tc.action), func(t *testing.T) {
			assert.Equal(t, tc.owner, permission.Can(permission.Owner, tc.action))
			assert.Equal(t, tc.admin, permission.Can(permission.Admin, tc.action))
			assert.Equal(t, tc.editor, permission.Can(permission.Editor, tc.action))
			assert.False(t, permission.Can(permission.None, tc.action))
		})
	}
}

func TestCanDeleteCard_EditorOwnCardOnly(t *testing.T) {
	e := uuid.New()
	f := uuid.New()
	item := &model.Item{ID: uuid.New(), CreatedBy: &e}

	assert.True(t, permission.CanDeleteCard(permission.Editor, e, item))
	assert.False(t, permission.CanDeleteCard(permission.Editor, f, item))
	assert.True(t, permission.CanDeleteCard(permission.Admin, f, item))
	assert.False(t, permission.CanDeleteCard(permission.None, e, item))

	orphan := &model.Item{ID: uuid.New()}
	assert.False(t, permission.CanDeleteCard(permission.Editor, e, orphan))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, permission.Admin, permission.ParseRole("admin"))
	assert.Equal(t, permission.None, permission.ParseRole("viewer"))
	assert.Equal(t, "editor", permission.Editor.String())
}
