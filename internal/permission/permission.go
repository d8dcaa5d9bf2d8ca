// Package permission resolves a caller's role on a board and evaluates the
// fixed capability matrix.
package permission

import (
	"collabkanban/internal/model"

	"github.com/google/uuid"
)

// Role is resolved once per command and passed along. The zero value is None.
type Role int

const (
	None Role = iota
	Editor
	Admin
	Owner
)

func (r Role) String() string {
	switch r {
	case Owner:
		return model.RoleOwner
	case Admin:
		return model.RoleAdmin
	case Editor:
		return model.RoleEditor
	}
	return "none"
}

// ParseRole maps a stored member role to a Role. Unknown values are None.
func ParseRole(s string) Role {
	switch s {
	case model.RoleOwner:
		return Owner
	case model.RoleAdmin:
		return Admin
	case model.RoleEditor:
		return Editor
	}
	return None
}

// RoleOf is a pure function of the board and the caller's membership row.
// member may be nil when the caller has none.
func RoleOf(board *model.Board, member *model.BoardMember, accountID uuid.UUID) Role {
	if board == nil || accountID == uuid.Nil {
		return None
	}
	if board.OwnerID == accountID {
		return Owner
	}
	if member == nil || member.BoardID != board.ID || member.AccountID != accountID {
		return None
	}
	role := ParseRole(member.Role)
	if role == Owner {
		// ownership follows board.OwnerID only
		return None
	}
	return role
}

type Action string

const (
	ViewBoard            Action = "viewBoard"
	UpdateBoard          Action = "updateBoard"
	DeleteBoard          Action = "deleteBoard"
	CreateColumn         Action = "createColumn"
	DeleteColumn         Action = "deleteColumn"
	MoveColumn           Action = "moveColumn"
	UpdateColumnColor    Action = "updateColumnColor"
	UpdateColumnName     Action = "updateColumnName"
	UpdateColumnExpanded Action = "updateColumnExpanded"
	UpdateColumnShortcut Action = "updateColumnShortcut"
	ManageMembers        Action = "manageMembers"
	DeleteCard           Action = "deleteCard"
	CreateItem           Action = "createItem"
	UpdateItem           Action = "updateItem"
	MoveItem             Action = "moveItem"
	AssignItem           Action = "assign"
	Comment              Action = "comment"
	CreateAssignee       Action = "createAssignee"
)

// matrix lists the minimum role per action. Editors pass DeleteCard only for
// their own cards, see CanDeleteCard.
var matrix = map[Action]Role{
	ViewBoard:            Editor,
	UpdateBoard:          Owner,
	DeleteBoard:          Owner,
	CreateColumn:         Owner,
	DeleteColumn:         Owner,
	MoveColumn:           Owner,
	UpdateColumnColor:    Owner,
	UpdateColumnName:     Editor,
	UpdateColumnExpanded: Editor,
	UpdateColumnShortcut: Editor,
	ManageMembers:        Admin,
	DeleteCard:           Admin,
	CreateItem:           Editor,
	UpdateItem:           Editor,
	MoveItem:             Editor,
	AssignItem:           Editor,
	Comment:              Editor,
	CreateAssignee:       Editor,
}

// Can reports whether role may perform action. Unknown actions require any role.
func Can(role Role, action Action) bool {
	if role == None {
		return false
	}
	required, ok := matrix[action]
	if !ok {
		return true
	}
	return role >= required
}

// CanDeleteCard applies the DeleteCard row, including the editor-as-creator exception.
func CanDeleteCard(role Role, accountID uuid.UUID, item *model.Item) bool {
	if Can(role, DeleteCard) {
		return true
	}
	return role == Editor && item != nil && item.CreatedBy != nil && *item.CreatedBy == accountID
}
