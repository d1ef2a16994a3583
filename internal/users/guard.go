package users

import (
	"errors"

	"eskimo_admin/internal/api"
	"eskimo_admin/internal/session"
)

var ErrLastAdmin = errors.New("operation would leave no active admin")

type Op int

const (
	OpSave Op = iota
	OpToggle
	OpDelete
)

// Change describes a pending operation on one user.
type Change struct {
	Op Op
	// Updated is the record about to be saved (OpSave).
	Updated api.User
	// Enabled is the requested state (OpToggle).
	Enabled bool
}

// CountActiveAdmins counts enabled users with the admin role.
func CountActiveAdmins(list []api.User) int {
	n := 0
	for _, u := range list {
		if u.ActiveAdmin() {
			n++
		}
	}
	return n
}

// CheckLastAdmin rejects a change that would demote, disable or delete the
// only active admin of list. The list is whatever was fetched last; the
// backend has to enforce the same rule since the list may be stale.
func CheckLastAdmin(list []api.User, targetID api.ID, change Change) error {
	var target *api.User
	for i := range list {
		if list[i].ID == targetID {
			target = &list[i]
			break
		}
	}
	if target == nil || !target.ActiveAdmin() {
		return nil
	}
	if CountActiveAdmins(list) != 1 {
		return nil
	}

	switch change.Op {
	case OpDelete:
		return ErrLastAdmin
	case OpToggle:
		if !change.Enabled {
			return ErrLastAdmin
		}
	case OpSave:
		if session.ParseRole(change.Updated.Role) != session.RoleAdmin || !change.Updated.IsEnabled {
			return ErrLastAdmin
		}
	}
	return nil
}
