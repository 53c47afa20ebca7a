package ledger

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// Actor is the authenticated user performing a request.
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Action is an operation subject to authorization.
type Action int

const (
	ActionViewGroup Action = iota
	ActionRenameGroup
	ActionDeleteGroup
	ActionManageMembers
	ActionAddExpense
	ActionEditExpense
	ActionDeleteExpense
	ActionRecordSettlement
	ActionDeleteSettlement
	ActionCreateUser
)

func (a Action) String() string {
	switch a {
	case ActionViewGroup:
		return "view group"
	case ActionRenameGroup:
		return "rename group"
	case ActionDeleteGroup:
		return "delete group"
	case ActionManageMembers:
		return "manage members"
	case ActionAddExpense:
		return "add expense"
	case ActionEditExpense:
		return "edit expense"
	case ActionDeleteExpense:
		return "delete expense"
	case ActionRecordSettlement:
		return "record settlement"
	case ActionDeleteSettlement:
		return "delete settlement"
	case ActionCreateUser:
		return "create user"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Subject carries whatever the rule for an action needs to look at.
// Only the fields relevant to the action have to be set.
type Subject struct {
	Group      *models.Group
	Expense    *models.Expense
	Settlement *models.Settlement
	// PayerID and ReceiverID describe a settlement that is about to be recorded.
	PayerID    string
	ReceiverID string
}

// Authorize is the single permission check used by every entry point.
// It returns nil when allowed and an error wrapping ErrPermissionDenied otherwise.
func Authorize(actor Actor, action Action, s Subject) error {
	if actor.UserID == "" {
		return deny(action)
	}

	switch action {
	case ActionViewGroup:
		if actor.IsAdmin() || isMember(s.Group, actor.UserID) {
			return nil
		}
	case ActionRenameGroup, ActionDeleteGroup, ActionManageMembers:
		if actor.IsAdmin() || (s.Group != nil && s.Group.CreatedBy == actor.UserID) {
			return nil
		}
	case ActionAddExpense:
		if isMember(s.Group, actor.UserID) {
			return nil
		}
	case ActionEditExpense, ActionDeleteExpense:
		if actor.IsAdmin() {
			return nil
		}
		if s.Expense != nil && (s.Expense.CreatedBy == actor.UserID || s.Expense.PayerID == actor.UserID) {
			return nil
		}
	case ActionRecordSettlement:
		// No admin bypass: only the two parties may record a payment.
		if actor.UserID == s.PayerID || actor.UserID == s.ReceiverID {
			return nil
		}
	case ActionDeleteSettlement:
		if actor.IsAdmin() {
			return nil
		}
		if s.Settlement != nil && (s.Settlement.PayerID == actor.UserID || s.Settlement.ReceiverID == actor.UserID) {
			return nil
		}
	case ActionCreateUser:
		if actor.IsAdmin() {
			return nil
		}
	}

	return deny(action)
}

func isMember(g *models.Group, userID string) bool {
	return g != nil && g.HasMember(userID)
}

func deny(action Action) error {
	return fmt.Errorf("%w: not allowed to %s", ErrPermissionDenied, action)
}
