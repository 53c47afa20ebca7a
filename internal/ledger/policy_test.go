package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
)

func TestAuthorize(t *testing.T) {
	group := testGroup() // created by alice; members alice, bob, carol
	expense := &models.Expense{ID: "e1", GroupID: "g1", PayerID: "bob", CreatedBy: "carol"}
	settlement := &models.Settlement{ID: "s1", GroupID: "g1", PayerID: "bob", ReceiverID: "alice"}

	alice := ledger.Actor{UserID: "alice", Role: models.RoleUser}
	bob := ledger.Actor{UserID: "bob", Role: models.RoleUser}
	carol := ledger.Actor{UserID: "carol", Role: models.RoleUser}
	outsider := ledger.Actor{UserID: "mallory", Role: models.RoleUser}
	admin := ledger.Actor{UserID: "root", Role: models.RoleAdmin}

	tests := []struct {
		name    string
		actor   ledger.Actor
		action  ledger.Action
		subject ledger.Subject
		allowed bool
	}{
		{"member views group", bob, ledger.ActionViewGroup, ledger.Subject{Group: group}, true},
		{"outsider views group", outsider, ledger.ActionViewGroup, ledger.Subject{Group: group}, false},
		{"admin views group", admin, ledger.ActionViewGroup, ledger.Subject{Group: group}, true},
		{"anonymous views group", ledger.Actor{}, ledger.ActionViewGroup, ledger.Subject{Group: group}, false},

		{"creator renames group", alice, ledger.ActionRenameGroup, ledger.Subject{Group: group}, true},
		{"member renames group", bob, ledger.ActionRenameGroup, ledger.Subject{Group: group}, false},
		{"admin deletes group", admin, ledger.ActionDeleteGroup, ledger.Subject{Group: group}, true},
		{"member deletes group", carol, ledger.ActionDeleteGroup, ledger.Subject{Group: group}, false},
		{"creator manages members", alice, ledger.ActionManageMembers, ledger.Subject{Group: group}, true},
		{"member manages members", bob, ledger.ActionManageMembers, ledger.Subject{Group: group}, false},

		{"member adds expense", carol, ledger.ActionAddExpense, ledger.Subject{Group: group}, true},
		{"outsider adds expense", outsider, ledger.ActionAddExpense, ledger.Subject{Group: group}, false},
		{"admin outside group adds expense", admin, ledger.ActionAddExpense, ledger.Subject{Group: group}, false},

		{"expense creator edits", carol, ledger.ActionEditExpense, ledger.Subject{Group: group, Expense: expense}, true},
		{"expense payer edits", bob, ledger.ActionEditExpense, ledger.Subject{Group: group, Expense: expense}, true},
		{"other member edits", alice, ledger.ActionEditExpense, ledger.Subject{Group: group, Expense: expense}, false},
		{"admin deletes expense", admin, ledger.ActionDeleteExpense, ledger.Subject{Group: group, Expense: expense}, true},
		{"other member deletes expense", alice, ledger.ActionDeleteExpense, ledger.Subject{Group: group, Expense: expense}, false},

		{"payer records settlement", bob, ledger.ActionRecordSettlement, ledger.Subject{Group: group, PayerID: "bob", ReceiverID: "alice"}, true},
		{"receiver records settlement", alice, ledger.ActionRecordSettlement, ledger.Subject{Group: group, PayerID: "bob", ReceiverID: "alice"}, true},
		{"third party records settlement", carol, ledger.ActionRecordSettlement, ledger.Subject{Group: group, PayerID: "bob", ReceiverID: "alice"}, false},
		{"admin records settlement for others", admin, ledger.ActionRecordSettlement, ledger.Subject{Group: group, PayerID: "bob", ReceiverID: "alice"}, false},

		{"receiver deletes settlement", alice, ledger.ActionDeleteSettlement, ledger.Subject{Group: group, Settlement: settlement}, true},
		{"third party deletes settlement", carol, ledger.ActionDeleteSettlement, ledger.Subject{Group: group, Settlement: settlement}, false},
		{"admin deletes settlement", admin, ledger.ActionDeleteSettlement, ledger.Subject{Group: group, Settlement: settlement}, true},
		{"admin creates user", admin, ledger.ActionCreateUser, ledger.Subject{}, true},
		{"member creates user", alice, ledger.ActionCreateUser, ledger.Subject{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ledger.Authorize(tt.actor, tt.action, tt.subject)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ledger.ErrPermissionDenied)
			}
		})
	}
}

func TestAuthorize_MissingSubject(t *testing.T) {
	bob := ledger.Actor{UserID: "bob", Role: models.RoleUser}

	assert.ErrorIs(t, ledger.Authorize(bob, ledger.ActionViewGroup, ledger.Subject{}), ledger.ErrPermissionDenied)
	assert.ErrorIs(t, ledger.Authorize(bob, ledger.ActionEditExpense, ledger.Subject{}), ledger.ErrPermissionDenied)
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "record settlement", ledger.ActionRecordSettlement.String())
	assert.Equal(t, "create user", ledger.ActionCreateUser.String())
	assert.Equal(t, "action(99)", ledger.Action(99).String())
}
