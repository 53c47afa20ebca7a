package models

// Event kinds recorded in the audit log.
const (
	EventGroupCreated      = "group.created"
	EventGroupRenamed      = "group.renamed"
	EventGroupDeleted      = "group.deleted"
	EventMemberAdded       = "member.added"
	EventMemberRemoved     = "member.removed"
	EventExpenseCreated    = "expense.created"
	EventExpenseUpdated    = "expense.updated"
	EventExpenseDeleted    = "expense.deleted"
	EventSettlementCreated = "settlement.created"
	EventSettlementDeleted = "settlement.deleted"
)

// Event is an audit record of one mutation. Events outlive the rows they
// describe, so GroupID is kept even after the group is deleted.
type Event struct {
	ID        string
	GroupID   string
	ActorID   string
	Kind      string
	SubjectID string
	Summary   string
	CreatedAt int64
}
