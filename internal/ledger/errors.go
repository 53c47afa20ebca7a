package ledger

import "errors"

var (
	// ErrGroupNotFound is returned when a referenced group does not exist.
	ErrGroupNotFound = errors.New("group not found")

	// ErrNotFound is returned when a referenced expense, settlement or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidData is returned for malformed inputs such as a non-positive amount
	// or a settlement whose payer is also its receiver.
	ErrInvalidData = errors.New("invalid data")

	// ErrPermissionDenied is returned when the actor may not perform an action.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnsettled is returned when a member with an open balance would be removed.
	ErrUnsettled = errors.New("member has an unsettled balance")

	// ErrIntegrity is returned when a group's balances do not sum to zero.
	// It points at corrupt history, not at the caller's request.
	ErrIntegrity = errors.New("balance integrity violated")
)
