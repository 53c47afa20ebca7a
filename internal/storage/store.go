// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
)

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail and GetUserByID return nil, nil when no user matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs omits unknown IDs from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// ListUsers returns every account ordered by display name.
	ListUsers(ctx context.Context) ([]*models.User, error)

	CountUsers(ctx context.Context) (int, error)
}

// GroupStore persists groups and their memberships.
type GroupStore interface {
	// CreateGroup inserts the group and its members in one transaction.
	// Members keep the order of group.Members.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns an error wrapping ledger.ErrGroupNotFound when absent.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	GetGroupsByIDs(ctx context.Context, ids []string) (map[string]*models.Group, error)

	// FindGroupByName returns nil, nil when createdBy has no group called name.
	FindGroupByName(ctx context.Context, createdBy, name string) (*models.Group, error)

	// ListGroupsForUser returns the groups userID belongs to, newest first.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	RenameGroup(ctx context.Context, groupID, name string) error

	// DeleteGroup removes the group with its memberships, expenses, splits
	// and settlements.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddGroupMembers adds users that are not yet members and returns how
	// many were added.
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) (int, error)

	// RemoveGroupMember deletes a membership. A non-nil guard sees the
	// group's history in the same transaction and can veto the removal.
	RemoveGroupMember(ctx context.Context, groupID, userID string, guard func(*ledger.GroupHistory) error) error
}

// ExpenseStore persists expenses together with their splits.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// UpdateExpense replaces the expense header and all of its splits atomically.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense returns an error wrapping ledger.ErrNotFound when absent.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpensesByGroup returns the group's expenses, most recent first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)
}

// SettlementStore persists recorded payments.
type SettlementStore interface {
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement returns an error wrapping ledger.ErrNotFound when absent.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup returns the group's settlements, most recent first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	DeleteSettlement(ctx context.Context, settlementID string) error
}

// EventStore persists audit events.
type EventStore interface {
	SaveEvent(ctx context.Context, event models.Event) error

	// ListEventsByGroups returns up to limit events from the given groups,
	// most recent first.
	ListEventsByGroups(ctx context.Context, groupIDs []string, limit int) ([]models.Event, error)
}

// Store is the full persistence layer used by the server.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore
	SettlementStore
	EventStore
	ledger.Repository

	// Close releases any resources held by the store.
	Close() error
}
