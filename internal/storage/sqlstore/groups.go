package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
)

const groupColumns = "id, name, created_by, created_at"

// CreateGroup persists a new group and its members.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			s.rebind("INSERT INTO groups (id, name, created_by, created_at) VALUES (?, ?, ?, ?)"),
			group.ID, group.Name, group.CreatedBy, group.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}

		if _, err := s.insertMembers(ctx, tx, group.ID, group.Members); err != nil {
			return err
		}
		return nil
	})
}

// insertMembers adds userIDs to the group, skipping existing members.
// joined_at is a nanosecond clock offset per position so members added in
// one call keep their order.
func (s *Store) insertMembers(ctx context.Context, q querier, groupID string, userIDs []string) (int, error) {
	base := time.Now().UnixNano()
	added := 0
	for i, userID := range userIDs {
		res, err := q.ExecContext(ctx,
			s.rebind(`INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)
			 ON CONFLICT (group_id, user_id) DO NOTHING`),
			groupID, userID, base+int64(i),
		)
		if err != nil {
			return added, fmt.Errorf("failed to insert group member: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return added, fmt.Errorf("failed to count inserted members: %w", err)
		}
		added += int(n)
	}
	return added, nil
}

// GetGroup retrieves a group by ID, including its members.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.getGroup(ctx, s.db, groupID)
}

func (s *Store) getGroup(ctx context.Context, q querier, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := q.QueryRowContext(ctx,
		s.rebind("SELECT "+groupColumns+" FROM groups WHERE id = ?"),
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrGroupNotFound, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := s.loadMembers(ctx, q, []string{groupID})
	if err != nil {
		return nil, err
	}
	group.Members = members[groupID]

	return group, nil
}

// loadMembers returns member IDs per group in join order.
func (s *Store) loadMembers(ctx context.Context, q querier, groupIDs []string) (map[string][]string, error) {
	members := make(map[string][]string, len(groupIDs))
	if len(groupIDs) == 0 {
		return members, nil
	}

	placeholders, args := inClause(groupIDs)
	rows, err := q.QueryContext(ctx,
		s.rebind(`SELECT group_id, user_id FROM group_members
		 WHERE group_id IN (`+placeholders+`) ORDER BY joined_at, user_id`),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var groupID, userID string
		if err := rows.Scan(&groupID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members[groupID] = append(members[groupID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return members, nil
}

// queryGroups runs a query selecting groupColumns and attaches members.
func (s *Store) queryGroups(ctx context.Context, query string, args ...any) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	var ids []string
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
		ids = append(ids, group.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	members, err := s.loadMembers(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	for _, group := range groups {
		group.Members = members[group.ID]
	}

	return groups, nil
}

// GetGroupsByIDs retrieves multiple groups by ID. Unknown IDs are omitted.
func (s *Store) GetGroupsByIDs(ctx context.Context, ids []string) (map[string]*models.Group, error) {
	result := make(map[string]*models.Group, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders, args := inClause(ids)
	groups, err := s.queryGroups(ctx,
		"SELECT "+groupColumns+" FROM groups WHERE id IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return nil, err
	}
	for _, group := range groups {
		result[group.ID] = group
	}
	return result, nil
}

// FindGroupByName looks up a group by its creator and exact name.
func (s *Store) FindGroupByName(ctx context.Context, createdBy, name string) (*models.Group, error) {
	groups, err := s.queryGroups(ctx,
		"SELECT "+groupColumns+" FROM groups WHERE created_by = ? AND name = ?",
		createdBy, name,
	)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, nil
	}
	return groups[0], nil
}

// ListGroupsForUser retrieves all groups the user is a member of.
func (s *Store) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.queryGroups(ctx,
		`SELECT g.id, g.name, g.created_by, g.created_at FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = ? ORDER BY g.created_at DESC, g.id`,
		userID,
	)
}

// RenameGroup changes a group's display name.
func (s *Store) RenameGroup(ctx context.Context, groupID, name string) error {
	res, err := s.db.ExecContext(ctx, s.rebind("UPDATE groups SET name = ? WHERE id = ?"), name, groupID)
	if err != nil {
		return fmt.Errorf("failed to rename group: %w", err)
	}
	return requireAffected(res, ledger.ErrGroupNotFound, groupID)
}

// DeleteGroup removes a group. Memberships, expenses, splits and
// settlements go with it through ON DELETE CASCADE.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM groups WHERE id = ?"), groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return requireAffected(res, ledger.ErrGroupNotFound, groupID)
}

// AddGroupMembers adds users to an existing group.
func (s *Store) AddGroupMembers(ctx context.Context, groupID string, userIDs []string) (int, error) {
	var added int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, s.rebind("SELECT 1 FROM groups WHERE id = ?"), groupID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ledger.ErrGroupNotFound, groupID)
		}
		if err != nil {
			return fmt.Errorf("failed to check group existence: %w", err)
		}

		added, err = s.insertMembers(ctx, tx, groupID, userIDs)
		return err
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// RemoveGroupMember removes a user from a group. Their expenses and
// settlements stay in the history. When guard is non-nil it runs against the
// group's history inside the same transaction and a non-nil result aborts
// the removal. The group row is locked first on PostgreSQL so that no
// balance-changing write lands between the guard and the delete; SQLite
// fails the commit with SQLITE_BUSY instead.
func (s *Store) RemoveGroupMember(ctx context.Context, groupID, userID string, guard func(*ledger.GroupHistory) error) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.lockGroup(ctx, tx, groupID, true); err != nil {
			return err
		}
		if guard != nil {
			h, err := s.loadGroupHistory(ctx, tx, groupID)
			if err != nil {
				return err
			}
			if err := guard(h); err != nil {
				return err
			}
		}

		res, err := tx.ExecContext(ctx,
			s.rebind("DELETE FROM group_members WHERE group_id = ? AND user_id = ?"),
			groupID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to remove group member: %w", err)
		}
		return requireAffected(res, ledger.ErrNotFound, "member "+userID)
	})
}

// lockGroup takes a row lock on a group for the rest of tx. Member removal
// takes it exclusively, balance-changing writes take it shared. It is a
// no-op on SQLite, where writers are already serialized.
func (s *Store) lockGroup(ctx context.Context, tx *sql.Tx, groupID string, exclusive bool) error {
	if s.driver != DriverPostgres {
		return nil
	}
	mode := "FOR SHARE"
	if exclusive {
		mode = "FOR UPDATE"
	}
	var id string
	err := tx.QueryRowContext(ctx, s.rebind("SELECT id FROM groups WHERE id = ? "+mode), groupID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ledger.ErrGroupNotFound, groupID)
	}
	if err != nil {
		return fmt.Errorf("failed to lock group: %w", err)
	}
	return nil
}

// lockGroupOf locks the group owning a row of table, see lockGroup.
func (s *Store) lockGroupOf(ctx context.Context, tx *sql.Tx, table, id string) error {
	if s.driver != DriverPostgres {
		return nil
	}
	var groupID string
	err := tx.QueryRowContext(ctx, s.rebind("SELECT group_id FROM "+table+" WHERE id = ?"), id).Scan(&groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find owning group: %w", err)
	}
	return s.lockGroup(ctx, tx, groupID, false)
}

// requireAffected returns notFound when res touched no rows.
func requireAffected(res sql.Result, notFound error, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", notFound, what)
	}
	return nil
}
