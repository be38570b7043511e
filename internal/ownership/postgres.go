package ownership

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/money-manager/money-manager/internal/platform/db"
	"github.com/money-manager/money-manager/internal/shared"
)

// LinkTable resolves membership through a join table keyed by resource and user.
type LinkTable struct {
	DB             db.Querier
	Resource       string
	Link           string
	ResourceColumn string
	UserColumn     string
}

// Membership implements MembershipLookup.
func (l LinkTable) Membership(ctx context.Context, resourceID, userID int64) (bool, bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1), EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		quote(l.Resource), quote(l.Link), quote(l.ResourceColumn), quote(l.UserColumn))
	var exists, member bool
	if err := l.DB.QueryRow(ctx, query, resourceID, userID).Scan(&exists, &member); err != nil {
		return false, false, fmt.Errorf("ownership: membership %s: %w", l.Resource, err)
	}
	return exists, member, nil
}

// OwnerColumn reads a nullable owner column on the resource row.
type OwnerColumn struct {
	DB     db.Querier
	Table  string
	Column string
}

// Owner implements OwnerLookup.
func (o OwnerColumn) Owner(ctx context.Context, resourceID int64) (*int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, quote(o.Column), quote(o.Table))
	var owner *int64
	if err := o.DB.QueryRow(ctx, query, resourceID).Scan(&owner); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("ownership: owner %s: %w", o.Table, err)
	}
	return owner, nil
}

// ParentColumn reads the foreign key a child row is owned through.
type ParentColumn struct {
	DB     db.Querier
	Table  string
	Column string
}

// Parent implements ParentLookup.
func (p ParentColumn) Parent(ctx context.Context, resourceID int64) (int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, quote(p.Column), quote(p.Table))
	var parent int64
	if err := p.DB.QueryRow(ctx, query, resourceID).Scan(&parent); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, fmt.Errorf("ownership: parent %s: %w", p.Table, err)
	}
	return parent, nil
}

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

var (
	_ MembershipLookup = LinkTable{}
	_ OwnerLookup      = OwnerColumn{}
	_ ParentLookup     = ParentColumn{}
)
