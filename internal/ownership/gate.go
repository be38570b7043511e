// Package ownership decides whether an authenticated user may act on a
// resource. Every outcome is nil, shared.ErrNotFound or shared.ErrForbidden
// (or a storage error); handlers never derive entitlement themselves.
package ownership

import (
	"context"
	"errors"
	"fmt"

	"github.com/money-manager/money-manager/internal/shared"
)

// Action separates reads from writes for resources with shared rows.
type Action int

const (
	Read Action = iota
	Write
)

func (a Action) String() string {
	if a == Write {
		return "write"
	}
	return "read"
}

// Strategy resolves entitlement for one resource type.
type Strategy interface {
	Authorize(ctx context.Context, userID, resourceID int64, action Action) error
}

// Check is one entitlement requirement.
type Check struct {
	Name       string
	Strategy   Strategy
	ResourceID int64
	Action     Action
}

// Require evaluates checks in order against the same user and returns the
// first failure, wrapped with the check name.
func Require(ctx context.Context, userID int64, checks ...Check) error {
	for _, c := range checks {
		if err := c.Strategy.Authorize(ctx, userID, c.ResourceID, c.Action); err != nil {
			return fmt.Errorf("%s %d: %w", c.Name, c.ResourceID, err)
		}
	}
	return nil
}

// MembershipLookup reports whether a resource exists and whether the user
// holds an ownership record for it.
type MembershipLookup interface {
	Membership(ctx context.Context, resourceID, userID int64) (exists, member bool, err error)
}

// OwnerLookup returns the owner of a resource, nil for shared rows, or
// shared.ErrNotFound.
type OwnerLookup interface {
	Owner(ctx context.Context, resourceID int64) (*int64, error)
}

// ParentLookup returns the id of the resource a child is owned through,
// or shared.ErrNotFound.
type ParentLookup interface {
	Parent(ctx context.Context, resourceID int64) (int64, error)
}

type joinTable struct {
	lookup MembershipLookup
}

// JoinTable grants access to users linked through an ownership record.
func JoinTable(lookup MembershipLookup) Strategy {
	return joinTable{lookup: lookup}
}

func (s joinTable) Authorize(ctx context.Context, userID, resourceID int64, _ Action) error {
	exists, member, err := s.lookup.Membership(ctx, resourceID, userID)
	switch {
	case err != nil:
		return err
	case !exists:
		return shared.ErrNotFound
	case !member:
		return shared.ErrForbidden
	}
	return nil
}

// SharedPolicy states what any user may do with a row that has no owner.
type SharedPolicy struct {
	Readable bool
}

type nullableOwner struct {
	lookup OwnerLookup
	policy SharedPolicy
}

// NullableOwner grants the owner full access. Rows without owner follow
// policy for reads and are never writable.
func NullableOwner(lookup OwnerLookup, policy SharedPolicy) Strategy {
	return nullableOwner{lookup: lookup, policy: policy}
}

func (s nullableOwner) Authorize(ctx context.Context, userID, resourceID int64, action Action) error {
	owner, err := s.lookup.Owner(ctx, resourceID)
	if err != nil {
		return err
	}
	if owner == nil {
		if action == Read && s.policy.Readable {
			return nil
		}
		return shared.ErrForbidden
	}
	if *owner != userID {
		return shared.ErrForbidden
	}
	return nil
}

type through struct {
	parent   ParentLookup
	strategy Strategy
}

// Through authorizes a child by authorizing its parent. A parent that
// exists as a reference but fails its own check is Forbidden, never NotFound.
func Through(parent ParentLookup, strategy Strategy) Strategy {
	return through{parent: parent, strategy: strategy}
}

func (s through) Authorize(ctx context.Context, userID, resourceID int64, action Action) error {
	parentID, err := s.parent.Parent(ctx, resourceID)
	if err != nil {
		return err
	}
	if err := s.strategy.Authorize(ctx, userID, parentID, action); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrForbidden
		}
		return err
	}
	return nil
}
