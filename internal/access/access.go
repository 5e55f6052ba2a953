// Package access centralizes every authorization decision in the API.
//
// # Architecture
//
// Services call [Check] before any mutating or privileged operation instead of
// inspecting roles inline. The decision table lives in one place, is pure
// (no I/O, no context), and denies by default: an action/resource pair that
// is not explicitly granted is forbidden.
package access

import (
	"github.com/kritika-app/kritika/internal/platform/apperr"
	"github.com/kritika-app/kritika/internal/platform/sec"
)

// Action is the kind of operation an actor attempts.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource is the class of object an action targets.
type Resource string

const (
	// ResourceCatalog covers titles, categories, and genres.
	ResourceCatalog Resource = "catalog"
	// ResourceReview covers reviews attached to titles.
	ResourceReview Resource = "review"
	// ResourceComment covers comments attached to reviews.
	ResourceComment Resource = "comment"
	// ResourceAccount covers the admin-only user management surface.
	ResourceAccount Resource = "account"
	// ResourceSelf covers an account's own profile.
	ResourceSelf Resource = "self"
)

// Actor identifies the requesting principal. A nil *Actor means the request
// is anonymous.
type Actor struct {
	ID   string
	Role sec.UserRole
}

// FromClaims converts verified JWT claims into an [Actor]. A nil claims value
// (anonymous request) yields a nil Actor.
func FromClaims(claims *sec.AuthClaims) *Actor {
	if claims == nil {
		return nil
	}
	return &Actor{ID: claims.UserID, Role: sec.UserRole(claims.Role)}
}

// Check decides whether actor may perform action on a resource owned by
// ownerID. ownerID is only consulted for owned resources (reviews, comments,
// self); pass "" otherwise.
//
// # Returns
//
//   - nil when the action is allowed
//   - 401 [apperr.Unauthorized] when the action needs an identity the request lacks
//   - 403 [apperr.Forbidden] when the identity is known but insufficient
func Check(actor *Actor, action Action, resource Resource, ownerID string) error {
	switch resource {

	case ResourceCatalog:
		// The catalog is world-readable; shaping it is an admin duty.
		if action == ActionRead {
			return nil
		}
		return requireRole(actor, sec.RoleAdmin)

	case ResourceReview, ResourceComment:
		switch action {
		case ActionRead:
			return nil
		case ActionCreate:
			return requireAuthenticated(actor)
		case ActionUpdate, ActionDelete:
			return requireOwnerOrRole(actor, ownerID, sec.RoleModerator)
		}

	case ResourceAccount:
		return requireRole(actor, sec.RoleAdmin)

	case ResourceSelf:
		if err := requireAuthenticated(actor); err != nil {
			return err
		}
		if actor.ID != ownerID {
			return apperr.Forbidden("You may only manage your own profile")
		}
		return nil
	}

	return apperr.Forbidden("You do not have permission to perform this action")
}

// requireAuthenticated rejects anonymous actors.
func requireAuthenticated(actor *Actor) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}
	return nil
}

// requireRole rejects actors below the minimum role.
func requireRole(actor *Actor, minimum sec.UserRole) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.Role.AtLeast(minimum) {
		return apperr.Forbidden("You do not have permission to perform this action")
	}
	return nil
}

// requireOwnerOrRole allows the resource owner, or any actor at or above the
// given role.
func requireOwnerOrRole(actor *Actor, ownerID string, minimum sec.UserRole) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	if actor.ID == ownerID {
		return nil
	}
	if actor.Role.AtLeast(minimum) {
		return nil
	}
	return apperr.Forbidden("You may only modify your own content")
}
