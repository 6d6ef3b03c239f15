package authz

import (
	"net/http"

	"github.com/quillpress/blog-api/internal/core/domain"
)

// Action is what a caller wants to do with a loaded post.
type Action int

const (
	ActionRead Action = iota
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ActionForMethod maps an HTTP verb to the action it performs on a post.
// Unknown verbs count as updates.
func ActionForMethod(method string) Action {
	switch {
	case IsSafeMethod(method):
		return ActionRead
	case method == http.MethodDelete:
		return ActionDelete
	default:
		return ActionUpdate
	}
}

// OwnershipGate decides whether p may perform action on post. Reads always
// pass; admins may change any post; editors only their own.
func OwnershipGate(p domain.Principal, action Action, post *domain.Post) Decision {
	if action == ActionRead {
		return Allow
	}
	if post == nil || !p.Authenticated {
		return Deny
	}

	switch p.Role {
	case domain.RoleAdmin:
		return Allow
	case domain.RoleEditor:
		if post.OwnedBy(p.UserID) {
			return Allow
		}
		return Deny
	default:
		return Deny
	}
}
