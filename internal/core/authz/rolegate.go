package authz

import (
	"strings"

	"github.com/quillpress/blog-api/internal/core/domain"
)

const (
	UsersPathPrefix = "/api/users/"
	PostsPathPrefix = "/api/posts/"
)

// RoleGate applies coarse path and verb rules before any object is loaded.
type RoleGate struct {
	UsersPrefix string
	PostsPrefix string
}

// DefaultRoleGate guards the /api/users/ and /api/posts/ trees.
var DefaultRoleGate = RoleGate{UsersPrefix: UsersPathPrefix, PostsPrefix: PostsPathPrefix}

// Decide evaluates, in order:
//  1. user management requires an authenticated admin;
//  2. on posts, safe methods pass, anonymous callers pass (the handler
//     demands authentication), viewers and role-less users are denied;
//  3. anything else passes.
func (g RoleGate) Decide(p domain.Principal, path, method string) Decision {
	if underPrefix(path, g.UsersPrefix) {
		if !p.IsAdmin() {
			return Deny
		}
		return Allow
	}

	if underPrefix(path, g.PostsPrefix) {
		switch {
		case IsSafeMethod(method):
			return Allow
		case !p.Authenticated:
			return Allow
		case p.Role == domain.RoleAdmin, p.Role == domain.RoleEditor:
			return Allow
		default:
			return Deny
		}
	}

	return Allow
}

// underPrefix matches prefix itself, anything below it, and prefix without
// its trailing slash.
func underPrefix(path, prefix string) bool {
	if prefix == "" {
		return false
	}
	return strings.HasPrefix(path, prefix) || path == strings.TrimSuffix(prefix, "/")
}
