// Package authz holds the request-authorization pipeline: resolving the
// caller's identity from a bearer token, the path level role gate and the
// per-post ownership gate. Every gate is a pure function of its inputs and
// returns a Decision; translating a Deny into an HTTP response is left to the
// caller.
package authz

import "net/http"

// Decision is the outcome of a gate. The zero value is Deny.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Allowed reports whether d is Allow.
func (d Decision) Allowed() bool { return d == Allow }

// IsSafeMethod reports whether method only reads state.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
