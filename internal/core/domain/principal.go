package domain

// Principal is the resolved identity behind a single request. The zero value
// is the anonymous principal.
type Principal struct {
	UserID        string
	Role          Role
	Authenticated bool
}

// Anonymous returns the principal used when no identity could be established.
func Anonymous() Principal {
	return Principal{Role: RoleNone}
}

// Authenticate builds the principal for a verified user.
func Authenticate(userID string, role Role) Principal {
	return Principal{UserID: userID, Role: ParseRole(string(role)), Authenticated: true}
}

func (p Principal) IsAdmin() bool  { return p.Authenticated && p.Role == RoleAdmin }
func (p Principal) IsEditor() bool { return p.Authenticated && p.Role == RoleEditor }
func (p Principal) IsViewer() bool { return p.Authenticated && p.Role == RoleViewer }
