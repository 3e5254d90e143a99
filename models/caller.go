package models

// Caller is the authenticated identity behind a request, as supplied by the
// session provider. Every service operation takes one explicitly.
type Caller struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// Authenticated reports whether the caller carries an identity at all
func (c Caller) Authenticated() bool {
	return c.UserID != ""
}

// IsAdmin reports whether the caller holds the administrator capability
func (c Caller) IsAdmin() bool {
	return c.Authenticated() && c.Role == RoleAdmin
}

// Owns reports whether the caller is the given user
func (c Caller) Owns(userID string) bool {
	return c.Authenticated() && c.UserID == userID
}
