// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// UserRole is the authorization level of an account. Roles are ordered:
// user < moderator < admin.
type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

var roleRank = map[UserRole]int{
	RoleUser:      1,
	RoleModerator: 2,
	RoleAdmin:     3,
}

// IsValid reports whether r is one of the three known roles.
func (r UserRole) IsValid() bool {
	_, known := roleRank[r]
	return known
}

// AtLeast reports whether r ranks at or above target. An unknown role ranks
// below every known one.
func (r UserRole) AtLeast(target UserRole) bool {
	return roleRank[r] >= roleRank[target]
}

// # Caller Identity

// Caller is the verified identity attached to every mutating domain call.
type Caller struct {
	UserID string
	Role   UserRole
}

// CanModerate reports whether the caller may act on content they do not own.
func (c Caller) CanModerate() bool {
	return c.Role.AtLeast(RoleModerator)
}

// Owns reports whether the caller is the given user.
func (c Caller) Owns(userID string) bool {
	return c.UserID != "" && c.UserID == userID
}

// CallerFromClaims converts verified token claims into a [Caller].
func CallerFromClaims(claims *AuthClaims) Caller {
	if claims == nil {
		return Caller{}
	}
	return Caller{UserID: claims.UserID, Role: UserRole(claims.Role)}
}
