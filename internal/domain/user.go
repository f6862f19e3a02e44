package domain

import "errors"

var ErrUserNotFound = errors.New("user not found")

// UserRole is the role a user holds on the marketplace.
type UserRole string

const (
	RoleNone      UserRole = ""
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// CanReview reports whether the role is allowed to act on the moderation queue.
func (r UserRole) CanReview() bool {
	return r == RoleModerator || r == RoleAdmin
}
