package domain

import "time"

// Roles carried inside issued tokens. The role is decided server-side at
// issuance time from the configured admin list; callers cannot self-declare.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an identity record in the user directory: an email bound to a
// display name and the expiry of the most recently issued token.
//
// Email is unique across the directory. DateAdded is set on creation and
// never changes; Name and TimeToLive are overwritten on every re-registration
// or login.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	TimeToLive string    `json:"time_to_live"`
	DateAdded  time.Time `json:"date_added"`
}
