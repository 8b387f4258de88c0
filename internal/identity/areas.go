package identity

import "encoding/json"

// Paths of the portal's login page and its two protected areas
const (
	LoginPath = "/login"
	AdminPath = "/admin"
	UserPath  = "/user"
)

// HomePath is where a caller with this primary role lands after logging in: the admin
// area for admins and the user area for everyone else
func (r PrimaryRole) HomePath() string {
	if r == PrimaryRoleAdmin {
		return AdminPath
	}
	return UserPath
}

// MarshalJSON encodes the absence of a primary role as null
func (r PrimaryRole) MarshalJSON() ([]byte, error) {
	if r == PrimaryRoleNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}
