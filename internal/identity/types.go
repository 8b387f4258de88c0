package identity

const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// PrimaryRole is the single role used to decide which area of the portal a caller
// belongs in, when they hold more than one role
type PrimaryRole string

const (
	PrimaryRoleNone  PrimaryRole = ""
	PrimaryRoleAdmin PrimaryRole = "admin"
	PrimaryRoleUser  PrimaryRole = "user"
)

// Credentials is the result of a successful login exchange with the backend's
// identity endpoint
type Credentials struct {
	UserId       int64    `json:"userId"`
	Username     string   `json:"username"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	Roles        []string `json:"roles"`
}

// User is the denormalized identity record we cache alongside the tokens, so that
// routing decisions can be made without a round-trip to the backend
type User struct {
	Id       int64    `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// User returns the identity blob described by a set of credentials
func (c *Credentials) User() User {
	roles := make([]string, len(c.Roles))
	copy(roles, c.Roles)
	return User{
		Id:       c.UserId,
		Username: c.Username,
		Roles:    roles,
	}
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) PrimaryRole() PrimaryRole {
	return ResolvePrimaryRole(u.Roles)
}
