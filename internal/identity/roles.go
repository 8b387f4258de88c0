package identity

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedUser is returned when a serialized identity record can not be parsed
// into a User with a list of roles
var ErrMalformedUser = errors.New("malformed user data")

// ResolvePrimaryRole picks the role that governs routing: admin takes precedence
// over user, and a caller with neither has no primary role
func ResolvePrimaryRole(roles []string) PrimaryRole {
	hasUser := false
	for _, role := range roles {
		switch role {
		case RoleAdmin:
			return PrimaryRoleAdmin
		case RoleUser:
			hasUser = true
		}
	}
	if hasUser {
		return PrimaryRoleUser
	}
	return PrimaryRoleNone
}

// ParseUser decodes the JSON identity record stored in the user-data cookie. The
// record must be a JSON object with a roles array; anything else is treated as a
// corrupted session. Keys are matched exactly, so "ROLES" is not a roles array.
func ParseUser(data string) (*User, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedUser, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformedUser)
	}

	var u User
	var roles *[]string
	for key, dst := range map[string]any{"id": &u.Id, "username": &u.Username, "roles": &roles} {
		value, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, dst); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedUser, key, err)
		}
	}
	if roles == nil {
		return nil, fmt.Errorf("%w: missing roles", ErrMalformedUser)
	}
	u.Roles = *roles
	return &u, nil
}

// FormatUser serializes an identity record in the form that ParseUser accepts
func FormatUser(u User) (string, error) {
	if u.Roles == nil {
		u.Roles = []string{}
	}
	b, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
