package identity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_PrimaryRole_HomePath(t *testing.T) {
	assert.Equal(t, "/admin", PrimaryRoleAdmin.HomePath())
	assert.Equal(t, "/user", PrimaryRoleUser.HomePath())
	assert.Equal(t, "/user", PrimaryRoleNone.HomePath())
}

func Test_PrimaryRole_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A PrimaryRole `json:"a"`
		B PrimaryRole `json:"b"`
	}{PrimaryRoleAdmin, PrimaryRoleNone})
	assert.NoError(t, err)
	assert.Equal(t, `{"a":"admin","b":null}`, string(b))
}
