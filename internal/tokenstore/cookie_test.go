package tokenstore

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CookieJar_Set(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	res := httptest.NewRecorder()
	jar := NewCookieJar(res, req, DefaultCookieOptions(true))

	err := jar.Set(UserDataName, `{"id":1,"username":"alice","roles":["ROLE_ADMIN"]}`, DefaultTTL)
	require.NoError(t, err)

	cookies := res.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, UserDataName, c.Name)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.Secure)
	assert.False(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, int(DefaultTTL.Seconds()), c.MaxAge)
	assert.Equal(t, `{"id":1,"username":"alice","roles":["ROLE_ADMIN"]}`, DecodeValue(c.Value))
}

func Test_CookieJar_insecure_outside_production(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	res := httptest.NewRecorder()
	jar := NewCookieJar(res, req, DefaultCookieOptions(false))

	require.NoError(t, jar.Set(AccessTokenName, "AT", DefaultTTL))
	cookies := res.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.False(t, cookies[0].Secure)
}

func Test_CookieJar_Get(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenName, Value: "AT"})
	req.AddCookie(&http.Cookie{Name: UserDataName, Value: EncodeValue(`{"id":1,"roles":[]}`)})
	res := httptest.NewRecorder()
	jar := NewCookieJar(res, req, DefaultCookieOptions(false))

	value, ok := jar.Get(AccessTokenName)
	assert.True(t, ok)
	assert.Equal(t, "AT", value)

	value, ok = jar.Get(UserDataName)
	assert.True(t, ok)
	assert.Equal(t, `{"id":1,"roles":[]}`, value)

	_, ok = jar.Get(RefreshTokenName)
	assert.False(t, ok)
}

func Test_CookieJar_reads_its_own_writes(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenName, Value: "old-token"})
	res := httptest.NewRecorder()
	jar := NewCookieJar(res, req, DefaultCookieOptions(false))

	require.NoError(t, jar.Set(AccessTokenName, "new-token", time.Hour))
	value, ok := jar.Get(AccessTokenName)
	assert.True(t, ok)
	assert.Equal(t, "new-token", value)

	require.NoError(t, jar.Delete(AccessTokenName))
	_, ok = jar.Get(AccessTokenName)
	assert.False(t, ok)
	require.NoError(t, jar.Delete(AccessTokenName))

	cookies := res.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, "", cookies[1].Value)
	assert.Equal(t, -1, cookies[1].MaxAge)
	assert.Equal(t, "/", cookies[1].Path)
}

func Test_Store_over_CookieJar(t *testing.T) {
	// Write credentials in one exchange...
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	res := httptest.NewRecorder()
	s := NewStore(NewCookieJar(res, req, DefaultCookieOptions(false)))
	require.NoError(t, s.Write(aliceCredentials))
	_, ok := s.Read()
	assert.True(t, ok)

	// ...and replay the resulting cookies in the next
	next := httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, c := range res.Result().Cookies() {
		next.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	s = NewStore(NewCookieJar(httptest.NewRecorder(), next, DefaultCookieOptions(false)))
	record, ok := s.Read()
	assert.True(t, ok)
	assert.Equal(t, "alice", record.User.Username)
	assert.Equal(t, "AT", record.AccessToken)
	assert.Equal(t, "RT", record.RefreshToken)
}

func Test_DecodeValue(t *testing.T) {
	assert.Equal(t, `{"a":1}`, DecodeValue(EncodeValue(`{"a":1}`)))
	assert.Equal(t, "plain", DecodeValue("plain"))
	assert.Equal(t, "100%", DecodeValue("100%"))
}
