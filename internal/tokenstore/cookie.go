package tokenstore

import (
	"net/http"
	"net/url"
	"time"
)

// CookieOptions controls the attributes of every cookie written by a CookieJar
type CookieOptions struct {
	Secure   bool
	HttpOnly bool
	Path     string
	SameSite http.SameSite
}

// DefaultCookieOptions returns the attributes the portal has always used: path=/,
// SameSite=Strict, and Secure in production
func DefaultCookieOptions(production bool) CookieOptions {
	return CookieOptions{
		Secure:   production,
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
	}
}

// CookieJar is a Medium scoped to a single HTTP exchange: it reads the cookies sent
// with the request and writes Set-Cookie headers to the response. Writes and
// deletions are remembered, so that a read later in the same exchange observes
// them.
type CookieJar struct {
	res  http.ResponseWriter
	req  *http.Request
	opts CookieOptions
	now  func() time.Time

	// pending records values written during this exchange; a nil value marks a
	// cookie that has been deleted
	pending map[string]*string
}

func NewCookieJar(res http.ResponseWriter, req *http.Request, opts CookieOptions) *CookieJar {
	if opts.Path == "" {
		opts.Path = "/"
	}
	return &CookieJar{
		res:     res,
		req:     req,
		opts:    opts,
		now:     time.Now,
		pending: make(map[string]*string),
	}
}

func (j *CookieJar) Get(name string) (string, bool) {
	if value, ok := j.pending[name]; ok {
		if value == nil {
			return "", false
		}
		return *value, true
	}
	c, err := j.req.Cookie(name)
	if err != nil {
		return "", false
	}
	return DecodeValue(c.Value), true
}

func (j *CookieJar) Set(name string, value string, ttl time.Duration) error {
	http.SetCookie(j.res, &http.Cookie{
		Name:     name,
		Value:    EncodeValue(value),
		Path:     j.opts.Path,
		Expires:  j.now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		Secure:   j.opts.Secure,
		HttpOnly: j.opts.HttpOnly,
		SameSite: j.opts.SameSite,
	})
	j.pending[name] = &value
	return nil
}

// Delete expires the named cookie. Deleting a cookie twice in the same exchange
// writes only one Set-Cookie header.
func (j *CookieJar) Delete(name string) error {
	if value, ok := j.pending[name]; ok && value == nil {
		return nil
	}
	http.SetCookie(j.res, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     j.opts.Path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   j.opts.Secure,
		HttpOnly: j.opts.HttpOnly,
		SameSite: j.opts.SameSite,
	})
	j.pending[name] = nil
	return nil
}

// EncodeValue escapes a value so that it survives as a cookie value: the identity
// record is JSON, and quotes and commas are not permitted in cookie values
func EncodeValue(value string) string {
	return url.PathEscape(value)
}

// DecodeValue reverses EncodeValue. Values that were not escaped (or were escaped
// incorrectly by some other writer) are returned as-is.
func DecodeValue(value string) string {
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return value
	}
	return decoded
}

var _ Medium = (*CookieJar)(nil)
