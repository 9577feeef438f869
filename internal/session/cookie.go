package session

import (
	"net/http"
	"time"
)

// CookieName is the cookie the browser sends the session token in.
const CookieName = "token"

// CookiePolicy holds the attributes shared by the set and clear cookies.
// Browsers only delete a cookie when the clearing Set-Cookie matches the
// original on name, path, domain and (for partitioned jars) secure/samesite.
type CookiePolicy struct {
	Secure   bool
	SameSite http.SameSite
	Domain   string
	MaxAge   time.Duration
}

// NewCookiePolicy derives attributes for a deployment. Cross-site deployments
// (SameSite=None) must be Secure or browsers drop the cookie.
func NewCookiePolicy(secure bool, sameSite http.SameSite, domain string, maxAge time.Duration) CookiePolicy {
	if sameSite == 0 || sameSite == http.SameSiteDefaultMode {
		sameSite = http.SameSiteLaxMode
	}
	if sameSite == http.SameSiteNoneMode {
		secure = true
	}
	if maxAge <= 0 {
		maxAge = DefaultTTL
	}

	return CookiePolicy{Secure: secure, SameSite: sameSite, Domain: domain, MaxAge: maxAge}
}

type Carrier struct {
	policy CookiePolicy
	now    func() time.Time
}

func NewCarrier(policy CookiePolicy) *Carrier {
	return &Carrier{policy: policy, now: time.Now}
}

func (c *Carrier) Policy() CookiePolicy {
	return c.policy
}

func (c *Carrier) Attach(w http.ResponseWriter, token string) {
	cookie := c.base(token)
	cookie.MaxAge = int(c.policy.MaxAge / time.Second)
	cookie.Expires = c.now().Add(c.policy.MaxAge).UTC()

	http.SetCookie(w, cookie)
}

func (c *Carrier) Clear(w http.ResponseWriter) {
	cookie := c.base("")
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0).UTC()

	http.SetCookie(w, cookie)
}

// Extract returns the token, or false when the cookie is missing or empty.
func (c *Carrier) Extract(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	return cookie.Value, true
}

func (c *Carrier) base(value string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Domain:   c.policy.Domain,
		HttpOnly: true,
		Secure:   c.policy.Secure,
		SameSite: c.policy.SameSite,
	}
}
