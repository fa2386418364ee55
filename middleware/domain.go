package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DomainPolicy lists the hostnames the application may be served from. Anything
// else is sent to the canonical host.
type DomainPolicy struct {
	CanonicalHost string
	PrivatePrefix string
	Scheme        string
}

var loopbackHosts = map[string]bool{
	"localhost": true,
	"127.0.0.1": true,
	"::1":       true,
}

func hostname(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.Trim(host, "[]"), ".")
	return strings.ToLower(host)
}

func (p DomainPolicy) Allowed(host string) bool {
	name := hostname(host)
	if loopbackHosts[name] {
		return true
	}
	// só endereços IP literais; um nome DNS pode começar com "192.168."
	if p.PrivatePrefix != "" && net.ParseIP(name) != nil && strings.HasPrefix(name, p.PrivatePrefix) {
		return true
	}
	canonical := strings.ToLower(p.CanonicalHost)
	return name == canonical || name == "www."+canonical
}

// RedirectURL returns where r must be sent, keeping path and query. The fragment
// never reaches the server; browsers carry it over on redirects.
func (p DomainPolicy) RedirectURL(r *http.Request) (string, bool) {
	if p.CanonicalHost == "" || p.Allowed(r.Host) {
		return "", false
	}
	scheme := p.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + p.CanonicalHost + r.URL.RequestURI(), true
}

func DomainEnforcement(policy DomainPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		target, redirect := policy.RedirectURL(c.Request)
		if !redirect {
			c.Next()
			return
		}
		code := http.StatusPermanentRedirect
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			code = http.StatusMovedPermanently
		}
		c.Redirect(code, target)
		c.Abort()
	}
}
