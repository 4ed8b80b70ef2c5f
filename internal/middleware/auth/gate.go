// Package auth implements the per-request authorization gate: an
// ordered table of path prefixes, each with the set of roles allowed
// through. Everything off the table is public.
package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/recyclemart/ewaste-market/internal/logging"
	"github.com/recyclemart/ewaste-market/internal/tokens"
)

const (
	loginURL        = "/auth"
	unauthorizedURL = "/unauthorized"
)

// Rule maps a path prefix to the roles allowed through it.
type Rule struct {
	Prefix string
	Roles  []string
}

// DefaultRules mirrors the protected surface of the marketplace.
// Order matters: the first matching prefix wins.
func DefaultRules() []Rule {
	return []Rule{
		{Prefix: "/dashboard/admin", Roles: []string{"admin"}},
		{Prefix: "/dashboard/user", Roles: []string{"user"}},
		{Prefix: "/coupon", Roles: []string{"admin"}},
		{Prefix: "/estimate", Roles: []string{"user", "admin"}},
		{Prefix: "/profile", Roles: []string{"user", "admin"}},
		{Prefix: "/sell", Roles: []string{"user", "admin"}},
	}
}

type compiledRule struct {
	prefix string
	roles  map[string]struct{}
}

type Gate struct {
	secret []byte
	rules  []compiledRule
}

func NewGate(secret []byte, rules []Rule) *Gate {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		roles := make(map[string]struct{}, len(r.Roles))
		for _, role := range r.Roles {
			roles[role] = struct{}{}
		}
		compiled = append(compiled, compiledRule{prefix: r.Prefix, roles: roles})
	}
	return &Gate{secret: secret, rules: compiled}
}

// Middleware evaluates every request statelessly. Denials are always
// redirects: to the login page when the token is missing or bad, to
// the unauthorized page when the role does not fit.
func (g *Gate) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path

		var matched *compiledRule
		for i := range g.rules {
			if strings.HasPrefix(path, g.rules[i].prefix) {
				matched = &g.rules[i]
				break
			}
		}
		if matched == nil {
			return next(c)
		}

		token := ExtractToken(c)
		if token == "" {
			return c.Redirect(http.StatusTemporaryRedirect, loginURL)
		}

		claims, err := tokens.Parse(token, g.secret)
		if err != nil {
			logging.FromContext(c.Request().Context()).
				Warn("gate denied", "path", path, "reason", "token verification failed")
			return c.Redirect(http.StatusTemporaryRedirect, loginURL)
		}

		if _, ok := matched.roles[claims.Role]; !ok {
			return c.Redirect(http.StatusTemporaryRedirect, unauthorizedURL)
		}

		setUserContext(c, claims)
		return next(c)
	}
}

// RequireAuth protects API routes outside the prefix table. It
// answers 401 instead of redirecting.
func (g *Gate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := ExtractToken(c)
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
		}
		claims, err := tokens.Parse(token, g.secret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		setUserContext(c, claims)
		return next(c)
	}
}

// ExtractToken prefers the Authorization header and falls back to the
// accessToken cookie.
func ExtractToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(tokens.CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set("user_id", claims.Subject)
	c.Set("email", claims.Email)
	c.Set("role", claims.Role)
}
