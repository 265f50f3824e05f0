package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

type Role string

// Roles
const (
	RoleNone       Role = ""
	RoleStudent    Role = "student"
	RoleSupervisor Role = "supervisor"
	RoleCommittee  Role = "committee"
	RoleAdmin      Role = "admin"
)

var (
	AllRoles     = []Role{RoleStudent, RoleSupervisor, RoleCommittee, RoleAdmin}
	FacultyRoles = []Role{RoleSupervisor, RoleCommittee, RoleAdmin}

	// aliases used by the backend for the same roles
	roleAliases = map[string]Role{
		"faculty":       RoleSupervisor,
		"fyp_committee": RoleCommittee,
	}
)

// ParseRole maps the backend's role name (case-insensitive) to a Role.
// Unknown names map to RoleNone.
func ParseRole(s string) Role {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range AllRoles {
		if string(r) == s {
			return r
		}
	}
	return roleAliases[s]
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "decoding role")
	}
	if s == nil {
		*r = RoleNone
		return nil
	}
	*r = ParseRole(*s)
	return nil
}

// LoginRoute is the login page for role. RoleNone goes to the generic login page.
func LoginRoute(role Role) string {
	if role == RoleNone {
		return "/login"
	}
	return "/" + string(role) + "/login"
}

// User is the session as reported by the backend's /auth/me.
type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	Authenticated bool   `json:"authenticated"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	var raw struct {
		alias
		ID            interface{} `json:"id"`
		Authenticated *bool       `json:"authenticated"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decoding user")
	}
	*u = User(raw.alias)
	switch id := raw.ID.(type) {
	case nil:
	case string:
		u.ID = id
	default:
		u.ID = fmt.Sprint(id)
	}
	// the backend omits the flag when the session is valid
	u.Authenticated = raw.Authenticated == nil || *raw.Authenticated
	return nil
}

func (u User) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// RedirectError sends the caller to a login page.
type RedirectError struct {
	To string
}

func (e *RedirectError) Error() string {
	return "redirect to " + e.To
}

// Guard checks that u is authenticated and holds one of required (any role if none given).
// On failure it returns a *RedirectError to the login route of the first required role.
// The backend re-validates every call; this only spares a round trip.
func Guard(u User, required ...Role) error {
	to := RoleNone
	if len(required) > 0 {
		to = required[0]
	}
	if !u.Authenticated || u.Role == RoleNone {
		return &RedirectError{To: LoginRoute(to)}
	}
	if len(required) > 0 && !u.HasAnyRole(required...) {
		return &RedirectError{To: LoginRoute(to)}
	}
	return nil
}

type cookieKey struct{}

// ContextWithCookie attaches the caller's backend session cookie to ctx.
func ContextWithCookie(ctx context.Context, c *http.Cookie) context.Context {
	return context.WithValue(ctx, cookieKey{}, c)
}

// CookieFromContext returns the session cookie set by ContextWithCookie, or nil.
func CookieFromContext(ctx context.Context) *http.Cookie {
	c, _ := ctx.Value(cookieKey{}).(*http.Cookie)
	return c
}
