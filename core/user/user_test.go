package user

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{in: "student", want: RoleStudent},
		{in: "Supervisor", want: RoleSupervisor},
		{in: "faculty", want: RoleSupervisor},
		{in: " fyp_committee ", want: RoleCommittee},
		{in: "ADMIN", want: RoleAdmin},
		{in: "dean", want: RoleNone},
		{in: "", want: RoleNone},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRole(tt.in))
		})
	}
}

func TestUserUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want User
	}{
		{
			name: "numeric id, flag omitted",
			raw:  `{"id": 42, "name": "Ada", "email": "ada@uni.test", "role": "faculty"}`,
			want: User{ID: "42", Name: "Ada", Email: "ada@uni.test", Role: RoleSupervisor, Authenticated: true},
		},
		{
			name: "explicitly unauthenticated",
			raw:  `{"authenticated": false, "role": null}`,
			want: User{},
		},
		{
			name: "string id",
			raw:  `{"id": "s-1", "role": "student", "authenticated": true}`,
			want: User{ID: "s-1", Role: RoleStudent, Authenticated: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got User
			if assert.NoError(t, json.Unmarshal([]byte(tt.raw), &got)) {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestGuard(t *testing.T) {
	student := User{ID: "1", Role: RoleStudent, Authenticated: true}
	admin := User{ID: "2", Role: RoleAdmin, Authenticated: true}

	tests := []struct {
		name     string
		usr      User
		required []Role
		wantTo   string
	}{
		{name: "anonymous, no role required", usr: User{}, wantTo: "/login"},
		{name: "anonymous, admin required", usr: User{}, required: []Role{RoleAdmin}, wantTo: "/admin/login"},
		{name: "expired session", usr: User{Role: RoleStudent}, required: []Role{RoleStudent}, wantTo: "/student/login"},
		{name: "wrong role", usr: student, required: []Role{RoleCommittee, RoleAdmin}, wantTo: "/committee/login"},
		{name: "any role", usr: student},
		{name: "one of", usr: admin, required: []Role{RoleCommittee, RoleAdmin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Guard(tt.usr, tt.required...)
			if tt.wantTo == "" {
				assert.NoError(t, err)
				return
			}
			var rerr *RedirectError
			if assert.True(t, errors.As(err, &rerr), "got %v", err) {
				assert.Equal(t, tt.wantTo, rerr.To)
			}
		})
	}
}

type repoStub struct {
	usr       User
	err       error
	loggedOut bool
}

func (r *repoStub) GetSessionUser(context.Context) (User, error) { return r.usr, r.err }
func (r *repoStub) Logout(context.Context) error {
	r.loggedOut = true
	return r.err
}

func TestService(t *testing.T) {
	ctx := context.Background()

	t.Run("authorize", func(t *testing.T) {
		svc := NewService(&repoStub{usr: User{Role: RoleSupervisor, Authenticated: true}})
		usr, err := svc.Authorize(ctx, RoleSupervisor)
		assert.NoError(t, err)
		assert.Equal(t, RoleSupervisor, usr.Role)

		_, err = svc.Authorize(ctx, RoleStudent)
		assert.IsType(t, &RedirectError{}, err)
	})

	t.Run("repository errors are wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		repo := &repoStub{err: boom}
		svc := NewService(repo)

		_, err := svc.Me(ctx)
		assert.Equal(t, boom, errors.Cause(err))
		assert.Equal(t, boom, errors.Cause(svc.Logout(ctx)))
		assert.True(t, repo.loggedOut)
	})
}

func TestCookieContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, CookieFromContext(ctx))

	c := &http.Cookie{Name: "JSESSIONID", Value: "abc"}
	assert.Equal(t, c, CookieFromContext(ContextWithCookie(ctx, c)))
}
