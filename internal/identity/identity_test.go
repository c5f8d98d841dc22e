package identity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/golang-jwt/jwt/v5"
)

type stubContext struct {
	servicePrincipal bool
	delegated        bool
	email            string
	userID           string
	appName          string
	err              error
	panics           bool
}

func (s *stubContext) IsServicePrincipal() (bool, error) {
	if s.panics {
		panic("context unavailable")
	}
	return s.servicePrincipal, s.err
}

func (s *stubContext) HasDelegatedUserContext() (bool, error) { return s.delegated, s.err }
func (s *stubContext) CurrentUserEmail() (string, error)      { return s.email, s.err }
func (s *stubContext) CurrentUserID() (string, error)         { return s.userID, s.err }
func (s *stubContext) CallingApplicationName() (string, error) {
	return s.appName, s.err
}

func TestResolverFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		cc   CallerContext
		want string
	}{
		{
			name: "service principal uses application name",
			cc:   &stubContext{servicePrincipal: true, appName: "enrichment-worker"},
			want: "enrichment-worker",
		},
		{
			name: "service principal with unknown application falls back to System",
			cc:   &stubContext{servicePrincipal: true, appName: "unknown"},
			want: SystemIdentity,
		},
		{
			name: "service principal with empty application falls back to System",
			cc:   &stubContext{servicePrincipal: true},
			want: SystemIdentity,
		},
		{
			name: "user identity prefers email",
			cc:   &stubContext{email: "ana@example.com", userID: "u1"},
			want: "ana@example.com",
		},
		{
			name: "unknown email falls back to user id",
			cc:   &stubContext{email: "unknown", userID: "u1"},
			want: "u1",
		},
		{
			name: "unknown email and user id fall back to System",
			cc:   &stubContext{email: "unknown", userID: "unknown"},
			want: SystemIdentity,
		},
		{
			name: "context error falls back to System",
			cc:   &stubContext{err: errors.New("token expired")},
			want: SystemIdentity,
		},
		{
			name: "context panic falls back to System",
			cc:   &stubContext{panics: true},
			want: SystemIdentity,
		},
		{
			name: "nil context falls back to System",
			cc:   nil,
			want: SystemIdentity,
		},
	}

	resolver := NewResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.Resolve(tt.cc))
		})
	}
}

func TestClaimsContext(t *testing.T) {
	t.Run("app token", func(t *testing.T) {
		cc := NewClaimsContext(jwt.MapClaims{
			"idtyp": "app",
			"appid": "eval-scheduler",
		})

		sp, err := cc.IsServicePrincipal()
		assert.NoError(t, err)
		assert.True(t, sp)

		name, err := cc.CallingApplicationName()
		assert.NoError(t, err)
		assert.Equal(t, "eval-scheduler", name)

		assert.Equal(t, "eval-scheduler", NewResolver().Resolve(cc))
	})

	t.Run("user token", func(t *testing.T) {
		cc := NewClaimsContext(jwt.MapClaims{
			"email": "ana@example.com",
			"oid":   "u1",
		})

		sp, err := cc.IsServicePrincipal()
		assert.NoError(t, err)
		assert.False(t, sp)

		assert.Equal(t, "ana@example.com", NewResolver().Resolve(cc))
	})

	t.Run("missing claims resolve to System", func(t *testing.T) {
		cc := NewClaimsContext(jwt.MapClaims{})
		assert.Equal(t, SystemIdentity, NewResolver().Resolve(cc))
	})
}
