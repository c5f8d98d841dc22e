// Package identity derives the audit-identity string stamped into
// createdBy/lastUpdatedBy fields from the authenticated caller context.
package identity

import "strings"

// SystemIdentity is recorded when no usable caller identity can be derived.
const SystemIdentity = "System"

// CallerContext exposes the authenticated caller to the resolver. Every
// method may fail; the resolver treats any failure as an absent identity.
type CallerContext interface {
	IsServicePrincipal() (bool, error)
	HasDelegatedUserContext() (bool, error)
	CurrentUserEmail() (string, error)
	CurrentUserID() (string, error)
	CallingApplicationName() (string, error)
}

// Resolver maps a CallerContext to a single audit-identity string.
type Resolver struct{}

// NewResolver creates a caller identity resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve derives the audit identity. Service principals are identified by
// their calling application name, users by email then user id. Any context
// failure, panic, or unusable value falls back to "System".
func (r *Resolver) Resolve(cc CallerContext) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			out = SystemIdentity
		}
	}()

	if cc == nil {
		return SystemIdentity
	}

	servicePrincipal, err := cc.IsServicePrincipal()
	if err != nil {
		return SystemIdentity
	}

	if servicePrincipal {
		appName, err := cc.CallingApplicationName()
		if err != nil || !usable(appName) {
			return SystemIdentity
		}
		return appName
	}

	email, err := cc.CurrentUserEmail()
	if err != nil {
		return SystemIdentity
	}
	if usable(email) {
		return email
	}

	userID, err := cc.CurrentUserID()
	if err != nil || !usable(userID) {
		return SystemIdentity
	}
	return userID
}

func usable(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed != "" && !strings.EqualFold(trimmed, "unknown")
}
