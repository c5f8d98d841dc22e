package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimsContext adapts a verified JWT claim set to the CallerContext
// capability. Claim names follow the common OIDC/AAD conventions: "idtyp"
// distinguishes app tokens, "appid"/"azp" carry the calling application,
// "email"/"preferred_username" the user email, and "oid"/"sub" the user id.
type ClaimsContext struct {
	claims jwt.MapClaims
}

// NewClaimsContext wraps verified JWT claims
func NewClaimsContext(claims jwt.MapClaims) *ClaimsContext {
	return &ClaimsContext{claims: claims}
}

func (c *ClaimsContext) stringClaim(names ...string) (string, error) {
	if c.claims == nil {
		return "", fmt.Errorf("no claims present")
	}
	for _, name := range names {
		if raw, ok := c.claims[name]; ok {
			if value, ok := raw.(string); ok && value != "" {
				return value, nil
			}
		}
	}
	return "", nil
}

// IsServicePrincipal reports whether the token was issued to an application
func (c *ClaimsContext) IsServicePrincipal() (bool, error) {
	idType, err := c.stringClaim("idtyp")
	if err != nil {
		return false, err
	}
	return idType == "app", nil
}

// HasDelegatedUserContext reports whether an app token carries a user identity
func (c *ClaimsContext) HasDelegatedUserContext() (bool, error) {
	email, err := c.stringClaim("email", "preferred_username", "upn")
	if err != nil {
		return false, err
	}
	return email != "", nil
}

// CurrentUserEmail returns the authenticated user's email, if any
func (c *ClaimsContext) CurrentUserEmail() (string, error) {
	return c.stringClaim("email", "preferred_username", "upn")
}

// CurrentUserID returns the authenticated user's id, if any
func (c *ClaimsContext) CurrentUserID() (string, error) {
	return c.stringClaim("oid", "sub")
}

// CallingApplicationName returns the calling application's name or id
func (c *ClaimsContext) CallingApplicationName() (string, error) {
	return c.stringClaim("app_displayname", "appid", "azp")
}
