package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/evalforge/evalforge/internal/config"
	"github.com/evalforge/evalforge/internal/identity"
)

const callerLocalKey = "caller_context"

// AuthMiddleware verifies bearer tokens and exposes the caller identity to
// handlers. When no signing secret is configured (local development) tokens
// are not required and writes are audited as "System".
type AuthMiddleware struct {
	cfg config.JWTConfig
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(cfg config.JWTConfig) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// Handler returns the fiber handler performing token verification
func (m *AuthMiddleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.cfg.Secret == "" {
			return c.Next()
		}

		token := extractBearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "Unauthorized",
				"message": "Authorization header required",
			})
		}

		claims, err := m.verify(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "Unauthorized",
				"message": "Invalid or expired token",
			})
		}

		c.Locals(callerLocalKey, identity.NewClaimsContext(claims))
		return c.Next()
	}
}

func (m *AuthMiddleware) verify(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	var opts []jwt.ParserOption
	if m.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.cfg.Issuer))
	}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(m.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	return claims, nil
}

// GetCaller returns the verified caller context, or nil when the request
// carried no identity. Audit resolution maps nil to "System".
func GetCaller(c *fiber.Ctx) identity.CallerContext {
	cc, ok := c.Locals(callerLocalKey).(identity.CallerContext)
	if !ok {
		return nil
	}
	return cc
}

func extractBearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
