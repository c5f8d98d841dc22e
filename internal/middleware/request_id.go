package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/evalforge/evalforge/internal/pkg/id"
)

// RequestIDHeader is the header carrying the request correlation id.
const RequestIDHeader = "X-Request-ID"

const requestIDLocalKey = "request_id"

// RequestID propagates an inbound request id or generates a new one
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = id.NewUUID()
		}

		c.Locals(requestIDLocalKey, requestID)
		c.Set(RequestIDHeader, requestID)
		return c.Next()
	}
}

// GetRequestID returns the request id for the current request
func GetRequestID(c *fiber.Ctx) string {
	requestID, ok := c.Locals(requestIDLocalKey).(string)
	if !ok {
		return ""
	}
	return requestID
}
