package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the response header carrying the request id.
const Header = "X-Ray-ID"

// LocalsKey is where the id is stored on the fiber context.
const LocalsKey = "rayid"

// New returns middleware that tags every request with a ray id. An incoming
// X-Ray-ID header is kept so callers can correlate their own logs.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalsKey, id)
		c.Set(Header, id)
		return c.Next()
	}
}

// FromCtx returns the request's ray id, or "" outside the middleware.
func FromCtx(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalsKey).(string)
	return id
}
