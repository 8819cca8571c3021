package httpx

import (
	"errors"

	"github.com/Abraxas-365/bolsa/pkg/errx"
	"github.com/Abraxas-365/bolsa/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler converts handler errors to standard HTTP responses
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Fiber errors, e.g. 404 route not found or 413 body too large
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
			"code":  fe.Code,
		})
	}

	if e, ok := errx.As(err); ok {
		if e.Type == errx.TypeInternal || e.Type == errx.TypeExternal {
			logx.Errorf("%s %s failed: %v", c.Method(), c.Path(), e)
		}
		return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
	}

	logx.Errorf("Internal Server Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"type":    errx.TypeInternal,
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
	})
}
