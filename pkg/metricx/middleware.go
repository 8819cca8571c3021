package metricx

import (
	"errors"
	"strconv"
	"time"

	"github.com/Abraxas-365/bolsa/pkg/errx"
	"github.com/gofiber/fiber/v2"
)

// Middleware records request latency labelled by the matched route pattern.
// Handler errors are labelled with the status the error handler will write.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		HTTPRequestDuration.
			WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(responseStatus(c, err))).
			Observe(time.Since(start).Seconds())
		return err
	}
}

func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	if e, ok := errx.As(err); ok && e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return fiber.StatusInternalServerError
}
