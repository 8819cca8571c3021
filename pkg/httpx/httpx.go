// Package httpx holds request helpers shared by the fiber handlers.
package httpx

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/Abraxas-365/bolsa/pkg/errx"
	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var ErrRegistry = errx.NewRegistry("")

var CodeInvalidRequest = ErrRegistry.Register("SOLICITUD_INVALIDA", errx.TypeValidation, http.StatusBadRequest, "Datos de entrada inválidos")

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate runs struct tags and reports failing fields as details
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrInvalidRequest().WithCause(err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[jsonName(fe)] = rule
	}
	return ErrInvalidRequest().WithDetail("fields", fields)
}

// BindJSON parses the body into req and validates it
func BindJSON(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	return Validate(req)
}

// ParsePagination reads ?page= and ?page_size=
func ParsePagination(c *fiber.Ctx) kernel.PaginationOptions {
	return kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}.Normalize()
}

func jsonName(fe validator.FieldError) string {
	if name := fe.Field(); name != "" {
		return name
	}
	return fe.StructField()
}
