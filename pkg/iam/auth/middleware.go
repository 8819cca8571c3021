package auth

import (
	"slices"
	"strings"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// UnifiedAuthMiddleware authenticates bearer tokens and enforces roles and scopes
type UnifiedAuthMiddleware struct {
	tokens TokenService
}

func NewUnifiedAuthMiddleware(tokens TokenService) *UnifiedAuthMiddleware {
	return &UnifiedAuthMiddleware{tokens: tokens}
}

// Authenticate requires a valid "Authorization: Bearer <jwt>" header
func (m *UnifiedAuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return ErrMissingToken()
		}

		claims, err := m.tokens.ValidateAccessToken(strings.TrimSpace(token))
		if err != nil {
			return err
		}

		SetAuthContext(c, NewAuthContext(claims))
		return c.Next()
	}
}

// RequireRole must run after Authenticate
func (m *UnifiedAuthMiddleware) RequireRole(roles ...kernel.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac, ok := GetAuthContext(c)
		if !ok {
			return ErrMissingToken()
		}
		if !slices.Contains(roles, ac.Role) {
			return ErrRoleNotAllowed().WithDetail("role", ac.Role.String())
		}
		return c.Next()
	}
}

// RequireScope must run after Authenticate
func (m *UnifiedAuthMiddleware) RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac, ok := GetAuthContext(c)
		if !ok {
			return ErrMissingToken()
		}
		if !ac.HasScope(scope) {
			return ErrInsufficientScope().WithDetail("required_scope", scope)
		}
		return c.Next()
	}
}
