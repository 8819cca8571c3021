package auth

import (
	"slices"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

const authContextKey = "auth_context"

// AuthContext is the authenticated principal attached to a request
type AuthContext struct {
	UserID   *kernel.UserID
	TenantID kernel.CompanyID
	Role     kernel.Role
	Email    kernel.Email
	Scopes   []string
}

// NewAuthContext builds a principal from validated claims, falling back to
// the role's default grants when the token carries no scopes
func NewAuthContext(claims *Claims) *AuthContext {
	uid := kernel.UserID(claims.UserID)
	role := kernel.Role(claims.Role)
	scopes := claims.Scopes
	if len(scopes) == 0 {
		scopes = ScopesForRole(role)
	}
	return &AuthContext{
		UserID:   &uid,
		TenantID: kernel.CompanyID(claims.CompanyID),
		Role:     role,
		Email:    kernel.Email(claims.Email),
		Scopes:   scopes,
	}
}

func (a *AuthContext) HasScope(scope string) bool {
	return slices.ContainsFunc(a.Scopes, func(granted string) bool {
		return MatchScope(granted, scope)
	})
}

func (a *AuthContext) HasAnyScope(scopes ...string) bool {
	return slices.ContainsFunc(scopes, a.HasScope)
}

// CandidateID is the candidate identity of a CANDIDATO principal; candidates
// share their user id
func (a *AuthContext) CandidateID() kernel.CandidateID {
	if a.UserID == nil {
		return ""
	}
	return kernel.CandidateID(*a.UserID)
}

func SetAuthContext(c *fiber.Ctx, ac *AuthContext) {
	c.Locals(authContextKey, ac)
}

func GetAuthContext(c *fiber.Ctx) (*AuthContext, bool) {
	ac, ok := c.Locals(authContextKey).(*AuthContext)
	return ac, ok && ac != nil && ac.UserID != nil
}
