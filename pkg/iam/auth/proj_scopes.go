package auth

import (
	"strings"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
)

// ============================================================================
// DOMAIN-SPECIFIC SCOPES - Job board
// ============================================================================

const (
	ScopeAll = "*"

	// Offer scopes
	ScopeOffersAll     = "offers:*"
	ScopeOffersRead    = "offers:read"
	ScopeOffersWrite   = "offers:write"
	ScopeOffersPublish = "offers:publish" // Publish/close offers

	// Application scopes
	ScopeApplicationsAll    = "applications:*"
	ScopeApplicationsRead   = "applications:read"
	ScopeApplicationsApply  = "applications:apply"  // Candidate applies / withdraws
	ScopeApplicationsReview = "applications:review" // Move through the pipeline
	ScopeApplicationsDelete = "applications:delete"

	// Document scopes
	ScopeDocumentsAll    = "documents:*"
	ScopeDocumentsUpload = "documents:upload"
	ScopeDocumentsReview = "documents:review"

	// Candidate profile scopes
	ScopeProfileRead  = "profile:read"
	ScopeProfileWrite = "profile:write"

	// Billing scopes
	ScopeBillingRead = "billing:read"
)

// RoleScopes is the grant table used when a token carries no explicit scopes
var RoleScopes = map[kernel.Role][]string{
	kernel.RoleAdmin: {ScopeAll},
	kernel.RoleRecruiter: {
		ScopeOffersAll,
		ScopeApplicationsRead,
		ScopeApplicationsReview,
		ScopeDocumentsReview,
		ScopeBillingRead,
	},
	kernel.RoleCandidate: {
		ScopeOffersRead,
		ScopeApplicationsRead,
		ScopeApplicationsApply,
		ScopeDocumentsUpload,
		ScopeProfileRead,
		ScopeProfileWrite,
	},
}

// ScopesForRole returns a copy of the default grants for role
func ScopesForRole(role kernel.Role) []string {
	return append([]string(nil), RoleScopes[role]...)
}

// MatchScope reports whether granted covers required. "*" covers everything and
// "resource:*" covers every action on resource.
func MatchScope(granted, required string) bool {
	if granted == ScopeAll || granted == required {
		return true
	}
	if prefix, ok := strings.CutSuffix(granted, ":*"); ok {
		return strings.HasPrefix(required, prefix+":")
	}
	return false
}
