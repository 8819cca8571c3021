package kernel

import (
	"net/mail"
	"strings"
)

type OfferTitle string

type OfferDescription string

type Location string

type FirstName string

type LastName string

type BucketURL string

type Email string

// IsValid checks the address parses as a single RFC 5322 mailbox
func (e Email) IsValid() bool {
	addr, err := mail.ParseAddress(string(e))
	return err == nil && addr.Address == string(e)
}

func (e Email) String() string { return string(e) }

type Phone string

// IsValid accepts an optional leading '+' followed by 7 to 15 digits,
// ignoring spaces and dashes
func (p Phone) IsValid() bool {
	s := strings.NewReplacer(" ", "", "-", "").Replace(string(p))
	s = strings.TrimPrefix(s, "+")
	if len(s) < 7 || len(s) > 15 {
		return false
	}
	return isNumeric(s)
}

// Role is the platform role carried in access tokens
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleRecruiter Role = "RECLUTADOR"
	RoleCandidate Role = "CANDIDATO"
	RoleUndefined Role = ""
)

// CanManageApplications reports whether the role may move applications through the pipeline
func (r Role) CanManageApplications() bool {
	return r == RoleAdmin || r == RoleRecruiter
}

func (r Role) String() string { return string(r) }

// Helper function
func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
