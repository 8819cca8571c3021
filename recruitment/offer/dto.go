package offer

import "github.com/Abraxas-365/bolsa/pkg/kernel"

// CreateOfferRequest - body of POST /api/offers
type CreateOfferRequest struct {
	Title       kernel.OfferTitle       `json:"title" validate:"required,min=3,max=200"`
	Description kernel.OfferDescription `json:"description" validate:"required,max=10000"`
	Location    kernel.Location         `json:"location" validate:"required,max=120"`
}

// Actor - who is operating on offers
type Actor struct {
	UserID    kernel.UserID
	CompanyID kernel.CompanyID
	Role      kernel.Role
}

// CanManage reports whether actor may change the given offer
func (a Actor) CanManage(o *Offer) bool {
	if a.Role == kernel.RoleAdmin {
		return true
	}
	return a.Role == kernel.RoleRecruiter && o.OwnedBy(a.CompanyID)
}
