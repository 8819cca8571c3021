package offer

import (
	"net/http"

	"github.com/Abraxas-365/bolsa/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("OFERTA")

// Error codes
var (
	CodeOfferNotFound           = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Oferta no encontrada")
	CodeCannotPublish           = ErrRegistry.Register("NO_PUBLICABLE", errx.TypeBusiness, http.StatusConflict, "La oferta no puede publicarse en su estado actual")
	CodeAlreadyClosed           = ErrRegistry.Register("YA_CERRADA", errx.TypeBusiness, http.StatusConflict, "La oferta ya está cerrada")
	CodeInsufficientPermissions = ErrRegistry.Register("SIN_PERMISOS", errx.TypeAuthorization, http.StatusForbidden, "No puedes gestionar ofertas de otra empresa")
)

// Helper functions
func ErrOfferNotFound() *errx.Error {
	return ErrRegistry.New(CodeOfferNotFound)
}

func ErrCannotPublish() *errx.Error {
	return ErrRegistry.New(CodeCannotPublish)
}

func ErrAlreadyClosed() *errx.Error {
	return ErrRegistry.New(CodeAlreadyClosed)
}

func ErrInsufficientPermissions() *errx.Error {
	return ErrRegistry.New(CodeInsufficientPermissions)
}
