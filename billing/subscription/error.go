package subscription

import (
	"net/http"

	"github.com/Abraxas-365/bolsa/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("SUSCRIPCION")

var (
	CodeInvalidSignature = ErrRegistry.Register("FIRMA_INVALIDA", errx.TypeValidation, http.StatusBadRequest, "Firma del webhook inválida")
	CodeInvalidEvent     = ErrRegistry.Register("EVENTO_INVALIDO", errx.TypeValidation, http.StatusBadRequest, "Evento de facturación inválido")
)

var plainRegistry = errx.NewRegistry("")

var CodePlanLimit = plainRegistry.Register("LIMITE_PLAN", errx.TypeAuthorization, http.StatusForbidden, "Alcanzaste el límite de ofertas activas de tu plan")

func ErrInvalidSignature() *errx.Error {
	return ErrRegistry.New(CodeInvalidSignature)
}

func ErrInvalidEvent() *errx.Error {
	return ErrRegistry.New(CodeInvalidEvent)
}

func ErrPlanLimit() *errx.Error {
	return plainRegistry.New(CodePlanLimit)
}
