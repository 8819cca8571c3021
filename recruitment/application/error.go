package application

import (
	"net/http"

	"github.com/Abraxas-365/bolsa/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("POSTULACION")

// StatusRegistry holds transition-rule rejections, surfaced as ESTADO_*
var StatusRegistry = errx.NewRegistry("ESTADO")

// Error codes
var (
	CodeApplicationNotFound     = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Postulación no encontrada")
	CodeApplicationBlocked      = ErrRegistry.Register("BLOQUEADA", errx.TypeConflict, http.StatusConflict, "La postulación ya fue finalizada y no admite más cambios")
	CodeInsufficientPermissions = ErrRegistry.Register("SIN_PERMISOS", errx.TypeAuthorization, http.StatusForbidden, "No tienes permisos para gestionar esta postulación")
	CodeNotOwner                = ErrRegistry.Register("NO_PROPIETARIO", errx.TypeAuthorization, http.StatusForbidden, "La postulación pertenece a otro candidato")
	CodeWithdrawReserved        = ErrRegistry.Register("RETIRO_RESERVADO", errx.TypeAuthorization, http.StatusForbidden, "Solo el candidato puede retirar su postulación")
	CodeOfferNotPublished       = ErrRegistry.Register("OFERTA_NO_PUBLICADA", errx.TypeAuthorization, http.StatusForbidden, "La oferta no está publicada")

	CodeStatusNotAllowed = StatusRegistry.Register("NO_PERMITIDO", errx.TypeConflict, http.StatusConflict, "No se puede retroceder a un estado anterior")
	CodeInvalidStatus    = StatusRegistry.Register("INVALIDO", errx.TypeValidation, http.StatusBadRequest, "Estado desconocido")
)

// Codes outside any prefix
var plainRegistry = errx.NewRegistry("")

var (
	CodeAlreadyApplied     = plainRegistry.Register("YA_POSTULADO", errx.TypeConflict, http.StatusConflict, "Ya postulaste a esta oferta")
	CodeIncompleteProfile  = plainRegistry.Register("PERFIL_INCOMPLETO", errx.TypeValidation, http.StatusBadRequest, "Completa tu perfil (CV, teléfono y ubicación) antes de postular")
	CodeConcurrentConflict = plainRegistry.Register("CONFLICTO_CONCURRENTE", errx.TypeConflict, http.StatusConflict, "La postulación fue modificada por otra persona, recarga e intenta de nuevo")
)

// Helper functions
func ErrApplicationNotFound() *errx.Error {
	return ErrRegistry.New(CodeApplicationNotFound)
}

func ErrApplicationBlocked() *errx.Error {
	return ErrRegistry.New(CodeApplicationBlocked)
}

func ErrInsufficientPermissions() *errx.Error {
	return ErrRegistry.New(CodeInsufficientPermissions)
}

func ErrNotOwner() *errx.Error {
	return ErrRegistry.New(CodeNotOwner)
}

func ErrWithdrawReserved() *errx.Error {
	return ErrRegistry.New(CodeWithdrawReserved)
}

func ErrOfferNotPublished() *errx.Error {
	return ErrRegistry.New(CodeOfferNotPublished)
}

func ErrStatusNotAllowed() *errx.Error {
	return StatusRegistry.New(CodeStatusNotAllowed)
}

func ErrInvalidStatus() *errx.Error {
	return StatusRegistry.New(CodeInvalidStatus)
}

func ErrAlreadyApplied() *errx.Error {
	return plainRegistry.New(CodeAlreadyApplied)
}

func ErrIncompleteProfile() *errx.Error {
	return plainRegistry.New(CodeIncompleteProfile)
}

func ErrConcurrentConflict() *errx.Error {
	return plainRegistry.New(CodeConcurrentConflict)
}
