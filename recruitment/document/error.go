package document

import (
	"net/http"

	"github.com/Abraxas-365/bolsa/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("DOCUMENTO")

var (
	CodeRequirementNotFound = ErrRegistry.Register("REQUISITO_NO_ENCONTRADO", errx.TypeNotFound, http.StatusNotFound, "Documento requerido no encontrado")
	CodeSubmissionNotFound  = ErrRegistry.Register("NO_ENCONTRADO", errx.TypeNotFound, http.StatusNotFound, "El documento aún no fue subido")
	CodeWrongPhase          = ErrRegistry.Register("FASE_INVALIDA", errx.TypeAuthorization, http.StatusForbidden, "Los documentos solo se gestionan en la etapa de contratación")
	CodeNotOwner            = ErrRegistry.Register("NO_PROPIETARIO", errx.TypeAuthorization, http.StatusForbidden, "La postulación pertenece a otro candidato")
	CodeCannotReview        = ErrRegistry.Register("SIN_PERMISOS", errx.TypeAuthorization, http.StatusForbidden, "No tienes permisos para revisar documentos")
	CodeInvalidReview       = ErrRegistry.Register("REVISION_INVALIDA", errx.TypeValidation, http.StatusBadRequest, "La revisión debe ser APROBADO o RECHAZADO")
)

func ErrRequirementNotFound() *errx.Error {
	return ErrRegistry.New(CodeRequirementNotFound)
}

func ErrSubmissionNotFound() *errx.Error {
	return ErrRegistry.New(CodeSubmissionNotFound)
}

func ErrWrongPhase() *errx.Error {
	return ErrRegistry.New(CodeWrongPhase)
}

func ErrNotOwner() *errx.Error {
	return ErrRegistry.New(CodeNotOwner)
}

func ErrCannotReview() *errx.Error {
	return ErrRegistry.New(CodeCannotReview)
}

func ErrInvalidReview() *errx.Error {
	return ErrRegistry.New(CodeInvalidReview)
}
