package candidate

import (
	"net/http"

	"github.com/Abraxas-365/bolsa/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("CANDIDATO")

// Error codes
var (
	CodeCandidateNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Candidato no encontrado")
	CodeInvalidPhone      = ErrRegistry.Register("TELEFONO_INVALIDO", errx.TypeValidation, http.StatusBadRequest, "Teléfono inválido")
	CodeNotACandidate     = ErrRegistry.Register("SIN_PERFIL", errx.TypeAuthorization, http.StatusForbidden, "Solo los candidatos tienen perfil")
)

// Helper functions
func ErrCandidateNotFound() *errx.Error {
	return ErrRegistry.New(CodeCandidateNotFound)
}

func ErrInvalidPhone() *errx.Error {
	return ErrRegistry.New(CodeInvalidPhone)
}

func ErrNotACandidate() *errx.Error {
	return ErrRegistry.New(CodeNotACandidate)
}
