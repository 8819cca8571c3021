// Package upload validates user files before they reach blob storage.
package upload

import (
	"bytes"
	"mime"
	"net/http"
	"strings"

	"github.com/Abraxas-365/bolsa/pkg/errx"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MaxFileSize is the default per-file limit (8 MiB)
const MaxFileSize = 8 << 20

const (
	MIMEPDF  = "application/pdf"
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEWEBP = "image/webp"
)

var imageTypes = []string{MIMEJPEG, MIMEPNG, MIMEWEBP}

var ErrRegistry = errx.NewRegistry("")

var (
	CodeFileTooLarge   = ErrRegistry.Register("ARCHIVO_MUY_GRANDE", errx.TypeValidation, http.StatusBadRequest, "El archivo supera el tamaño máximo permitido")
	CodeFileEmpty      = ErrRegistry.Register("ARCHIVO_VACIO", errx.TypeValidation, http.StatusBadRequest, "El archivo está vacío")
	CodeTypeNotAllowed = ErrRegistry.Register("TIPO_NO_PERMITIDO", errx.TypeValidation, http.StatusBadRequest, "Tipo de archivo no permitido")
	CodeInvalidPDF     = ErrRegistry.Register("PDF_INVALIDO", errx.TypeValidation, http.StatusBadRequest, "El PDF está dañado o no se puede leer")
)

func ErrFileTooLarge() *errx.Error   { return ErrRegistry.New(CodeFileTooLarge) }
func ErrFileEmpty() *errx.Error      { return ErrRegistry.New(CodeFileEmpty) }
func ErrTypeNotAllowed() *errx.Error { return ErrRegistry.New(CodeTypeNotAllowed) }
func ErrInvalidPDF() *errx.Error     { return ErrRegistry.New(CodeInvalidPDF) }

// PDFChecker verifies that data is a readable PDF
type PDFChecker interface {
	CheckPDF(data []byte) error
}

// PdfcpuChecker parses the document and requires at least one page
type PdfcpuChecker struct{}

func (PdfcpuChecker) CheckPDF(data []byte) error {
	conf := model.NewDefaultConfiguration()
	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return err
	}
	if pages < 1 {
		return ErrInvalidPDF().WithDetail("pages", pages)
	}
	return nil
}

// Policy describes which files are acceptable
type Policy struct {
	MaxBytes   int
	AllowPDF   bool
	AllowImage bool
}

// Allowed lists the accepted MIME types
func (p Policy) Allowed() []string {
	var out []string
	if p.AllowPDF {
		out = append(out, MIMEPDF)
	}
	if p.AllowImage {
		out = append(out, imageTypes...)
	}
	return out
}

func (p Policy) allows(mimeType string) bool {
	for _, t := range p.Allowed() {
		if t == mimeType {
			return true
		}
	}
	return false
}

// File is a validated upload
type File struct {
	MimeType  string
	Extension string
	Size      int
}

// Validator applies a Policy to raw bytes
type Validator struct {
	pdf PDFChecker
}

func NewValidator(pdf PDFChecker) *Validator {
	if pdf == nil {
		pdf = PdfcpuChecker{}
	}
	return &Validator{pdf: pdf}
}

// Validate checks size, the declared content type and the sniffed content type.
// A declared type of "" or application/octet-stream defers entirely to sniffing.
func (v *Validator) Validate(p Policy, data []byte, declared string) (*File, error) {
	maxBytes := p.MaxBytes
	if maxBytes <= 0 {
		maxBytes = MaxFileSize
	}
	if len(data) == 0 {
		return nil, ErrFileEmpty()
	}
	if len(data) > maxBytes {
		return nil, ErrFileTooLarge().
			WithDetail("size", len(data)).
			WithDetail("max_size", maxBytes)
	}

	declared = normalizeMIME(declared)
	if declared != "" && declared != "application/octet-stream" && !p.allows(declared) {
		return nil, ErrTypeNotAllowed().
			WithDetail("declared", declared).
			WithDetail("allowed", p.Allowed())
	}

	detected := mimetype.Detect(data)
	sniffed := normalizeMIME(detected.String())
	if !p.allows(sniffed) {
		return nil, ErrTypeNotAllowed().
			WithDetail("detected", sniffed).
			WithDetail("allowed", p.Allowed())
	}

	if sniffed == MIMEPDF {
		if err := v.pdf.CheckPDF(data); err != nil {
			return nil, ErrInvalidPDF().WithCause(err)
		}
	}

	return &File{
		MimeType:  sniffed,
		Extension: detected.Extension(),
		Size:      len(data),
	}, nil
}

func normalizeMIME(raw string) string {
	if raw == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return mt
}
