package notification

import (
	"bytes"
	"fmt"
	"text/template"
)

var subjects = map[string]string{
	"ENTREVISTA":   "Te invitamos a una entrevista: %s",
	"EVALUACIONES": "Avanzaste a la etapa de evaluaciones: %s",
	"CONTRATACION": "¡Felicitaciones! Fuiste seleccionado para %s",
	"RECHAZADA":    "Actualización de tu postulación a %s",
}

const defaultSubject = "Tu postulación a %s cambió de estado"

var bodyTemplate = template.Must(template.New("status").Parse(`Hola {{.Name}},

{{- if eq .NewStatus "ENTREVISTA"}}
La empresa quiere conocerte: tu postulación a "{{.OfferTitle}}" pasó a la etapa de entrevista.
{{- else if eq .NewStatus "EVALUACIONES"}}
Tu postulación a "{{.OfferTitle}}" avanzó a la etapa de evaluaciones.
{{- else if eq .NewStatus "CONTRATACION"}}
Fuiste seleccionado para "{{.OfferTitle}}". Ingresa a la plataforma para subir tus documentos de contratación.
{{- else if eq .NewStatus "RECHAZADA"}}
Gracias por tu interés en "{{.OfferTitle}}". En esta ocasión la empresa decidió continuar con otros candidatos.
{{- else}}
Tu postulación a "{{.OfferTitle}}" ahora está en estado {{.NewStatus}}.
{{- end}}

Equipo Bolsa
`))

// Render builds the email subject and plain-text body
func Render(msg Message) (subject, body string, err error) {
	format, ok := subjects[msg.NewStatus]
	if !ok {
		format = defaultSubject
	}
	subject = fmt.Sprintf(format, msg.OfferTitle)

	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, msg); err != nil {
		return "", "", fmt.Errorf("render notification body: %w", err)
	}
	return subject, buf.String(), nil
}
