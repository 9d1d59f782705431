package document

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"time"

	"conference-badge-api/core/utils"
)

//go:embed templates/waiver.html.tmpl
var templates embed.FS

var waiverTemplate = template.Must(
	template.New("waiver.html.tmpl").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templates, "templates/waiver.html.tmpl"),
)

// Data is everything printed on a waiver document. All strings are escaped on render.
type Data struct {
	DocumentID               string
	FullName                 string
	Email                    string
	DateOfBirth              string
	EmergencyContact         string
	EmergencyPhone           string
	DietaryRestrictions      []string
	DietaryRestrictionsOther string
	VolunteeringInterests    []string
	AdditionalNotes          string
	Signature                string
	WaiverVersion            string
	SignedAt                 time.Time
	IPAddress                string
	UserAgent                string
}

type view struct {
	Data
	SignatureSrc template.URL
	SignedAt     string
}

// SignatureSource normalizes raw base64 or a data URL into an embeddable image source.
// It returns "" when the signature is missing or not a supported image.
func SignatureSource(signature string) template.URL {
	img, err := utils.DecodeImage(signature)
	if err != nil {
		return ""
	}
	return template.URL(img.DataURL())
}

func RenderHTML(data Data) (string, error) {
	v := view{
		Data:         data,
		SignatureSrc: SignatureSource(data.Signature),
		SignedAt:     data.SignedAt.UTC().Format("January 2, 2006 15:04 MST"),
	}
	var buf bytes.Buffer
	if err := waiverTemplate.Execute(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}
