package content

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"conference-badge-api/modules/notification/dto"
)

// WaiverEmail is the single source both bodies are rendered from.
type WaiverEmail struct {
	Subject       string
	FirstName     string
	FullName      string
	WaiverID      string
	PDFURL        string
	SignedAt      string
	HasAttachment bool
}

const waiverHTML = `<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#1f2933;line-height:1.5">
<h2>Thanks for signing, {{.FirstName}}!</h2>
<p>We received the liability waiver signed by <strong>{{.FullName}}</strong> on {{.SignedAt}}.</p>
<p>Waiver reference: <code>{{.WaiverID}}</code></p>
{{if .HasAttachment}}<p>A copy of your signed waiver is attached to this email.</p>{{end}}
<p><a href="{{.PDFURL}}">Download your signed waiver</a></p>
<p style="color:#7b8794;font-size:12px">Keep this email for your records. The download link may expire; contact the organizers for a fresh copy.</p>
</body></html>`

const waiverText = `Thanks for signing, {{.FirstName}}!

We received the liability waiver signed by {{.FullName}} on {{.SignedAt}}.
Waiver reference: {{.WaiverID}}
{{if .HasAttachment}}A copy of your signed waiver is attached to this email.
{{end}}
Download your signed waiver: {{.PDFURL}}

Keep this email for your records. The download link may expire; contact the organizers for a fresh copy.
`

var (
	waiverHTMLTemplate = htmltemplate.Must(htmltemplate.New("waiver-html").Parse(waiverHTML))
	waiverTextTemplate = texttemplate.Must(texttemplate.New("waiver-text").Parse(waiverText))
)

func NewWaiverEmail(in dto.WaiverConfirmation, hasAttachment bool) WaiverEmail {
	first := strings.TrimSpace(in.FullName)
	if fields := strings.Fields(first); len(fields) > 0 {
		first = fields[0]
	}
	signedAt := in.SignedAt
	if signedAt.IsZero() {
		signedAt = time.Now()
	}
	return WaiverEmail{
		Subject:       "Your signed event waiver",
		FirstName:     first,
		FullName:      in.FullName,
		WaiverID:      in.WaiverID,
		PDFURL:        in.PDFURL,
		SignedAt:      signedAt.UTC().Format("January 2, 2006 at 15:04 MST"),
		HasAttachment: hasAttachment,
	}
}

// Render returns the HTML and plain-text bodies.
func (w WaiverEmail) Render() (string, string, error) {
	var html, text bytes.Buffer
	if err := waiverHTMLTemplate.Execute(&html, w); err != nil {
		return "", "", err
	}
	if err := waiverTextTemplate.Execute(&text, w); err != nil {
		return "", "", err
	}
	return html.String(), text.String(), nil
}
