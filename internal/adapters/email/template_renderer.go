package email

import (
	"bytes"
	"fmt"
	"html/template"

	"eventscout/internal/domain"
)

var eventCancelledHTML = template.Must(template.New("event_cancelled").Parse(`
<p>Hi {{.UserName}},</p>
<p><strong>{{.EventTitle}}</strong> on {{.EventDate}} has been cancelled by the organizer.</p>
<p>Your "going" status has no effect anymore; we're sorry for the change of plans.</p>
`))

// RenderEventCancelled renders the HTML and plain-text bodies of an
// event-cancelled notice.
func RenderEventCancelled(data *domain.EventCancelledEmailData) (html, text string, err error) {
	var buf bytes.Buffer
	if err := eventCancelledHTML.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render event cancelled template: %w", err)
	}
	text = fmt.Sprintf(
		"Hi %s,\n\n%q on %s has been cancelled by the organizer.\n\nSorry for the change of plans.",
		data.UserName, data.EventTitle, data.EventDate,
	)
	return buf.String(), text, nil
}
