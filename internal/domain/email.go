package domain

import "context"

// Mailer sends a single email. Implementations decide transport.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EventCancelledEmailData is the payload for an event-cancelled notice.
type EventCancelledEmailData struct {
	Email      string
	UserName   string
	EventTitle string
	EventDate  string
}

// EmailService sends domain emails.
type EmailService interface {
	SendEventCancelled(ctx context.Context, data *EventCancelledEmailData) error
}
