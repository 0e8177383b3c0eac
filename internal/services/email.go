package services

import (
	"context"
	"fmt"

	"eventscout/internal/adapters/email"
	"eventscout/internal/domain"
)

type emailService struct {
	mailer domain.Mailer
}

func NewEmailService(mailer domain.Mailer) domain.EmailService {
	return &emailService{mailer: mailer}
}

func (s *emailService) SendEventCancelled(_ context.Context, data *domain.EventCancelledEmailData) error {
	html, text, err := email.RenderEventCancelled(data)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Cancelled: %s", data.EventTitle)
	if err := s.mailer.Send(data.Email, subject, html, text); err != nil {
		return fmt.Errorf("send event cancelled email: %w", err)
	}
	return nil
}
