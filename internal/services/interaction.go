package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventscout/internal/domain"
)

type interactionService struct {
	interactionRepo domain.InteractionRepository
	eventRepo       domain.EventRepository
	contextTimeout  time.Duration
}

func NewInteractionService(interactionRepo domain.InteractionRepository,
	eventRepo domain.EventRepository,
	timeout time.Duration,
) domain.InteractionService {
	return &interactionService{
		interactionRepo: interactionRepo,
		eventRepo:       eventRepo,
		contextTimeout:  timeout,
	}
}

func (s *interactionService) SetInteraction(ctx context.Context, eventID, userID string, kind domain.InteractionKind) (*domain.Interaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, ok := domain.ParseInteractionKind(string(kind)); !ok {
		return nil, fmt.Errorf("%w: unknown interaction kind %q", domain.ErrInvalidInput, kind)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Status != domain.StatusActive {
		return nil, fmt.Errorf("%w: event is cancelled", domain.ErrInvalidInput)
	}

	now := time.Now()
	in := domain.NewInteraction(eventID, userID, kind, now, now)
	if err := s.interactionRepo.Set(ctx, in); err != nil {
		return nil, fmt.Errorf("set interaction: %w", err)
	}
	return in, nil
}

func (s *interactionService) ClearInteraction(ctx context.Context, eventID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.interactionRepo.Delete(ctx, eventID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("clear interaction: %w", err)
	}
	return nil
}

func (s *interactionService) ListMyInteractions(ctx context.Context, userID string) ([]*domain.Interaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	interactions, err := s.interactionRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	if interactions == nil {
		interactions = []*domain.Interaction{}
	}
	return interactions, nil
}
