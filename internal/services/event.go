package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventscout/internal/discovery"
	"eventscout/internal/domain"
)

type eventService struct {
	eventRepo       domain.EventRepository
	interactionRepo domain.InteractionRepository
	ratingService   domain.RatingService
	userRepo        domain.UserRepository
	emailService    domain.EmailService
	geocoder        domain.Geocoder
	contextTimeout  time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	interactionRepo domain.InteractionRepository,
	ratingService domain.RatingService,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	geocoder domain.Geocoder,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:       eventRepo,
		interactionRepo: interactionRepo,
		ratingService:   ratingService,
		userRepo:        userRepo,
		emailService:    emailService,
		geocoder:        geocoder,
		contextTimeout:  timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateEvent(event); err != nil {
		return err
	}

	// Geocoding is best effort: an event without coordinates is still
	// discoverable, it just cannot satisfy radius filters or distance sorts.
	if !event.HasCoordinates() && event.Address != "" && s.geocoder != nil {
		if lat, lng, err := s.geocoder.Geocode(ctx, event.Address); err == nil {
			event.Lat = lat
			event.Lng = lng
		}
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.Status = domain.StatusActive
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func validateEvent(event *domain.Event) error {
	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if event.OrganizerID == "" {
		return fmt.Errorf("%w: organizer is required", domain.ErrInvalidInput)
	}
	if _, ok := domain.ParseCategory(string(event.Category)); !ok {
		return fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, event.Category)
	}
	if event.StartsAt.IsZero() {
		return fmt.Errorf("%w: start time is required", domain.ErrInvalidInput)
	}
	if event.Price != nil && (event.Price.Amount < 0 || len(event.Price.Currency) != 3) {
		return fmt.Errorf("%w: price requires a non-negative amount and an ISO currency code", domain.ErrInvalidInput)
	}
	if event.Capacity != nil && *event.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	}
	return discovery.ValidateRule(event.Recurrence, event.StartsAt)
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	detail := &domain.EventDetail{
		Event:       event,
		Occurrences: discovery.Expand(event.StartsAt, event.Recurrence),
	}

	counts, err := s.interactionRepo.CountsByEventIDs(ctx, []string{eventID})
	if err != nil {
		return nil, fmt.Errorf("count interactions: %w", err)
	}
	if c, ok := counts[eventID]; ok {
		detail.Going = c.Going
		detail.Likes = c.Likes
	}

	aggs, err := s.ratingService.AggregatesFor(ctx, []string{event.OrganizerID})
	if err != nil {
		return nil, fmt.Errorf("load organizer rating: %w", err)
	}
	if agg, ok := aggs[event.OrganizerID]; ok {
		detail.Rating = &agg
	}

	return detail, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, organizerID string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID != organizerID {
		return nil, domain.ErrForbidden
	}

	if upd.Category != nil {
		if _, ok := domain.ParseCategory(string(*upd.Category)); !ok {
			return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, *upd.Category)
		}
	}

	// Recurrence rules are re-validated against the start time the event will
	// have after this update.
	startsAt := event.StartsAt
	if upd.StartsAt != nil {
		startsAt = *upd.StartsAt
	}
	rule := event.Recurrence
	if upd.Recurrence != nil {
		rule = upd.Recurrence
	}
	if err := discovery.ValidateRule(rule, startsAt); err != nil {
		return nil, err
	}

	// A changed address invalidates stored coordinates unless the caller
	// provided new ones.
	if upd.Address != nil && upd.Lat == nil && upd.Lng == nil && s.geocoder != nil {
		lat, lng := "", ""
		if g1, g2, err := s.geocoder.Geocode(ctx, *upd.Address); err == nil {
			lat, lng = g1, g2
		}
		upd.Lat = &lat
		upd.Lng = &lng
	}

	updated, err := s.eventRepo.Update(ctx, eventID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) CancelEvent(ctx context.Context, eventID, organizerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID != organizerID {
		return domain.ErrForbidden
	}
	if event.Status == domain.StatusCancelled {
		return nil
	}

	if err := s.eventRepo.SetStatus(ctx, eventID, domain.StatusCancelled); err != nil {
		return fmt.Errorf("cancel event: %w", err)
	}

	s.notifyGoingUsers(ctx, event)
	return nil
}

// notifyGoingUsers emails everyone marked going. Failures are swallowed: the
// cancellation itself already happened and must not be rolled back over a
// notification problem.
func (s *eventService) notifyGoingUsers(ctx context.Context, event *domain.Event) {
	if s.emailService == nil {
		return
	}
	userIDs, err := s.interactionRepo.ListGoingUserIDs(ctx, event.ID)
	if err != nil {
		return
	}
	for _, userID := range userIDs {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil || user == nil {
			continue
		}
		data := &domain.EventCancelledEmailData{
			Email:      user.Email,
			UserName:   user.Name,
			EventTitle: event.Title,
			EventDate:  event.StartsAt.Format("2 Jan 2006 15:04"),
		}
		_ = s.emailService.SendEventCancelled(ctx, data)
	}
}

func (s *eventService) ListMyEvents(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	events, err := s.eventRepo.ListByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) ListOccurrences(ctx context.Context, eventID string) ([]time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return discovery.Expand(event.StartsAt, event.Recurrence), nil
}
