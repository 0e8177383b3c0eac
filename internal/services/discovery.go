package services

import (
	"context"
	"fmt"
	"time"

	"eventscout/internal/discovery"
	"eventscout/internal/domain"
)

type discoveryService struct {
	eventRepo       domain.EventRepository
	interactionRepo domain.InteractionRepository
	ratingService   domain.RatingService
	engine          *discovery.Engine
	contextTimeout  time.Duration
	now             func() time.Time
}

func NewDiscoveryService(eventRepo domain.EventRepository,
	interactionRepo domain.InteractionRepository,
	ratingService domain.RatingService,
	engine *discovery.Engine,
	timeout time.Duration,
) domain.DiscoveryService {
	return &discoveryService{
		eventRepo:       eventRepo,
		interactionRepo: interactionRepo,
		ratingService:   ratingService,
		engine:          engine,
		contextTimeout:  timeout,
		now:             time.Now,
	}
}

// Discover loads a fresh snapshot (events, interaction tallies, rating
// aggregates, the requester's own interactions) and hands it to the pure
// engine. Nothing is cached across calls; a later call may see different
// data.
func (s *discoveryService) Discover(ctx context.Context, req domain.DiscoveryRequest) (*domain.DiscoveryResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()

	// Past events only matter when the caller asked to see them.
	var notBefore time.Time
	if req.HidePast {
		notBefore = now
	}
	events, err := s.eventRepo.ListDiscoverable(ctx, notBefore)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	eventIDs := make([]string, 0, len(events))
	organizerIDs := make([]string, 0, len(events))
	seenOrganizers := make(map[string]struct{})
	for _, e := range events {
		eventIDs = append(eventIDs, e.ID)
		if _, ok := seenOrganizers[e.OrganizerID]; !ok {
			seenOrganizers[e.OrganizerID] = struct{}{}
			organizerIDs = append(organizerIDs, e.OrganizerID)
		}
	}

	counts, err := s.interactionRepo.CountsByEventIDs(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("count interactions: %w", err)
	}

	ratings, err := s.ratingService.AggregatesFor(ctx, organizerIDs)
	if err != nil {
		return nil, fmt.Errorf("load rating aggregates: %w", err)
	}

	userInteractions := make(map[string]domain.InteractionKind)
	if req.UserID != "" {
		mine, err := s.interactionRepo.ListByUserID(ctx, req.UserID)
		if err != nil {
			return nil, fmt.Errorf("list user interactions: %w", err)
		}
		for _, in := range mine {
			userInteractions[in.EventID] = in.Kind
		}
	}

	snapshot := make([]domain.EventSnapshot, 0, len(events))
	for _, e := range events {
		snap := domain.EventSnapshot{
			Event:           e,
			UserInteraction: userInteractions[e.ID],
		}
		if c, ok := counts[e.ID]; ok {
			snap.Going = c.Going
			snap.Likes = c.Likes
		}
		if agg, ok := ratings[e.OrganizerID]; ok {
			snap.Rating = &agg
		}
		snapshot = append(snapshot, snap)
	}

	result := s.engine.Run(snapshot, req, now)
	return &result, nil
}
