package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"eventscout/internal/domain"
)

type ratingService struct {
	ratingRepo     domain.RatingRepository
	userRepo       domain.UserRepository
	cache          domain.RatingCache
	contextTimeout time.Duration
}

func NewRatingService(ratingRepo domain.RatingRepository,
	userRepo domain.UserRepository,
	cache domain.RatingCache,
	timeout time.Duration,
) domain.RatingService {
	return &ratingService{
		ratingRepo:     ratingRepo,
		userRepo:       userRepo,
		cache:          cache,
		contextTimeout: timeout,
	}
}

func (s *ratingService) RateOrganizer(ctx context.Context, organizerID, raterID string, score int, comment string) (*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if score < 1 || score > 5 {
		return nil, fmt.Errorf("%w: score must be between 1 and 5", domain.ErrInvalidInput)
	}
	if organizerID == raterID {
		return nil, domain.ErrSelfRating
	}
	if _, err := s.userRepo.GetByID(ctx, organizerID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get organizer: %w", err)
	}

	now := time.Now()
	rating := &domain.Rating{
		ID:          uuid.NewString(),
		OrganizerID: organizerID,
		RaterID:     raterID,
		Score:       score,
		Comment:     comment,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.ratingRepo.Upsert(ctx, rating); err != nil {
		return nil, fmt.Errorf("save rating: %w", err)
	}

	// Refresh the cached aggregate right away so the new score is visible to
	// the next discovery call instead of after the TTL.
	if s.cache != nil {
		if aggs, err := s.ratingRepo.AggregateByOrganizerIDs(ctx, []string{organizerID}); err == nil {
			if agg, ok := aggs[organizerID]; ok {
				s.cache.Set(ctx, organizerID, agg)
			}
		}
	}
	return rating, nil
}

func (s *ratingService) GetOrganizerRating(ctx context.Context, organizerID string) (*domain.OrganizerRating, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	aggs, err := s.AggregatesFor(ctx, []string{organizerID})
	if err != nil {
		return nil, err
	}
	if agg, ok := aggs[organizerID]; ok {
		return &agg, nil
	}
	return &domain.OrganizerRating{}, nil
}

func (s *ratingService) ListOrganizerRatings(ctx context.Context, organizerID string, params domain.PaginationParams) ([]*domain.Rating, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ratings, total, err := s.ratingRepo.ListByOrganizerID(ctx, organizerID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list ratings: %w", err)
	}
	if ratings == nil {
		ratings = []*domain.Rating{}
	}
	return ratings, total, nil
}

func (s *ratingService) AggregatesFor(ctx context.Context, organizerIDs []string) (map[string]domain.OrganizerRating, error) {
	out := make(map[string]domain.OrganizerRating, len(organizerIDs))
	if len(organizerIDs) == 0 {
		return out, nil
	}

	misses := organizerIDs
	if s.cache != nil {
		misses = misses[:0:0]
		for _, id := range organizerIDs {
			if agg, ok := s.cache.Get(ctx, id); ok {
				out[id] = *agg
				continue
			}
			misses = append(misses, id)
		}
	}
	if len(misses) == 0 {
		return out, nil
	}

	aggs, err := s.ratingRepo.AggregateByOrganizerIDs(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}
	for id, agg := range aggs {
		agg.Average = math.Round(agg.Average*10) / 10
		out[id] = agg
		if s.cache != nil {
			s.cache.Set(ctx, id, agg)
		}
	}
	return out, nil
}
