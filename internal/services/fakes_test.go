package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"eventscout/internal/domain"
)

type fakeEventRepo struct {
	mu            sync.Mutex
	events        map[string]*domain.Event
	createErr     error
	lastNotBefore time.Time
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	r := &fakeEventRepo{events: make(map[string]*domain.Event)}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEventRepo) Update(_ context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Title != nil {
		e.Title = *upd.Title
	}
	if upd.Description != nil {
		e.Description = *upd.Description
	}
	if upd.Category != nil {
		e.Category = *upd.Category
	}
	if upd.StartsAt != nil {
		e.StartsAt = *upd.StartsAt
	}
	if upd.Address != nil {
		e.Address = *upd.Address
	}
	if upd.Lat != nil {
		e.Lat = *upd.Lat
	}
	if upd.Lng != nil {
		e.Lng = *upd.Lng
	}
	if upd.Price != nil {
		e.Price = upd.Price
	}
	if upd.Capacity != nil {
		e.Capacity = upd.Capacity
	}
	if upd.Recurrence != nil {
		e.Recurrence = upd.Recurrence
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEventRepo) SetStatus(_ context.Context, id string, status domain.EventStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Status = status
	return nil
}

func (r *fakeEventRepo) ListByOrganizerID(_ context.Context, organizerID string) ([]*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Event
	for _, e := range r.events {
		if e.OrganizerID == organizerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) ListDiscoverable(_ context.Context, notBefore time.Time) ([]*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastNotBefore = notBefore
	var out []*domain.Event
	for _, e := range r.events {
		if e.Status == domain.StatusActive && !e.StartsAt.Before(notBefore) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeInteractionRepo struct {
	mu sync.Mutex
	// keyed event ID, then user ID
	interactions map[string]map[string]*domain.Interaction
}

func newFakeInteractionRepo() *fakeInteractionRepo {
	return &fakeInteractionRepo{interactions: make(map[string]map[string]*domain.Interaction)}
}

func (r *fakeInteractionRepo) Set(_ context.Context, in *domain.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.interactions[in.EventID] == nil {
		r.interactions[in.EventID] = make(map[string]*domain.Interaction)
	}
	r.interactions[in.EventID][in.UserID] = in
	return nil
}

func (r *fakeInteractionRepo) Delete(_ context.Context, eventID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.interactions[eventID][userID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.interactions[eventID], userID)
	return nil
}

func (r *fakeInteractionRepo) GetByEventAndUser(_ context.Context, eventID, userID string) (*domain.Interaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, ok := r.interactions[eventID][userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return in, nil
}

func (r *fakeInteractionRepo) ListByUserID(_ context.Context, userID string) ([]*domain.Interaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Interaction
	for _, byUser := range r.interactions {
		if in, ok := byUser[userID]; ok {
			out = append(out, in)
		}
	}
	return out, nil
}

func (r *fakeInteractionRepo) CountsByEventIDs(_ context.Context, eventIDs []string) (map[string]domain.InteractionCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]domain.InteractionCounts)
	for _, id := range eventIDs {
		var c domain.InteractionCounts
		for _, in := range r.interactions[id] {
			switch in.Kind {
			case domain.InteractionGoing:
				c.Going++
			case domain.InteractionLike:
				c.Likes++
			}
		}
		if c.Going > 0 || c.Likes > 0 {
			out[id] = c
		}
	}
	return out, nil
}

func (r *fakeInteractionRepo) ListGoingUserIDs(_ context.Context, eventID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for userID, in := range r.interactions[eventID] {
		if in.Kind == domain.InteractionGoing {
			out = append(out, userID)
		}
	}
	return out, nil
}

type fakeRatingRepo struct {
	mu             sync.Mutex
	ratings        map[string]map[string]*domain.Rating // organizer ID, then rater ID
	aggregateCalls int
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{ratings: make(map[string]map[string]*domain.Rating)}
}

func (r *fakeRatingRepo) Upsert(_ context.Context, rating *domain.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ratings[rating.OrganizerID] == nil {
		r.ratings[rating.OrganizerID] = make(map[string]*domain.Rating)
	}
	r.ratings[rating.OrganizerID][rating.RaterID] = rating
	return nil
}

func (r *fakeRatingRepo) AggregateByOrganizerIDs(_ context.Context, organizerIDs []string) (map[string]domain.OrganizerRating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aggregateCalls++
	out := make(map[string]domain.OrganizerRating)
	for _, id := range organizerIDs {
		byRater := r.ratings[id]
		if len(byRater) == 0 {
			continue
		}
		sum := 0
		for _, rating := range byRater {
			sum += rating.Score
		}
		avg := float64(sum) / float64(len(byRater))
		out[id] = domain.OrganizerRating{
			Average: math.Round(avg*10) / 10,
			Count:   len(byRater),
		}
	}
	return out, nil
}

func (r *fakeRatingRepo) ListByOrganizerID(_ context.Context, organizerID string, params domain.PaginationParams) ([]*domain.Rating, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*domain.Rating
	for _, rating := range r.ratings[organizerID] {
		all = append(all, rating)
	}
	total := len(all)
	offset := params.Offset()
	if offset > total {
		offset = total
	}
	end := offset + params.PageSize
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type fakeRatingCache struct {
	mu      sync.Mutex
	entries map[string]domain.OrganizerRating
	sets    int
}

func newFakeRatingCache() *fakeRatingCache {
	return &fakeRatingCache{entries: make(map[string]domain.OrganizerRating)}
}

func (c *fakeRatingCache) Get(_ context.Context, organizerID string) (*domain.OrganizerRating, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	agg, ok := c.entries[organizerID]
	if !ok {
		return nil, false
	}
	return &agg, true
}

func (c *fakeRatingCache) Set(_ context.Context, organizerID string, agg domain.OrganizerRating) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[organizerID] = agg
	c.sets++
}

type sentEmail struct {
	to      string
	subject string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (m *fakeMailer) Send(to, subject, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentEmail{to: to, subject: subject})
	return nil
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.EventCancelledEmailData
}

func (s *fakeEmailService) SendEventCancelled(_ context.Context, data *domain.EventCancelledEmailData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, data)
	return nil
}

type fakeGeocoder struct {
	lat, lng string
	err      error
	calls    int
}

func (g *fakeGeocoder) Geocode(_ context.Context, _ string) (string, string, error) {
	g.calls++
	if g.err != nil {
		return "", "", g.err
	}
	return g.lat, g.lng, nil
}

type fakeHasher struct {
	saltSeq int
}

func (h *fakeHasher) GenerateSalt() (string, error) {
	h.saltSeq++
	return fmt.Sprintf("salt-%d", h.saltSeq), nil
}

func (h *fakeHasher) Hash(salt, password string) (string, error) {
	return salt + "|" + password, nil
}

func (h *fakeHasher) Compare(hash, salt, password string) error {
	if hash != salt+"|"+password {
		return errors.New("hash mismatch")
	}
	return nil
}

type fakeTokenIssuer struct {
	lastExpiry time.Duration
}

func (t *fakeTokenIssuer) Issue(userID, _ string, expiry time.Duration) (string, error) {
	t.lastExpiry = expiry
	return "token:" + userID, nil
}
