package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors shared across services and repositories.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidRecurrence = errors.New("invalid recurrence rule")
)

// Category is the closed set of event categories.
type Category string

const (
	CategoryArts      Category = "arts"
	CategoryCommunity Category = "community"
	CategoryCulture   Category = "culture"
	CategorySports    Category = "sports"
	CategoryWorkshops Category = "workshops"
)

// CategoryAll is the wildcard used in discovery requests; it is not a valid
// event category.
const CategoryAll = "all"

// ParseCategory validates a category string. The wildcard is rejected here
// because stored events must carry a concrete category.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryArts, CategoryCommunity, CategoryCulture, CategorySports, CategoryWorkshops:
		return Category(s), true
	}
	return "", false
}

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	StatusActive    EventStatus = "active"
	StatusCancelled EventStatus = "cancelled"
)

// RecurrencePattern is the step size of a recurrence rule.
type RecurrencePattern string

const (
	RecurWeekly   RecurrencePattern = "weekly"
	RecurBiweekly RecurrencePattern = "biweekly"
	RecurMonthly  RecurrencePattern = "monthly"
)

// ParseRecurrencePattern validates a pattern string.
func ParseRecurrencePattern(s string) (RecurrencePattern, bool) {
	switch RecurrencePattern(s) {
	case RecurWeekly, RecurBiweekly, RecurMonthly:
		return RecurrencePattern(s), true
	}
	return "", false
}

// RecurrenceRule describes how an event repeats. EndDate is a calendar date;
// the last occurrence is on or before it. A rule may span at most two calendar
// months past the event's start.
type RecurrenceRule struct {
	Pattern RecurrencePattern `json:"pattern"`
	EndDate time.Time         `json:"end_date"`
}

// Money is an amount with an ISO 4217 currency code. Display formatting is a
// client concern.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Event represents a discoverable event. Lat and Lng are decimal-degree
// strings, kept exactly as geocoded; empty or malformed values mean the event
// has no known position. Cancelled events are retained but never surface in
// discovery.
type Event struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	StartsAt    time.Time       `json:"starts_at"`
	Address     string          `json:"address"`
	Lat         string          `json:"lat,omitempty"`
	Lng         string          `json:"lng,omitempty"`
	Price       *Money          `json:"price,omitempty"`
	Capacity    *int            `json:"capacity,omitempty"`
	Status      EventStatus     `json:"status"`
	OrganizerID string          `json:"organizer_id"`
	Recurrence  *RecurrenceRule `json:"recurrence,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewEvent returns an active Event with the given fields.
func NewEvent(title, description string, category Category, startsAt time.Time, address, organizerID string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Category:    category,
		StartsAt:    startsAt,
		Address:     address,
		Status:      StatusActive,
		OrganizerID: organizerID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// HasCoordinates reports whether both coordinate strings are present. It does
// not validate that they parse; distance computation handles malformed values.
func (e *Event) HasCoordinates() bool {
	return e.Lat != "" && e.Lng != ""
}

// EventUpdate carries the optional fields of a partial event update. Nil
// fields are left unchanged.
type EventUpdate struct {
	Title       *string
	Description *string
	Category    *Category
	StartsAt    *time.Time
	Address     *string
	Lat         *string
	Lng         *string
	Price       *Money
	Capacity    *int
	Recurrence  *RecurrenceRule
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, id string, upd EventUpdate) (*Event, error)
	SetStatus(ctx context.Context, id string, status EventStatus) error
	ListByOrganizerID(ctx context.Context, organizerID string) ([]*Event, error)
	// ListDiscoverable returns all active events starting on or after the
	// given instant. It is the raw candidate set; filtering and ranking
	// happen in the discovery engine.
	ListDiscoverable(ctx context.Context, notBefore time.Time) ([]*Event, error)
}

// EventDetail bundles an event with its per-event aggregates for detail views.
type EventDetail struct {
	Event       *Event           `json:"event"`
	Going       int              `json:"going"`
	Likes       int              `json:"likes"`
	Rating      *OrganizerRating `json:"organizer_rating,omitempty"`
	Occurrences []time.Time      `json:"occurrences,omitempty"`
}

// EventService defines event lifecycle operations.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, eventID string) (*EventDetail, error)
	UpdateEvent(ctx context.Context, eventID, organizerID string, upd EventUpdate) (*Event, error)
	// CancelEvent marks the event cancelled and notifies users who were going.
	CancelEvent(ctx context.Context, eventID, organizerID string) error
	ListMyEvents(ctx context.Context, organizerID string) ([]*Event, error)
	// ListOccurrences expands the event's recurrence rule into concrete dates,
	// including the base date. Non-recurring events yield a single date.
	ListOccurrences(ctx context.Context, eventID string) ([]time.Time, error)
}
