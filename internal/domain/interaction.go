package domain

import (
	"context"
	"time"
)

// InteractionKind is a user's stance on an event.
type InteractionKind string

const (
	InteractionGoing InteractionKind = "going"
	InteractionLike  InteractionKind = "like"
	InteractionPass  InteractionKind = "pass"
)

// ParseInteractionKind validates an interaction kind string.
func ParseInteractionKind(s string) (InteractionKind, bool) {
	switch InteractionKind(s) {
	case InteractionGoing, InteractionLike, InteractionPass:
		return InteractionKind(s), true
	}
	return "", false
}

// Interaction is a user's current stance on an event. At most one row exists
// per (event, user) pair; a new write replaces the previous kind.
type Interaction struct {
	EventID   string          `json:"event_id"`
	UserID    string          `json:"user_id"`
	Kind      InteractionKind `json:"kind"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewInteraction returns an Interaction with the given fields.
func NewInteraction(eventID, userID string, kind InteractionKind, createdAt, updatedAt time.Time) *Interaction {
	return &Interaction{
		EventID:   eventID,
		UserID:    userID,
		Kind:      kind,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// InteractionCounts are the per-event tallies the popularity score is built
// from. Passes are stored but never counted.
type InteractionCounts struct {
	Going int `json:"going"`
	Likes int `json:"likes"`
}

// InteractionRepository defines storage operations for interactions.
type InteractionRepository interface {
	// Set inserts or replaces the user's interaction with the event.
	Set(ctx context.Context, in *Interaction) error
	Delete(ctx context.Context, eventID, userID string) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Interaction, error)
	ListByUserID(ctx context.Context, userID string) ([]*Interaction, error)
	// CountsByEventIDs returns going/like tallies for each of the given
	// events. Events with no interactions are absent from the map.
	CountsByEventIDs(ctx context.Context, eventIDs []string) (map[string]InteractionCounts, error)
	// ListGoingUserIDs returns the IDs of users currently marked going.
	ListGoingUserIDs(ctx context.Context, eventID string) ([]string, error)
}

// InteractionService defines user-facing interaction operations.
type InteractionService interface {
	SetInteraction(ctx context.Context, eventID, userID string, kind InteractionKind) (*Interaction, error)
	ClearInteraction(ctx context.Context, eventID, userID string) error
	ListMyInteractions(ctx context.Context, userID string) ([]*Interaction, error)
}
