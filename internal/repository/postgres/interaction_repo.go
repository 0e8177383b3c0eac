package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventscout/internal/domain"
)

type interactionRepository struct {
	DB *sql.DB
}

func NewInteractionRepository(db *sql.DB) domain.InteractionRepository {
	return &interactionRepository{
		DB: db,
	}
}

// Set upserts on the (event_id, user_id) pair: the latest write wins and no
// history is kept.
func (r *interactionRepository) Set(ctx context.Context, in *domain.Interaction) error {
	query := `
		INSERT INTO interactions (event_id, user_id, kind, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, user_id)
		DO UPDATE SET kind = EXCLUDED.kind, updated_at = EXCLUDED.updated_at
	`
	_, err := r.DB.ExecContext(ctx, query, in.EventID, in.UserID, string(in.Kind), in.CreatedAt, in.UpdatedAt)
	return err
}

func (r *interactionRepository) Delete(ctx context.Context, eventID, userID string) error {
	query := `DELETE FROM interactions WHERE event_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *interactionRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Interaction, error) {
	query := `
		SELECT event_id, user_id, kind, created_at, updated_at
		FROM interactions
		WHERE event_id = $1 AND user_id = $2
	`
	in := &domain.Interaction{}
	var kind string
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).
		Scan(&in.EventID, &in.UserID, &kind, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	in.Kind = domain.InteractionKind(kind)
	return in, nil
}

func (r *interactionRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Interaction, error) {
	query := `
		SELECT event_id, user_id, kind, created_at, updated_at
		FROM interactions
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interactions := make([]*domain.Interaction, 0)
	for rows.Next() {
		in := &domain.Interaction{}
		var kind string
		if err := rows.Scan(&in.EventID, &in.UserID, &kind, &in.CreatedAt, &in.UpdatedAt); err != nil {
			return nil, err
		}
		in.Kind = domain.InteractionKind(kind)
		interactions = append(interactions, in)
	}
	return interactions, rows.Err()
}

func (r *interactionRepository) CountsByEventIDs(ctx context.Context, eventIDs []string) (map[string]domain.InteractionCounts, error) {
	counts := make(map[string]domain.InteractionCounts)
	if len(eventIDs) == 0 {
		return counts, nil
	}
	query := `
		SELECT event_id,
			COUNT(*) FILTER (WHERE kind = 'going') AS going,
			COUNT(*) FILTER (WHERE kind = 'like') AS likes
		FROM interactions
		WHERE event_id = ANY($1)
		GROUP BY event_id
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var eventID string
		var c domain.InteractionCounts
		if err := rows.Scan(&eventID, &c.Going, &c.Likes); err != nil {
			return nil, err
		}
		counts[eventID] = c
	}
	return counts, rows.Err()
}

func (r *interactionRepository) ListGoingUserIDs(ctx context.Context, eventID string) ([]string, error) {
	query := `SELECT user_id FROM interactions WHERE event_id = $1 AND kind = 'going'`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	userIDs := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}
