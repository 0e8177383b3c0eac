package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"eventscout/internal/domain"
)

type ratingRepository struct {
	DB *sql.DB
}

func NewRatingRepository(db *sql.DB) domain.RatingRepository {
	return &ratingRepository{
		DB: db,
	}
}

// Upsert replaces a rater's previous rating of the organizer, if any.
func (r *ratingRepository) Upsert(ctx context.Context, rating *domain.Rating) error {
	query := `
		INSERT INTO organizer_ratings (id, organizer_id, rater_id, score, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (organizer_id, rater_id)
		DO UPDATE SET score = EXCLUDED.score, comment = EXCLUDED.comment, updated_at = EXCLUDED.updated_at
	`
	_, err := r.DB.ExecContext(ctx, query,
		rating.ID, rating.OrganizerID, rating.RaterID, rating.Score, rating.Comment,
		rating.CreatedAt, rating.UpdatedAt,
	)
	return err
}

func (r *ratingRepository) AggregateByOrganizerIDs(ctx context.Context, organizerIDs []string) (map[string]domain.OrganizerRating, error) {
	aggregates := make(map[string]domain.OrganizerRating)
	if len(organizerIDs) == 0 {
		return aggregates, nil
	}
	query := `
		SELECT organizer_id, ROUND(AVG(score)::numeric, 1), COUNT(*)
		FROM organizer_ratings
		WHERE organizer_id = ANY($1)
		GROUP BY organizer_id
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(organizerIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var organizerID string
		var agg domain.OrganizerRating
		if err := rows.Scan(&organizerID, &agg.Average, &agg.Count); err != nil {
			return nil, err
		}
		aggregates[organizerID] = agg
	}
	return aggregates, rows.Err()
}

func (r *ratingRepository) ListByOrganizerID(ctx context.Context, organizerID string, params domain.PaginationParams) ([]*domain.Rating, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM organizer_ratings WHERE organizer_id = $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, organizerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, organizer_id, rater_id, score, comment, created_at, updated_at
		FROM organizer_ratings
		WHERE organizer_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, organizerID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var ratings []*domain.Rating
	for rows.Next() {
		var rating domain.Rating
		var comment sql.NullString
		if err := rows.Scan(&rating.ID, &rating.OrganizerID, &rating.RaterID, &rating.Score,
			&comment, &rating.CreatedAt, &rating.UpdatedAt); err != nil {
			return nil, 0, err
		}
		rating.Comment = comment.String
		ratings = append(ratings, &rating)
	}
	return ratings, total, rows.Err()
}
