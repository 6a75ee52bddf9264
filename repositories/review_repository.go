package repositories

import (
	"context"
	"fmt"
	"pc-store/models"

	"github.com/jackc/pgx/v5"
)

type ReviewRepository struct {
	db DBPool
}

func NewReviewRepository(db DBPool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) List(ctx context.Context, productID, page, limit int) ([]models.Review, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE product_id = $1`, productID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("reviews.List count: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.product_id, r.user_id, u.full_name, r.rating, r.title, r.body, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2 OFFSET $3
	`, productID, limit, offset(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("reviews.List: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Title, &rv.Body, &rv.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("reviews.List scan: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("reviews.List rows: %w", err)
	}
	return reviews, total, nil
}

// Create inserts the review and refreshes the product's rating aggregates in
// the same transaction. A second review by the same user is ErrConflict.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	_, err := withTx(ctx, r.db, func(tx pgx.Tx) (struct{}, error) {
		err := tx.QueryRow(ctx, `
			INSERT INTO reviews (product_id, user_id, rating, title, body)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`, review.ProductID, review.UserID, review.Rating, review.Title, review.Body,
		).Scan(&review.ID, &review.CreatedAt)
		if err != nil {
			return struct{}{}, err
		}

		_, err = tx.Exec(ctx, `
			UPDATE products SET
				rating_avg = (SELECT ROUND(AVG(rating)::numeric, 2) FROM reviews WHERE product_id = $1),
				review_count = (SELECT COUNT(*) FROM reviews WHERE product_id = $1),
				updated_at = NOW()
			WHERE id = $1
		`, review.ProductID)
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("reviews.Create: %w", translate(err))
	}
	return nil
}
