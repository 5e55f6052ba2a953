package review

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kritika-app/kritika/internal/platform/apperr"
	"github.com/kritika-app/kritika/internal/platform/dberr"
	"github.com/kritika-app/kritika/pkg/pagination"
)

// ConstraintOneReviewPerTitle is the unique index backing the one-review-
// per-author rule.
const ConstraintOneReviewPerTitle = "reviews_title_author_key"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// reviewSelect joins the author's username in for response shaping.
const reviewSelect = `
	SELECT r.id, r.title_id, r.author_id, a.username, r.text, r.score, r.pub_date
	FROM content.reviews r
	JOIN users.accounts a ON a.id = r.author_id
`

func (repository *PostgresRepository) TitleExists(context context.Context, titleID string) (bool, error) {
	exists := false
	err := repository.db.QueryRow(context,
		`SELECT EXISTS (SELECT 1 FROM catalog.titles WHERE id = $1)`, titleID,
	).Scan(&exists)
	if err != nil {
		return false, dberr.Wrap(err, "check_title_exists")
	}
	return exists, nil
}

func (repository *PostgresRepository) ListByTitle(context context.Context, titleID string, params pagination.Params) ([]*Review, int, error) {
	total := 0
	err := repository.db.QueryRow(context,
		`SELECT COUNT(*) FROM content.reviews WHERE title_id = $1`, titleID,
	).Scan(&total)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "count_reviews")
	}

	query := reviewSelect + `
		WHERE r.title_id = $1
		ORDER BY r.pub_date ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := repository.db.Query(context, query, titleID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	reviews := make([]*Review, 0)
	for rows.Next() {
		review := &Review{}
		if err := scanReview(rows, review); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_review")
		}
		reviews = append(reviews, review)
	}

	return reviews, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, titleID, reviewID string) (*Review, error) {
	query := reviewSelect + ` WHERE r.id = $1 AND r.title_id = $2`

	review := &Review{}
	row := repository.db.QueryRow(context, query, reviewID, titleID)
	if err := scanReview(row, review); err != nil {
		wrapped := dberr.Wrap(err, "find_review_by_id")
		if apperr.IsNotFound(wrapped) {
			return nil, apperr.NotFound("Review")
		}
		return nil, wrapped
	}

	return review, nil
}

func (repository *PostgresRepository) Create(context context.Context, review *Review) error {
	query := `
		INSERT INTO content.reviews (id, title_id, author_id, text, score, pub_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := repository.db.Exec(context, query,
		review.ID, review.TitleID, review.AuthorID,
		review.Text, review.Score, review.PubDate,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err, ConstraintOneReviewPerTitle) {
			return apperr.Conflict("You have already reviewed this title")
		}
		return dberr.Wrap(err, "create_review")
	}

	return nil
}

func (repository *PostgresRepository) Update(context context.Context, review *Review) error {
	query := `UPDATE content.reviews SET text = $2, score = $3 WHERE id = $1`

	tag, err := repository.db.Exec(context, query, review.ID, review.Text, review.Score)
	if err != nil {
		return dberr.Wrap(err, "update_review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, titleID, reviewID string) error {
	query := `DELETE FROM content.reviews WHERE id = $1 AND title_id = $2`

	tag, err := repository.db.Exec(context, query, reviewID, titleID)
	if err != nil {
		return dberr.Wrap(err, "delete_review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	return nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner, review *Review) error {
	return row.Scan(
		&review.ID, &review.TitleID, &review.AuthorID,
		&review.Author, &review.Text, &review.Score, &review.PubDate,
	)
}
