package comment

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kritika-app/kritika/internal/platform/apperr"
	"github.com/kritika-app/kritika/internal/platform/dberr"
	"github.com/kritika-app/kritika/pkg/pagination"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// commentSelect joins the author's username in for response shaping.
const commentSelect = `
	SELECT c.id, c.review_id, c.author_id, a.username, c.text, c.pub_date
	FROM content.comments c
	JOIN users.accounts a ON a.id = c.author_id
`

func (repository *PostgresRepository) ReviewExists(context context.Context, titleID, reviewID string) (bool, error) {
	exists := false
	err := repository.db.QueryRow(context,
		`SELECT EXISTS (SELECT 1 FROM content.reviews WHERE id = $1 AND title_id = $2)`,
		reviewID, titleID,
	).Scan(&exists)
	if err != nil {
		return false, dberr.Wrap(err, "check_review_exists")
	}
	return exists, nil
}

func (repository *PostgresRepository) ListByReview(context context.Context, reviewID string, params pagination.Params) ([]*Comment, int, error) {
	total := 0
	err := repository.db.QueryRow(context,
		`SELECT COUNT(*) FROM content.comments WHERE review_id = $1`, reviewID,
	).Scan(&total)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "count_comments")
	}

	query := commentSelect + `
		WHERE c.review_id = $1
		ORDER BY c.pub_date ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := repository.db.Query(context, query, reviewID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		comment := &Comment{}
		if err := scanComment(rows, comment); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, comment)
	}

	return comments, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, reviewID, commentID string) (*Comment, error) {
	query := commentSelect + ` WHERE c.id = $1 AND c.review_id = $2`

	comment := &Comment{}
	row := repository.db.QueryRow(context, query, commentID, reviewID)
	if err := scanComment(row, comment); err != nil {
		wrapped := dberr.Wrap(err, "find_comment_by_id")
		if apperr.IsNotFound(wrapped) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, wrapped
	}

	return comment, nil
}

func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	query := `
		INSERT INTO content.comments (id, review_id, author_id, text, pub_date)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := repository.db.Exec(context, query,
		comment.ID, comment.ReviewID, comment.AuthorID,
		comment.Text, comment.PubDate,
	)
	if err != nil {
		return dberr.Wrap(err, "create_comment")
	}

	return nil
}

func (repository *PostgresRepository) Update(context context.Context, comment *Comment) error {
	query := `UPDATE content.comments SET text = $2 WHERE id = $1`

	tag, err := repository.db.Exec(context, query, comment.ID, comment.Text)
	if err != nil {
		return dberr.Wrap(err, "update_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, reviewID, commentID string) error {
	query := `DELETE FROM content.comments WHERE id = $1 AND review_id = $2`

	tag, err := repository.db.Exec(context, query, commentID, reviewID)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner, comment *Comment) error {
	return row.Scan(
		&comment.ID, &comment.ReviewID, &comment.AuthorID,
		&comment.Author, &comment.Text, &comment.PubDate,
	)
}
