// Package comment manages discussion threads under reviews.
//
// Comments mirror reviews structurally but carry no score and no
// one-per-author restriction.
package comment

import (
	"context"
	"time"

	"github.com/kritika-app/kritika/pkg/pagination"
)

// Comment is one remark on a review.
type Comment struct {
	ID       string `json:"id"`
	ReviewID string `json:"-"`
	// Author is the username, joined in for responses.
	Author   string    `json:"author"`
	AuthorID string    `json:"-"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// MaxTextLen caps the comment body.
const MaxTextLen = 256

// Repository defines the persistence contract for comments.
type Repository interface {
	// ReviewExists reports whether the review exists under the given title.
	// Both IDs come from the URL, so a mismatched pair is simply "not found".
	ReviewExists(context context.Context, titleID, reviewID string) (bool, error)

	// ListByReview returns a page of a review's comments in publication
	// order (oldest first). The second result is the total count.
	ListByReview(context context.Context, reviewID string, params pagination.Params) ([]*Comment, int, error)

	// FindByID returns a comment scoped to its review, or apperr.NotFound.
	FindByID(context context.Context, reviewID, commentID string) (*Comment, error)

	// Create inserts a comment.
	Create(context context.Context, comment *Comment) error

	// Update persists text changes.
	Update(context context.Context, comment *Comment) error

	// Delete removes a comment.
	Delete(context context.Context, reviewID, commentID string) error
}
