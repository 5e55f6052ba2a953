// Package review manages user reviews of catalog titles.
//
// Every account gets exactly one review per title, enforced by a unique
// index so concurrent submissions cannot slip a duplicate through. The
// title's mean rating is never stored; the catalog derives it from these
// rows on read.
package review

import (
	"context"
	"time"

	"github.com/kritika-app/kritika/pkg/pagination"
)

// Review is one account's verdict on one title.
type Review struct {
	ID      string `json:"id"`
	TitleID string `json:"-"`
	// Author is the username, joined in for responses.
	Author   string    `json:"author"`
	AuthorID string    `json:"-"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// Score bounds, inclusive.
const (
	MinScore = 1
	MaxScore = 10
)

// MaxTextLen caps the review body.
const MaxTextLen = 5000

// Repository defines the persistence contract for reviews.
type Repository interface {
	// TitleExists reports whether a catalog title exists.
	TitleExists(context context.Context, titleID string) (bool, error)

	// ListByTitle returns a page of a title's reviews in publication order
	// (oldest first). The second result is the total count.
	ListByTitle(context context.Context, titleID string, params pagination.Params) ([]*Review, int, error)

	// FindByID returns a review scoped to its title, or apperr.NotFound.
	FindByID(context context.Context, titleID, reviewID string) (*Review, error)

	// Create inserts a review. A second review by the same author on the
	// same title yields apperr.Conflict.
	Create(context context.Context, review *Review) error

	// Update persists text and score changes.
	Update(context context.Context, review *Review) error

	// Delete removes a review and, by cascade, its comments.
	Delete(context context.Context, titleID, reviewID string) error
}
