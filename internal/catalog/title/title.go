// Package title manages the works of the catalog (films, books, albums...)
// together with their category, genres, and live mean rating.
package title

import (
	"context"
	"time"

	"github.com/kritika-app/kritika/internal/catalog/taxonomy"
	"github.com/kritika-app/kritika/pkg/pagination"
)

// Title is a single catalog entry. A title is never reviewed directly on
// creation; Rating stays nil until the first review arrives.
type Title struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Year        int     `json:"year"`
	Description string  `json:"description"`
	// Rating is the mean review score (1-10), or null with no reviews.
	Rating   *float64        `json:"rating"`
	Category *taxonomy.Term  `json:"category"`
	Genres   []taxonomy.Term `json:"genre"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// MaxNameLen mirrors the column width of catalog.titles.name.
const MaxNameLen = 256

// Filter bundles the catalog search options. Zero values mean "no filter".
type Filter struct {
	// Name is a case-insensitive substring match.
	Name string
	// Year is an exact release-year match; 0 disables it.
	Year int
	// CategorySlug narrows to a single category.
	CategorySlug string
	// GenreSlug narrows to titles carrying the genre.
	GenreSlug string
}

// Repository defines the persistence contract for titles.
type Repository interface {
	// List returns a page of titles ordered by name, with category, genres,
	// and rating hydrated. The second result is the total match count.
	List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error)

	// FindByID returns a fully hydrated title or apperr.NotFound.
	FindByID(context context.Context, id string) (*Title, error)

	// Create inserts a title and its genre links in one transaction.
	// categoryID may be nil; genreIDs must already be resolved.
	Create(context context.Context, title *Title, categoryID *string, genreIDs []string) error

	// Update persists the title row and, when genreIDs is non-nil, replaces
	// the genre links in the same transaction.
	Update(context context.Context, title *Title, categoryID *string, genreIDs []string) error

	// Delete removes a title. Its reviews and comments go with it by cascade.
	Delete(context context.Context, id string) error
}
