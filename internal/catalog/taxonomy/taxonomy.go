// Package taxonomy manages the two classification vocabularies of the
// catalog: categories (one per title) and genres (many per title).
//
// Both kinds share the same shape and operations, so a single service and
// repository handle them, parameterized by [Kind].
package taxonomy

import (
	"context"
	"time"

	"github.com/kritika-app/kritika/pkg/pagination"
)

// Kind selects which vocabulary an operation targets.
type Kind string

const (
	KindCategory Kind = "category"
	KindGenre    Kind = "genre"
)

// Term is a single vocabulary entry ("Movies", "science-fiction", ...).
type Term struct {
	ID        string    `json:"-"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}

// Field limits mirroring the catalog schema column widths.
const (
	MaxNameLen = 256
	MaxSlugLen = 50
)

// Repository defines the persistence contract for vocabulary terms.
type Repository interface {
	// List returns a page of terms ordered by name, optionally filtered by a
	// case-insensitive name substring. The second result is the total match
	// count across all pages.
	List(context context.Context, kind Kind, search string, params pagination.Params) ([]*Term, int, error)

	// FindBySlug returns the term with the given slug, or apperr.NotFound.
	FindBySlug(context context.Context, kind Kind, slug string) (*Term, error)

	// Create inserts a new term. Duplicate slugs yield apperr.Conflict.
	Create(context context.Context, kind Kind, term *Term) error

	// DeleteBySlug removes a term. Titles referencing a deleted category keep
	// existing with a null category; genre links are removed by cascade.
	DeleteBySlug(context context.Context, kind Kind, slug string) error
}
