package title

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kritika-app/kritika/internal/access"
	"github.com/kritika-app/kritika/internal/catalog/taxonomy"
	"github.com/kritika-app/kritika/internal/platform/apperr"
	"github.com/kritika-app/kritika/internal/platform/validate"
	"github.com/kritika-app/kritika/pkg/pagination"
	"github.com/kritika-app/kritika/pkg/uuid"
)

// TermResolver resolves vocabulary slugs from request payloads.
// Implemented by [taxonomy.PostgresRepository].
type TermResolver interface {
	FindBySlug(context context.Context, kind taxonomy.Kind, slug string) (*taxonomy.Term, error)
}

type Service struct {
	repo   Repository
	terms  TermResolver
	logger *slog.Logger
}

func NewService(repo Repository, terms TermResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		terms:  terms,
		logger: logger,
	}
}

// List returns a page of titles. Open to everyone.
func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]*Title, pagination.Meta, error) {
	titles, total, err := service.repo.List(context, filter, params)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("title_service_list_failed: %w", err)
	}
	return titles, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// Get returns one title with rating, category, and genres. Open to everyone.
func (service *Service) Get(context context.Context, id string) (*Title, error) {
	return service.repo.FindByID(context, id)
}

// CreateInput carries a new catalog entry. Category and genres are referenced
// by slug.
type CreateInput struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

// Create adds a title to the catalog. Admin only.
func (service *Service) Create(context context.Context, actor *access.Actor, input CreateInput) (*Title, error) {
	if err := access.Check(actor, access.ActionCreate, access.ResourceCatalog, ""); err != nil {
		return nil, err
	}

	v := &validate.Validator{}
	err := v.
		Required("name", input.Name).
		MaxLen("name", input.Name, MaxNameLen).
		Custom("year", input.Year == 0, "This field is required").
		YearNotFuture("year", input.Year).
		Custom("genre", len(input.Genre) == 0, "At least one genre is required").
		Err()
	if err != nil {
		return nil, err
	}

	categoryID, err := service.resolveCategory(context, input.Category)
	if err != nil {
		return nil, err
	}
	genreIDs, err := service.resolveGenres(context, input.Genre)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	title := &Title{
		ID:          uuid.New(),
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := service.repo.Create(context, title, categoryID, genreIDs); err != nil {
		return nil, fmt.Errorf("title_service_create_failed: %w", err)
	}

	service.logger.Info("title_created", slog.String("title_id", title.ID))

	// Re-read for the hydrated category/genre/rating shape.
	return service.repo.FindByID(context, title.ID)
}

// UpdateInput defines the mutable subset of title fields. Nil pointers leave
// the stored value untouched; an empty Category string clears the category.
type UpdateInput struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

// Update applies a partial change to a title. Admin only.
func (service *Service) Update(context context.Context, actor *access.Actor, id string, input UpdateInput) (*Title, error) {
	if err := access.Check(actor, access.ActionUpdate, access.ResourceCatalog, ""); err != nil {
		return nil, err
	}

	title, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("title_service_update_lookup_failed: %w", err)
	}

	v := &validate.Validator{}
	if input.Name != nil {
		v.Required("name", *input.Name).MaxLen("name", *input.Name, MaxNameLen)
	}
	if input.Year != nil {
		v.Custom("year", *input.Year == 0, "This field is required").
			YearNotFuture("year", *input.Year)
	}
	if input.Genre != nil {
		v.Custom("genre", len(*input.Genre) == 0, "At least one genre is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if input.Name != nil {
		title.Name = *input.Name
	}
	if input.Year != nil {
		title.Year = *input.Year
	}
	if input.Description != nil {
		title.Description = *input.Description
	}

	// Keep the current category unless the patch names one.
	var categoryID *string
	if title.Category != nil {
		categoryID = &title.Category.ID
	}
	if input.Category != nil {
		categoryID, err = service.resolveCategory(context, *input.Category)
		if err != nil {
			return nil, err
		}
	}

	var genreIDs []string
	if input.Genre != nil {
		genreIDs, err = service.resolveGenres(context, *input.Genre)
		if err != nil {
			return nil, err
		}
	}

	title.UpdatedAt = time.Now()
	if err := service.repo.Update(context, title, categoryID, genreIDs); err != nil {
		return nil, fmt.Errorf("title_service_update_failed: %w", err)
	}

	service.logger.Info("title_updated", slog.String("title_id", title.ID))

	return service.repo.FindByID(context, title.ID)
}

// Delete removes a title and, by cascade, its reviews and comments. Admin only.
func (service *Service) Delete(context context.Context, actor *access.Actor, id string) error {
	if err := access.Check(actor, access.ActionDelete, access.ResourceCatalog, ""); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return fmt.Errorf("title_service_delete_failed: %w", err)
	}

	service.logger.Info("title_deleted", slog.String("title_id", id))

	return nil
}

// resolveCategory maps a category slug to its ID. An empty slug means
// "no category". Unknown slugs are a validation failure, not a 404: the
// missing resource is part of the request body, not the URL.
func (service *Service) resolveCategory(context context.Context, slug string) (*string, error) {
	if slug == "" {
		return nil, nil
	}

	term, err := service.terms.FindBySlug(context, taxonomy.KindCategory, slug)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, validate.RequiredError("category", fmt.Sprintf("Unknown category %q", slug))
		}
		return nil, fmt.Errorf("title_service_resolve_category_failed: %w", err)
	}

	return &term.ID, nil
}

// resolveGenres maps genre slugs to IDs, dropping duplicates.
func (service *Service) resolveGenres(context context.Context, slugs []string) ([]string, error) {
	seen := make(map[string]bool, len(slugs))
	ids := make([]string, 0, len(slugs))

	for _, slug := range slugs {
		if seen[slug] {
			continue
		}
		seen[slug] = true

		term, err := service.terms.FindBySlug(context, taxonomy.KindGenre, slug)
		if err != nil {
			if apperr.IsNotFound(err) {
				return nil, validate.RequiredError("genre", fmt.Sprintf("Unknown genre %q", slug))
			}
			return nil, fmt.Errorf("title_service_resolve_genre_failed: %w", err)
		}
		ids = append(ids, term.ID)
	}

	return ids, nil
}
