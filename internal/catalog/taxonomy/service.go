package taxonomy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kritika-app/kritika/internal/access"
	"github.com/kritika-app/kritika/internal/platform/validate"
	"github.com/kritika-app/kritika/pkg/pagination"
	"github.com/kritika-app/kritika/pkg/slug"
	"github.com/kritika-app/kritika/pkg/uuid"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns a page of terms ordered by name. Open to everyone.
func (service *Service) List(context context.Context, kind Kind, search string, params pagination.Params) ([]*Term, pagination.Meta, error) {
	terms, total, err := service.repo.List(context, kind, search, params)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("taxonomy_service_list_failed: %w", err)
	}
	return terms, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// CreateInput carries a new term. Slug is optional; when empty it is
// generated from the name.
type CreateInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Create adds a term to a vocabulary. Admin only.
func (service *Service) Create(context context.Context, actor *access.Actor, kind Kind, input CreateInput) (*Term, error) {
	if err := access.Check(actor, access.ActionCreate, access.ResourceCatalog, ""); err != nil {
		return nil, err
	}

	if input.Slug == "" {
		input.Slug = slug.From(input.Name)
	}

	v := &validate.Validator{}
	err := v.
		Required("name", input.Name).
		MaxLen("name", input.Name, MaxNameLen).
		Required("slug", input.Slug).
		MaxLen("slug", input.Slug, MaxSlugLen).
		Slug("slug", input.Slug).
		Err()
	if err != nil {
		return nil, err
	}

	term := &Term{
		ID:        uuid.New(),
		Name:      input.Name,
		Slug:      input.Slug,
		CreatedAt: time.Now(),
	}

	if err := service.repo.Create(context, kind, term); err != nil {
		return nil, fmt.Errorf("taxonomy_service_create_failed: %w", err)
	}

	service.logger.Info("taxonomy_term_created",
		slog.String("kind", string(kind)),
		slog.String("slug", term.Slug),
	)

	return term, nil
}

// Delete removes a term by slug. Admin only.
func (service *Service) Delete(context context.Context, actor *access.Actor, kind Kind, termSlug string) error {
	if err := access.Check(actor, access.ActionDelete, access.ResourceCatalog, ""); err != nil {
		return err
	}

	if err := service.repo.DeleteBySlug(context, kind, termSlug); err != nil {
		return fmt.Errorf("taxonomy_service_delete_failed: %w", err)
	}

	service.logger.Info("taxonomy_term_deleted",
		slog.String("kind", string(kind)),
		slog.String("slug", termSlug),
	)

	return nil
}
