package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kritika-app/kritika/internal/access"
	"github.com/kritika-app/kritika/internal/platform/apperr"
	"github.com/kritika-app/kritika/internal/platform/validate"
	"github.com/kritika-app/kritika/pkg/pagination"
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

// List returns a title's reviews in publication order. Open to everyone.
func (service *Service) List(context context.Context, titleID string, params pagination.Params) ([]*Review, pagination.Meta, error) {
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, pagination.Meta{}, err
	}

	reviews, total, err := service.repo.ListByTitle(context, titleID, params)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("review_service_list_failed: %w", err)
	}

	return reviews, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// Get returns one review. Open to everyone.
func (service *Service) Get(context context.Context, titleID, reviewID string) (*Review, error) {
	return service.repo.FindByID(context, titleID, reviewID)
}

// CreateInput carries a new review body.
type CreateInput struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// Create posts the actor's review of a title. One per title per account;
// a duplicate is a Conflict regardless of content.
func (service *Service) Create(context context.Context, actor *access.Actor, titleID string, input CreateInput) (*Review, error) {
	if err := access.Check(actor, access.ActionCreate, access.ResourceReview, ""); err != nil {
		return nil, err
	}

	if err := service.requireTitle(context, titleID); err != nil {
		return nil, err
	}

	if err := validateBody(input.Text, input.Score); err != nil {
		return nil, err
	}

	review := &Review{
		ID:       uuid.New(),
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     input.Text,
		Score:    input.Score,
		PubDate:  time.Now(),
	}

	if err := service.repo.Create(context, review); err != nil {
		return nil, fmt.Errorf("review_service_create_failed: %w", err)
	}

	service.logger.Info("review_created",
		slog.String("review_id", review.ID),
		slog.String("title_id", titleID),
	)

	// Re-read to pick up the joined author username.
	return service.repo.FindByID(context, titleID, review.ID)
}

// UpdateInput defines the mutable review fields. Nil pointers leave the
// stored value untouched.
type UpdateInput struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// Update edits a review. Allowed for the author, moderators, and admins.
func (service *Service) Update(context context.Context, actor *access.Actor, titleID, reviewID string, input UpdateInput) (*Review, error) {
	review, err := service.repo.FindByID(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := access.Check(actor, access.ActionUpdate, access.ResourceReview, review.AuthorID); err != nil {
		return nil, err
	}

	if input.Text != nil {
		review.Text = *input.Text
	}
	if input.Score != nil {
		review.Score = *input.Score
	}

	if err := validateBody(review.Text, review.Score); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, review); err != nil {
		return nil, fmt.Errorf("review_service_update_failed: %w", err)
	}

	service.logger.Info("review_updated", slog.String("review_id", review.ID))

	return review, nil
}

// Delete removes a review and its comments. Allowed for the author,
// moderators, and admins.
func (service *Service) Delete(context context.Context, actor *access.Actor, titleID, reviewID string) error {
	review, err := service.repo.FindByID(context, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := access.Check(actor, access.ActionDelete, access.ResourceReview, review.AuthorID); err != nil {
		return err
	}

	if err := service.repo.Delete(context, titleID, reviewID); err != nil {
		return fmt.Errorf("review_service_delete_failed: %w", err)
	}

	service.logger.Info("review_deleted", slog.String("review_id", reviewID))

	return nil
}

// requireTitle turns a missing parent title into a 404.
func (service *Service) requireTitle(context context.Context, titleID string) error {
	exists, err := service.repo.TitleExists(context, titleID)
	if err != nil {
		return fmt.Errorf("review_service_title_check_failed: %w", err)
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}

// validateBody checks the shared text/score rules for create and update.
func validateBody(text string, score int) error {
	v := &validate.Validator{}
	return v.
		Required("text", text).
		MaxLen("text", text, MaxTextLen).
		Range("score", score, MinScore, MaxScore).
		Err()
}
