package comment

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

// List returns a review's comments in publication order. Open to everyone.
func (service *Service) List(context context.Context, titleID, reviewID string, params pagination.Params) ([]*Comment, pagination.Meta, error) {
	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return nil, pagination.Meta{}, err
	}

	comments, total, err := service.repo.ListByReview(context, reviewID, params)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("comment_service_list_failed: %w", err)
	}

	return comments, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// Get returns one comment. Open to everyone.
func (service *Service) Get(context context.Context, titleID, reviewID, commentID string) (*Comment, error) {
	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.repo.FindByID(context, reviewID, commentID)
}

// CreateInput carries a new comment body.
type CreateInput struct {
	Text string `json:"text"`
}

// Create posts a comment under a review. Any authenticated account.
func (service *Service) Create(context context.Context, actor *access.Actor, titleID, reviewID string, input CreateInput) (*Comment, error) {
	if err := access.Check(actor, access.ActionCreate, access.ResourceComment, ""); err != nil {
		return nil, err
	}

	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	v := &validate.Validator{}
	if err := v.Required("text", input.Text).MaxLen("text", input.Text, MaxTextLen).Err(); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:       uuid.New(),
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     input.Text,
		PubDate:  time.Now(),
	}

	if err := service.repo.Create(context, comment); err != nil {
		return nil, fmt.Errorf("comment_service_create_failed: %w", err)
	}

	service.logger.Info("comment_created",
		slog.String("comment_id", comment.ID),
		slog.String("review_id", reviewID),
	)

	// Re-read to pick up the joined author username.
	return service.repo.FindByID(context, reviewID, comment.ID)
}

// UpdateInput defines the mutable comment fields.
type UpdateInput struct {
	Text *string `json:"text"`
}

// Update edits a comment. Allowed for the author, moderators, and admins.
func (service *Service) Update(context context.Context, actor *access.Actor, titleID, reviewID, commentID string, input UpdateInput) (*Comment, error) {
	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := service.repo.FindByID(context, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := access.Check(actor, access.ActionUpdate, access.ResourceComment, comment.AuthorID); err != nil {
		return nil, err
	}

	if input.Text != nil {
		comment.Text = *input.Text
	}

	v := &validate.Validator{}
	if err := v.Required("text", comment.Text).MaxLen("text", comment.Text, MaxTextLen).Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, comment); err != nil {
		return nil, fmt.Errorf("comment_service_update_failed: %w", err)
	}

	service.logger.Info("comment_updated", slog.String("comment_id", comment.ID))

	return comment, nil
}

// Delete removes a comment. Allowed for the author, moderators, and admins.
func (service *Service) Delete(context context.Context, actor *access.Actor, titleID, reviewID, commentID string) error {
	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return err
	}

	comment, err := service.repo.FindByID(context, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := access.Check(actor, access.ActionDelete, access.ResourceComment, comment.AuthorID); err != nil {
		return err
	}

	if err := service.repo.Delete(context, reviewID, commentID); err != nil {
		return fmt.Errorf("comment_service_delete_failed: %w", err)
	}

	service.logger.Info("comment_deleted", slog.String("comment_id", commentID))

	return nil
}

// requireReview turns a missing parent review into a 404.
func (service *Service) requireReview(context context.Context, titleID, reviewID string) error {
	exists, err := service.repo.ReviewExists(context, titleID, reviewID)
	if err != nil {
		return fmt.Errorf("comment_service_review_check_failed: %w", err)
	}
	if !exists {
		return apperr.NotFound("Review")
	}
	return nil
}
