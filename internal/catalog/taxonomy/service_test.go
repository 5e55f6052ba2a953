package taxonomy_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kritika-app/kritika/internal/access"
	"github.com/kritika-app/kritika/internal/catalog/taxonomy"
	"github.com/kritika-app/kritika/internal/platform/apperr"
	"github.com/kritika-app/kritika/internal/platform/sec"
	"github.com/kritika-app/kritika/pkg/pagination"
)

// # Test Doubles

type fakeRepository struct {
	terms   map[taxonomy.Kind]map[string]*taxonomy.Term
	deleted []string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		terms: map[taxonomy.Kind]map[string]*taxonomy.Term{
			taxonomy.KindCategory: {},
			taxonomy.KindGenre:    {},
		},
	}
}

func (r *fakeRepository) List(_ context.Context, kind taxonomy.Kind, _ string, _ pagination.Params) ([]*taxonomy.Term, int, error) {
	var found []*taxonomy.Term
	for _, term := range r.terms[kind] {
		found = append(found, term)
	}
	return found, len(found), nil
}

func (r *fakeRepository) FindBySlug(_ context.Context, kind taxonomy.Kind, slug string) (*taxonomy.Term, error) {
	if term, ok := r.terms[kind][slug]; ok {
		return term, nil
	}
	return nil, apperr.NotFound("Category")
}

func (r *fakeRepository) Create(_ context.Context, kind taxonomy.Kind, term *taxonomy.Term) error {
	if _, ok := r.terms[kind][term.Slug]; ok {
		return apperr.Conflict("Slug is already in use")
	}
	r.terms[kind][term.Slug] = term
	return nil
}

func (r *fakeRepository) DeleteBySlug(_ context.Context, kind taxonomy.Kind, slug string) error {
	if _, ok := r.terms[kind][slug]; !ok {
		return apperr.NotFound("Category")
	}
	delete(r.terms[kind], slug)
	r.deleted = append(r.deleted, slug)
	return nil
}

var (
	adminActor   = &access.Actor{ID: "admin-1", Role: sec.RoleAdmin}
	regularActor = &access.Actor{ID: "user-1", Role: sec.RoleUser}
)

func newService(t *testing.T) (*taxonomy.Service, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return taxonomy.NewService(repo, logger), repo
}

// # Create

/*
TestCreate_GeneratesSlug verifies that a missing slug is derived from the
name.
*/
func TestCreate_GeneratesSlug(t *testing.T) {
	service, _ := newService(t)

	term, err := service.Create(context.Background(), adminActor, taxonomy.KindGenre, taxonomy.CreateInput{
		Name: "Science Fiction",
	})

	require.NoError(t, err)
	assert.Equal(t, "science-fiction", term.Slug)
	assert.NotEmpty(t, term.ID)
}

/*
TestCreate_AdminOnly verifies the write surface is admin-only while reads
remain public.
*/
func TestCreate_AdminOnly(t *testing.T) {
	service, _ := newService(t)
	input := taxonomy.CreateInput{Name: "Movies", Slug: "movies"}

	_, err := service.Create(context.Background(), regularActor, taxonomy.KindCategory, input)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	_, err = service.Create(context.Background(), nil, taxonomy.KindCategory, input)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	_, _, err = service.List(context.Background(), taxonomy.KindCategory, "", pagination.Params{Page: 1, Limit: 20})
	assert.NoError(t, err)
}

/*
TestCreate_ValidatesSlugFormat verifies explicit slugs must follow the URL
slug format.
*/
func TestCreate_ValidatesSlugFormat(t *testing.T) {
	service, _ := newService(t)

	_, err := service.Create(context.Background(), adminActor, taxonomy.KindGenre, taxonomy.CreateInput{
		Name: "Drama",
		Slug: "Not A Slug",
	})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestCreate_DuplicateSlug verifies a second term with the same slug is a
Conflict.
*/
func TestCreate_DuplicateSlug(t *testing.T) {
	service, _ := newService(t)

	_, err := service.Create(context.Background(), adminActor, taxonomy.KindGenre, taxonomy.CreateInput{Name: "Drama", Slug: "drama"})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), adminActor, taxonomy.KindGenre, taxonomy.CreateInput{Name: "Dramas", Slug: "drama"})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

// # Delete

/*
TestDelete verifies admin-only removal by slug and the missing-term 404.
*/
func TestDelete(t *testing.T) {
	service, repo := newService(t)
	_, err := service.Create(context.Background(), adminActor, taxonomy.KindCategory, taxonomy.CreateInput{Name: "Movies", Slug: "movies"})
	require.NoError(t, err)

	err = service.Delete(context.Background(), regularActor, taxonomy.KindCategory, "movies")
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	err = service.Delete(context.Background(), adminActor, taxonomy.KindCategory, "movies")
	require.NoError(t, err)
	assert.Equal(t, []string{"movies"}, repo.deleted)

	err = service.Delete(context.Background(), adminActor, taxonomy.KindCategory, "movies")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
