package taxonomy

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kritika-app/kritika/internal/platform/apperr"
	"github.com/kritika-app/kritika/internal/platform/dberr"
	"github.com/kritika-app/kritika/pkg/pagination"
)

// Named unique constraints from the catalog schema migration.
const (
	ConstraintUniqueCategorySlug = "categories_slug_key"
	ConstraintUniqueGenreSlug    = "genres_slug_key"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// tableFor maps a kind to its fully-qualified table. The whitelist keeps
// table names out of caller control.
func tableFor(kind Kind) string {
	if kind == KindGenre {
		return "catalog.genres"
	}
	return "catalog.categories"
}

func (repository *PostgresRepository) List(context context.Context, kind Kind, search string, params pagination.Params) ([]*Term, int, error) {
	table := tableFor(kind)
	where := ``
	args := []any{}

	if search != "" {
		where = `WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, table, where)
	total := 0
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_"+string(kind))
	}

	listQuery := fmt.Sprintf(`
		SELECT id, name, slug, created_at FROM %s %s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d
	`, table, where, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.db.Query(context, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_"+string(kind))
	}
	defer rows.Close()

	terms := make([]*Term, 0)
	for rows.Next() {
		term := &Term{}
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug, &term.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_"+string(kind))
		}
		terms = append(terms, term)
	}

	return terms, total, nil
}

func (repository *PostgresRepository) FindBySlug(context context.Context, kind Kind, slug string) (*Term, error) {
	query := fmt.Sprintf(`SELECT id, name, slug, created_at FROM %s WHERE slug = $1`, tableFor(kind))

	term := &Term{}
	err := repository.db.QueryRow(context, query, slug).Scan(&term.ID, &term.Name, &term.Slug, &term.CreatedAt)
	if err != nil {
		wrapped := dberr.Wrap(err, "find_"+string(kind)+"_by_slug")
		if apperr.IsNotFound(wrapped) {
			return nil, apperr.NotFound(titleCase(kind))
		}
		return nil, wrapped
	}

	return term, nil
}

func (repository *PostgresRepository) Create(context context.Context, kind Kind, term *Term) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, name, slug, created_at) VALUES ($1, $2, $3, $4)`, tableFor(kind))

	_, err := repository.db.Exec(context, query, term.ID, term.Name, term.Slug, term.CreatedAt)
	if err != nil {
		if dberr.IsUniqueViolation(err, ConstraintUniqueCategorySlug) || dberr.IsUniqueViolation(err, ConstraintUniqueGenreSlug) {
			return apperr.Conflict("Slug is already in use")
		}
		return dberr.Wrap(err, "create_"+string(kind))
	}

	return nil
}

func (repository *PostgresRepository) DeleteBySlug(context context.Context, kind Kind, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE slug = $1`, tableFor(kind))

	tag, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "delete_"+string(kind))
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(titleCase(kind))
	}

	return nil
}

// titleCase renders a kind as a client-facing resource name.
func titleCase(kind Kind) string {
	if kind == KindGenre {
		return "Genre"
	}
	return "Category"
}
