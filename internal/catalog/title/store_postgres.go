package title

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kritika-app/kritika/internal/catalog/taxonomy"
	"github.com/kritika-app/kritika/internal/platform/apperr"
	"github.com/kritika-app/kritika/internal/platform/dberr"
	"github.com/kritika-app/kritika/pkg/pagination"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// titleSelect hydrates the title row, its nullable category, and the live
// mean rating in one pass. The AVG subquery returns NULL with no reviews,
// which maps straight onto Rating *float64.
const titleSelect = `
	SELECT t.id, t.name, t.year, t.description, t.created_at, t.updated_at,
	       (SELECT AVG(r.score)::float8 FROM content.reviews r WHERE r.title_id = t.id),
	       c.id, c.name, c.slug, c.created_at
	FROM catalog.titles t
	LEFT JOIN catalog.categories c ON c.id = t.category_id
`

func (repository *PostgresRepository) List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error) {
	where, args := buildFilter(filter)

	countQuery := `
		SELECT COUNT(*)
		FROM catalog.titles t
		LEFT JOIN catalog.categories c ON c.id = t.category_id
	` + where
	total := 0
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_titles")
	}

	listQuery := fmt.Sprintf(`%s %s ORDER BY t.name ASC LIMIT $%d OFFSET $%d`,
		titleSelect, where, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.db.Query(context, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}
	defer rows.Close()

	titles := make([]*Title, 0)
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_title")
		}
		titles = append(titles, title)
	}
	rows.Close()

	if err := repository.attachGenres(context, titles); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Title, error) {
	query := titleSelect + ` WHERE t.id = $1`

	rows, err := repository.db.Query(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "find_title_by_id")
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, apperr.NotFound("Title")
	}

	title, err := scanTitle(rows)
	if err != nil {
		return nil, dberr.Wrap(err, "scan_title")
	}
	rows.Close()

	if err := repository.attachGenres(context, []*Title{title}); err != nil {
		return nil, err
	}

	return title, nil
}

func (repository *PostgresRepository) Create(context context.Context, title *Title, categoryID *string, genreIDs []string) error {
	return repository.inTx(context, "create_title", func(tx pgx.Tx) error {
		query := `
			INSERT INTO catalog.titles (id, name, year, description, category_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err := tx.Exec(context, query,
			title.ID, title.Name, title.Year, title.Description,
			categoryID, title.CreatedAt, title.UpdatedAt,
		)
		if err != nil {
			return err
		}

		return insertGenreLinks(context, tx, title.ID, genreIDs)
	})
}

func (repository *PostgresRepository) Update(context context.Context, title *Title, categoryID *string, genreIDs []string) error {
	return repository.inTx(context, "update_title", func(tx pgx.Tx) error {
		query := `
			UPDATE catalog.titles
			SET name = $2, year = $3, description = $4, category_id = $5, updated_at = $6
			WHERE id = $1
		`
		tag, err := tx.Exec(context, query,
			title.ID, title.Name, title.Year, title.Description,
			categoryID, title.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Title")
		}

		if genreIDs == nil {
			return nil
		}

		if _, err := tx.Exec(context, `DELETE FROM catalog.title_genres WHERE title_id = $1`, title.ID); err != nil {
			return err
		}
		return insertGenreLinks(context, tx, title.ID, genreIDs)
	})
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	tag, err := repository.db.Exec(context, `DELETE FROM catalog.titles WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "delete_title")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}

	return nil
}

// inTx runs fn inside a transaction, translating raw errors through dberr
// unless they already carry an AppError.
func (repository *PostgresRepository) inTx(context context.Context, action string, fn func(tx pgx.Tx) error) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, action+"_begin")
	}
	defer func() { _ = tx.Rollback(context) }()

	if err := fn(tx); err != nil {
		if apperr.IsAppError(err) {
			return err
		}
		return dberr.Wrap(err, action)
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, action+"_commit")
	}

	return nil
}

// insertGenreLinks writes one link row per genre.
func insertGenreLinks(context context.Context, tx pgx.Tx, titleID string, genreIDs []string) error {
	for _, genreID := range genreIDs {
		_, err := tx.Exec(context,
			`INSERT INTO catalog.title_genres (title_id, genre_id) VALUES ($1, $2)`,
			titleID, genreID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// attachGenres hydrates Genres for a batch of titles with a single query.
func (repository *PostgresRepository) attachGenres(context context.Context, titles []*Title) error {
	if len(titles) == 0 {
		return nil
	}

	byID := make(map[string]*Title, len(titles))
	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		title.Genres = make([]taxonomy.Term, 0)
		byID[title.ID] = title
		ids = append(ids, title.ID)
	}

	query := `
		SELECT tg.title_id, g.id, g.name, g.slug, g.created_at
		FROM catalog.title_genres tg
		JOIN catalog.genres g ON g.id = tg.genre_id
		WHERE tg.title_id = ANY($1)
		ORDER BY g.name ASC
	`
	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "list_title_genres")
	}
	defer rows.Close()

	for rows.Next() {
		var titleID string
		term := taxonomy.Term{}
		if err := rows.Scan(&titleID, &term.ID, &term.Name, &term.Slug, &term.CreatedAt); err != nil {
			return dberr.Wrap(err, "scan_title_genre")
		}
		if title, ok := byID[titleID]; ok {
			title.Genres = append(title.Genres, term)
		}
	}

	return nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTitle maps a titleSelect row, folding the nullable category columns
// into a *taxonomy.Term.
func scanTitle(row rowScanner) (*Title, error) {
	title := &Title{}
	var catID, catName, catSlug *string
	var catCreated *time.Time

	err := row.Scan(
		&title.ID, &title.Name, &title.Year, &title.Description,
		&title.CreatedAt, &title.UpdatedAt, &title.Rating,
		&catID, &catName, &catSlug, &catCreated,
	)
	if err != nil {
		return nil, err
	}

	if catID != nil {
		title.Category = &taxonomy.Term{
			ID:        *catID,
			Name:      *catName,
			Slug:      *catSlug,
			CreatedAt: *catCreated,
		}
	}

	return title, nil
}

// buildFilter assembles the WHERE clause for List from the active filters.
func buildFilter(filter Filter) (string, []any) {
	conditions := []string{}
	args := []any{}

	next := func() int { return len(args) + 1 }

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf(`t.name ILIKE '%%' || $%d || '%%'`, next()))
		args = append(args, filter.Name)
	}
	if filter.Year != 0 {
		conditions = append(conditions, fmt.Sprintf(`t.year = $%d`, next()))
		args = append(args, filter.Year)
	}
	if filter.CategorySlug != "" {
		conditions = append(conditions, fmt.Sprintf(`c.slug = $%d`, next()))
		args = append(args, filter.CategorySlug)
	}
	if filter.GenreSlug != "" {
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM catalog.title_genres tg
			JOIN catalog.genres g ON g.id = tg.genre_id
			WHERE tg.title_id = t.id AND g.slug = $%d
		)`, next()))
		args = append(args, filter.GenreSlug)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}
