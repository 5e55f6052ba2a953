// Copyright (c) 2026 Kritika. All rights reserved.
// Author: dev@kritika.app

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kritika-app/kritika/internal/platform/apperr"
	"github.com/kritika-app/kritika/internal/platform/dberr"
	"github.com/kritika-app/kritika/pkg/pagination"
)

// Named unique constraints from the users schema migration. Services match on
// these to emit precise Conflict messages.
const (
	ConstraintUniqueUsername = "accounts_username_key"
	ConstraintUniqueEmail    = "accounts_email_key"
)

// userColumns is the canonical SELECT column list for scanUser.
const userColumns = `id, username, email, first_name, last_name, bio, role, created_at, updated_at`

// PostgresRepository implements [Repository] backed by the users.accounts table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a [PostgresRepository].
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users.accounts WHERE id = $1`
	return repository.findOne(context, query, id, "find_account_by_id")
}

// FindByUsername implements [Repository].
func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users.accounts WHERE username = $1`
	return repository.findOne(context, query, username, "find_account_by_username")
}

// FindByEmail implements [Repository].
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users.accounts WHERE email = $1`
	return repository.findOne(context, query, email, "find_account_by_email")
}

// List implements [Repository].
func (repository *PostgresRepository) List(context context.Context, search string, params pagination.Params) ([]*User, int, error) {
	where := ``
	args := []any{}

	if search != "" {
		where = `WHERE username ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM users.accounts %s`, where)
	total := 0
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_accounts")
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM users.accounts %s
		ORDER BY username ASC
		LIMIT $%d OFFSET $%d
	`, userColumns, where, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.db.Query(context, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_accounts")
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		user := &User{}
		if err := scanUser(rows, user); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_account")
		}
		users = append(users, user)
	}

	return users, total, nil
}

// Create implements [Repository].
func (repository *PostgresRepository) Create(context context.Context, user *User) error {
	query := `
		INSERT INTO users.accounts (id, username, email, first_name, last_name, bio, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := repository.db.Exec(context, query,
		user.ID, user.Username, user.Email,
		user.FirstName, user.LastName, user.Bio,
		user.Role, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return wrapUniqueAccount(err, "create_account")
	}

	return nil
}

// Update implements [Repository].
func (repository *PostgresRepository) Update(context context.Context, user *User) error {
	query := `
		UPDATE users.accounts
		SET username = $2, email = $3, first_name = $4, last_name = $5, bio = $6, role = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := repository.db.Exec(context, query,
		user.ID, user.Username, user.Email,
		user.FirstName, user.LastName, user.Bio,
		user.Role, user.UpdatedAt,
	)
	if err != nil {
		return wrapUniqueAccount(err, "update_account")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// DeleteByUsername implements [Repository].
func (repository *PostgresRepository) DeleteByUsername(context context.Context, username string) error {
	query := `DELETE FROM users.accounts WHERE username = $1`

	tag, err := repository.db.Exec(context, query, username)
	if err != nil {
		return dberr.Wrap(err, "delete_account")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// findOne runs a single-row query and maps the scan result.
func (repository *PostgresRepository) findOne(context context.Context, query string, arg any, action string) (*User, error) {
	user := &User{}
	row := repository.db.QueryRow(context, query, arg)

	if err := scanUser(row, user); err != nil {
		wrapped := dberr.Wrap(err, action)
		if apperr.IsNotFound(wrapped) {
			return nil, apperr.NotFound("User")
		}
		return nil, wrapped
	}

	return user, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser maps a row onto a [User] in userColumns order.
func scanUser(row rowScanner, user *User) error {
	return row.Scan(
		&user.ID, &user.Username, &user.Email,
		&user.FirstName, &user.LastName, &user.Bio,
		&user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
}

// wrapUniqueAccount attaches precise Conflict messages for the two unique
// account constraints before falling back to the generic mapping.
func wrapUniqueAccount(err error, action string) error {
	if dberr.IsUniqueViolation(err, ConstraintUniqueUsername) {
		return apperr.Conflict("Username is already taken")
	}
	if dberr.IsUniqueViolation(err, ConstraintUniqueEmail) {
		return apperr.Conflict("Email address is already registered")
	}
	return dberr.Wrap(err, action)
}
