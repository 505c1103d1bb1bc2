package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors shared by repositories for stable mapping at the
// handler boundary.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateMobile   = errors.New("client with this mobile already exists")
	ErrDuplicateUsername = errors.New("admin with this username already exists")
)

// isUniqueViolation reports whether the error is a Postgres unique
// constraint violation. The store-level constraint is the backstop for the
// advisory duplicate check, which can race across concurrent requests.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
