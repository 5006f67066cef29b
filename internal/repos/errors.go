package repos

import (
  "errors"
  "github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation reports whether err is a Postgres unique violation
// (SQLSTATE 23505), optionally narrowed to one constraint. Uniqueness is
// enforced at commit time, so this is where concurrent duplicates surface.
func isUniqueViolation(err error, constraint string) bool {
  var pgErr *pgconn.PgError
  if errors.As(err, &pgErr) && pgErr.Code == "23505" {
    return constraint == "" || pgErr.ConstraintName == constraint
  }
  return false
}
