package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/tendant/leadflow/pkg/domain"
)

// Postgres SQLSTATE codes the repositories translate.
const (
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// isForeignKeyViolation reports whether err is a foreign key violation on
// the named constraint (any constraint when name is empty).
func isForeignKeyViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != codeForeignKeyViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// wrapConstraint maps check violations onto domain.ErrConstraintViolation
// while keeping the driver error in the chain.
func wrapConstraint(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == codeCheckViolation {
		return fmt.Errorf("%s: %w: %s: %w", op, domain.ErrConstraintViolation, pqErr.Constraint, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
