package repositories

import (
	"errors"
	"strings"

	apperrors "kudi/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE codes surfaced by postgres.
const (
	pgUniqueViolation       = "23505"
	pgForeignKeyViolation   = "23503"
	pgCheckViolation        = "23514"
	pgInsufficientPrivilege = "42501"
)

const amountConstraint = "chk_transactions_amount"

// mapError translates driver errors into domain errors. Errors that already
// carry a domain code pass through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var de *apperrors.DomainError
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrConflict.Wrap(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.ErrConflict.Wrap(err)
		case pgCheckViolation:
			if pgErr.ConstraintName == amountConstraint {
				return apperrors.ErrInvalidTransactionAmount.Wrap(err)
			}
			return apperrors.ErrInvalidRequest.Wrap(err)
		case pgForeignKeyViolation:
			return apperrors.ErrInvalidRequest.Wrap(err)
		case pgInsufficientPrivilege:
			return apperrors.ErrRowLevelSecurity.Wrap(err)
		}
		return apperrors.ErrDataAccess.Wrap(err)
	}

	// sqlite reports constraint failures as text
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return apperrors.ErrConflict.Wrap(err)
	case strings.Contains(msg, "CHECK constraint failed: "+amountConstraint):
		return apperrors.ErrInvalidTransactionAmount.Wrap(err)
	case strings.Contains(msg, "CHECK constraint failed"), strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return apperrors.ErrInvalidRequest.Wrap(err)
	}
	return apperrors.ErrDataAccess.Wrap(err)
}
