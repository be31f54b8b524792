package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/learnpath-backend/internal/pkg/errors"
)

// MapError tags repo failures with the generic sentinels so callers can
// branch with errors.Is. The original error stays in the chain.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, pkgerrors.ErrNotFound),
		errors.Is(err, pkgerrors.ErrConflict),
		errors.Is(err, pkgerrors.ErrInvalidArgument),
		errors.Is(err, pkgerrors.ErrUnavailable):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, errors.Join(pkgerrors.ErrNotFound, err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w", op, errors.Join(pkgerrors.ErrConflict, err))
		case "23503", "23502": // foreign_key_violation, not_null_violation
			return fmt.Errorf("%s: %w", op, errors.Join(pkgerrors.ErrInvalidArgument, err))
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "unique constraint"):
		return fmt.Errorf("%s: %w", op, errors.Join(pkgerrors.ErrConflict, err))
	case strings.Contains(msg, "foreign key constraint"):
		return fmt.Errorf("%s: %w", op, errors.Join(pkgerrors.ErrInvalidArgument, err))
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "database is closed"),
		strings.Contains(msg, "bad connection"):
		return fmt.Errorf("%s: %w", op, errors.Join(pkgerrors.ErrUnavailable, err))
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
