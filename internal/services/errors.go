package services

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/sajjaddev-web/desk/pkg/errors"
)

// Business-rule failures surfaced by the account lifecycle service. Each is
// a typed result with its HTTP status; none of them carry internal detail.
var (
	// ErrAccountConflict indicates the email or name is already registered.
	ErrAccountConflict = apperrors.New("ACCOUNT_CONFLICT", "An account with this information is already registered", http.StatusConflict)
	// ErrNameConflict indicates another account already uses the requested name.
	ErrNameConflict = apperrors.New("NAME_CONFLICT", "This name is already in use", http.StatusConflict)
	// ErrAccountNotFound indicates the account identifier does not resolve.
	ErrAccountNotFound = apperrors.New("ACCOUNT_NOT_FOUND", "Account not found", http.StatusNotFound)
	// ErrAlreadyActivated rejects re-activation of a verified account.
	ErrAlreadyActivated = apperrors.New("ALREADY_ACTIVATED", "Account is already activated", http.StatusBadRequest)
	// ErrNoChanges rejects an update that supplies no fields.
	ErrNoChanges = apperrors.New("NO_CHANGES_REQUESTED", "No changes requested", http.StatusBadRequest)
	// ErrInvalidActivationToken rejects activation tokens that fail verification.
	ErrInvalidActivationToken = apperrors.New("INVALID_ACTIVATION_TOKEN", "Invalid activation token", http.StatusUnauthorized)
)

// isUniqueConstraintError detects database uniqueness violations across the
// supported vendors. The database constraint is the authoritative
// uniqueness check; the pre-insert lookup only exists for friendlier
// error messages.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil && pgErr.Code == "23505" {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr != nil && myErr.Number == 1062 {
		return true
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique") ||
		strings.Contains(lower, "duplicate") ||
		strings.Contains(lower, "constraint")
}
