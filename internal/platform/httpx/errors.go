package httpx

import (
	"errors"
	"net/http"

	"github.com/sekolahku/sekolahku/internal/shared"
)

// RespondError maps domain errors to envelope responses. Unexpected errors
// surface as a generic message: detail belongs in the server log, never in
// the response body.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, shared.ErrSessionInvalid):
		Error(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, shared.ErrAccountDeactivated):
		Error(w, http.StatusForbidden, "Account deactivated")
	case errors.Is(err, shared.ErrForbidden):
		Error(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, shared.ErrNotFound):
		Error(w, http.StatusNotFound, "Not found")
	case errors.Is(err, shared.ErrDuplicate):
		Error(w, http.StatusConflict, "Duplicate entry")
	case errors.Is(err, shared.ErrValidation):
		Error(w, http.StatusBadRequest, "Validation failed")
	default:
		Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
