package httpx

import (
	"errors"
	"net/http"

	"github.com/rolodex-app/rolodex/internal/shared"
)

// RespondError maps domain errors to HTTP problem responses. Credential and
// ownership failures are deliberately collapsed to fixed messages so the
// boundary never reveals which check failed.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", "contact not found")
	case errors.Is(err, shared.ErrDuplicateEmail):
		Problem(w, http.StatusConflict, "Duplicate", "email already registered")
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "could not validate credentials")
	case errors.Is(err, shared.ErrInvalidVerification):
		Problem(w, http.StatusBadRequest, "Invalid Token", "invalid or consumed verification token")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
