package transport

import (
	"errors"
	"net/http"

	"storefront/internal/repository"
)

// storeErrorStatus maps store errors onto the coarse status contract used by
// the mutating routes: lookup misses and stock shortfalls are client errors,
// anything else is a failed persistence write.
func storeErrorStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCartNotFound),
		errors.Is(err, repository.ErrCartItemNotFound),
		errors.Is(err, repository.ErrInsufficientStock):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
