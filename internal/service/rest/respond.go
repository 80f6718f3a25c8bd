package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/service/report"
)

// errorResponse — единый формат тела ошибки API.
type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("failed to encode response body")
	}
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusForError(err), errorResponse{Error: err.Error()})
}

// statusForError переводит доменные ошибки в HTTP-статусы.
func statusForError(err error) int {
	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrVersionConflict),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrIdempotencyHashMismatch),
		errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrProductNameRequired),
		errors.Is(err, domain.ErrEmployeeNameRequired),
		errors.Is(err, domain.ErrCustomerNameRequired),
		errors.Is(err, domain.ErrSupplierNameRequired),
		errors.Is(err, domain.ErrCustomerRequired),
		errors.Is(err, domain.ErrClerkRequired),
		errors.Is(err, domain.ErrQuantityNegative),
		errors.Is(err, domain.ErrQuantityInvalid),
		errors.Is(err, domain.ErrPriceInvalid),
		errors.Is(err, domain.ErrSaleKindInvalid),
		errors.Is(err, domain.ErrUsernameRequired),
		errors.Is(err, domain.ErrPasswordRequired),
		errors.Is(err, domain.ErrRoleInvalid),
		errors.Is(err, report.ErrPeriodInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
