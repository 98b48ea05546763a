package helpers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pressroom/internal/apperrors"
)

type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{Data: data, Error: ""})
	if err != nil {
		return
	}
}

// Raw writes the payload without the Response envelope, for endpoints
// whose body shape is part of the public contract.
func Raw(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, status int, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{Data: nil, Error: errMsg})
	if err != nil {
		return
	}
}

// ErrorFrom is the single mapping point from the error taxonomy to
// HTTP statuses. Store outages degrade to an explicit 503 instead of
// serving partial data.
func ErrorFrom(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrUnauthorized):
		Error(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, apperrors.ErrForbidden):
		Error(w, http.StatusForbidden, "insufficient privileges")
	case errors.Is(err, apperrors.ErrNotFound):
		Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, apperrors.ErrTimeout):
		Error(w, http.StatusGatewayTimeout, "request timed out")
	case errors.Is(err, apperrors.ErrStorage), errors.Is(err, apperrors.ErrRegistry):
		Error(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}
