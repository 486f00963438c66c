package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/howstheair/dashboard/internal/airquality"
	"github.com/howstheair/dashboard/internal/api/middleware"
	"github.com/howstheair/dashboard/internal/api/models"
	"github.com/howstheair/dashboard/internal/api/response"
	"github.com/howstheair/dashboard/internal/backend"
	"github.com/howstheair/dashboard/internal/provider/resilience"
)

// writeError maps a service error to a problem response. Backend 4xx keep
// their status and message, other backend failures become 502, and an
// unreachable backend is 503. fallback is the detail used when the backend
// gave no message.
func writeError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error, fallback string) {
	var apiErr *backend.APIError

	switch {
	case errors.Is(err, airquality.ErrInvalidDateRange):
		response.BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: "endDate", Message: "must not be before startDate", Code: "OUT_OF_RANGE"},
		})
	case errors.Is(err, airquality.ErrStationNotFound):
		response.NotFound(w, r, backend.MessageOf(err, "station not found"))
	case errors.Is(err, airquality.ErrToggleConflict):
		response.Error(w, r, models.NewConflict(middleware.GetRequestID(r.Context()), err.Error()))
	case errors.Is(err, backend.ErrUnavailable), errors.Is(err, resilience.ErrCircuitOpen):
		response.ServiceUnavailable(w, r, "the air-quality backend is temporarily unavailable")
	case errors.As(err, &apiErr) && apiErr.IsClientError():
		problem := models.NewProblem(clientProblemType(apiErr.StatusCode), http.StatusText(apiErr.StatusCode),
			apiErr.StatusCode, middleware.GetRequestID(r.Context()))
		problem.Detail = backend.MessageOf(err, fallback)
		response.Error(w, r, problem)
	case errors.As(err, &apiErr):
		log.Error().Err(err).Str("request_id", middleware.GetRequestID(r.Context())).Msg("backend request failed")
		response.BadGateway(w, r, backend.MessageOf(err, fallback))
	default:
		log.Error().Err(err).Str("request_id", middleware.GetRequestID(r.Context())).Msg("request failed")
		response.BadGateway(w, r, fallback)
	}
}

func clientProblemType(status int) string {
	switch status {
	case http.StatusNotFound:
		return models.ProblemTypeNotFound
	case http.StatusConflict:
		return models.ProblemTypeConflict
	case http.StatusUnauthorized, http.StatusForbidden:
		return models.ProblemTypeUnauthorized
	case http.StatusTooManyRequests:
		return models.ProblemTypeTooManyRequests
	default:
		return models.ProblemTypeValidation
	}
}
