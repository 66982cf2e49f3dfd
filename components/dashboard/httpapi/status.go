package httpapi

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// StatusFor maps dashboard errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, dashboard.ErrWidgetNotFound),
		errors.Is(err, dashboard.ErrLayoutNotFound),
		errors.Is(err, dashboard.ErrUnknownWidgetType):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrEditModeDisabled),
		errors.Is(err, dashboard.ErrLayoutExists),
		errors.Is(err, dashboard.ErrBuiltInLayout),
		errors.Is(err, dashboard.ErrStaleData):
		return http.StatusConflict
	case errors.Is(err, dashboard.ErrInvalidConfig),
		errors.Is(err, dashboard.ErrInvalidRequest),
		errors.Is(err, dashboard.ErrEmptyLayoutName),
		errors.Is(err, dashboard.ErrIndexOutOfRange),
		errors.Is(err, dashboard.ErrDropMismatch),
		errors.Is(err, dashboard.ErrUnsupportedDrop):
		return http.StatusUnprocessableEntity
	case errors.Is(err, dashboard.ErrMissingDataSource):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}
