package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dvloznov/budget-tracker/internal/api/middleware"
	"github.com/dvloznov/budget-tracker/internal/app"
	"github.com/dvloznov/budget-tracker/internal/extraction"
	"github.com/dvloznov/budget-tracker/internal/ledger"
	"github.com/dvloznov/budget-tracker/internal/logger"
	"github.com/dvloznov/budget-tracker/internal/notify"
	"github.com/dvloznov/budget-tracker/internal/receipts"
	"github.com/dvloznov/budget-tracker/internal/review"
	"github.com/dvloznov/budget-tracker/internal/session"
)

// maxBodyBytes bounds request bodies; base64 receipt photos are the largest.
const maxBodyBytes = 10 << 20

// DashboardHandler serves the read-only snapshot.
type DashboardHandler struct {
	app *app.App
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(a *app.App) *DashboardHandler {
	return &DashboardHandler{app: a}
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.app.Snapshot(r.Context()))
}

// decodeBody decodes a JSON body into v. An empty body is allowed when
// optional is set.
func decodeBody(r *http.Request, v interface{}, optional bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// statusFor maps an app error to an HTTP status.
func statusFor(err error) int {
	var vErr *review.ValidationError
	var exErr *extraction.ExtractionError

	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrNegativeAmount),
		errors.Is(err, ledger.ErrEmptyName),
		errors.Is(err, ledger.ErrInvalidType),
		errors.Is(err, ledger.ErrInvalidDueDate),
		errors.Is(err, session.ErrEmailRequired),
		errors.Is(err, session.ErrNameRequired),
		errors.Is(err, receipts.ErrForeignObject),
		errors.Is(err, receipts.ErrReceiptTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrCategoryNotFound),
		errors.Is(err, review.ErrSessionNotFound),
		errors.Is(err, notify.ErrNotificationNotFound),
		errors.Is(err, session.ErrNoSession):
		return http.StatusNotFound
	case errors.Is(err, app.ErrExtractionInFlight),
		errors.Is(err, review.ErrNotReviewing):
		return http.StatusConflict
	case errors.Is(err, app.ErrExtractorUnavailable),
		errors.Is(err, app.ErrReceiptsUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &exErr):
		if exErr.Kind == extraction.KindInput {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError logs err and writes it with the mapped status. Internal
// errors are replaced by msg so storage details do not leak.
func writeAppError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)
	log := logger.FromContext(r.Context())

	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.Error().Err(err).Int("status", status).Msg(msg)
	} else {
		log.Debug().Err(err).Int("status", status).Msg(msg)
	}

	if status == http.StatusInternalServerError {
		middleware.WriteError(w, status, msg)
		return
	}
	middleware.WriteError(w, status, err.Error())
}
