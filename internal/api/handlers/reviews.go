package handlers

import (
	"net/http"
	"strings"

	"github.com/dvloznov/budget-tracker/internal/api/middleware"
	"github.com/dvloznov/budget-tracker/internal/app"
	"github.com/dvloznov/budget-tracker/internal/extraction"
	"github.com/dvloznov/budget-tracker/internal/review"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ReviewsHandler handles extraction and the review flow that follows it.
type ReviewsHandler struct {
	app *app.App
	log zerolog.Logger
}

// NewReviewsHandler creates a new reviews handler.
func NewReviewsHandler(a *app.App, log zerolog.Logger) *ReviewsHandler {
	return &ReviewsHandler{app: a, log: log}
}

type reviewResponse struct {
	Review  *review.Session `json:"review"`
	Preview review.Preview  `json:"preview"`
}

func newReviewResponse(s *review.Session) reviewResponse {
	return reviewResponse{Review: s, Preview: s.Preview()}
}

// Extract handles POST /api/extract
// Exactly one of text, image (base64 or data URL) or receiptUri is expected.
func (h *ReviewsHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text       string `json:"text"`
		Image      string `json:"image"`
		ReceiptURI string `json:"receiptUri"`
	}
	if err := decodeBody(r, &req, false); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	req.Image = strings.TrimSpace(req.Image)
	req.ReceiptURI = strings.TrimSpace(req.ReceiptURI)

	given := 0
	for _, v := range []string{req.Text, req.Image, req.ReceiptURI} {
		if v != "" {
			given++
		}
	}
	if given != 1 {
		middleware.WriteError(w, http.StatusBadRequest, "exactly one of text, image or receiptUri is required")
		return
	}

	ctx := r.Context()
	var (
		s   *review.Session
		err error
	)
	switch {
	case req.ReceiptURI != "":
		s, err = h.app.ExtractFromReceipt(ctx, req.ReceiptURI)
	case req.Image != "":
		in, decodeErr := extraction.ImageFromDataURL(req.Image)
		if decodeErr != nil {
			middleware.WriteError(w, http.StatusBadRequest, "image must be base64 encoded")
			return
		}
		s, err = h.app.ExtractForReview(ctx, in)
	default:
		s, err = h.app.ExtractForReview(ctx, extraction.TextInput(req.Text))
	}
	if err != nil {
		writeAppError(w, r, err, "Failed to extract transaction")
		return
	}

	h.log.Info().Str("review_id", s.ID).Str("merchant", s.Draft.Merchant).Msg("Review opened")
	middleware.WriteJSON(w, http.StatusCreated, newReviewResponse(s))
}

// GetReview handles GET /api/reviews/{id}
func (h *ReviewsHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	s, err := h.app.GetReview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, err, "Failed to get review")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, newReviewResponse(s))
}

// EditReview handles PATCH /api/reviews/{id}
func (h *ReviewsHandler) EditReview(w http.ResponseWriter, r *http.Request) {
	var edits review.Edits
	if err := decodeBody(r, &edits, false); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s, err := h.app.EditReview(r.Context(), chi.URLParam(r, "id"), edits)
	if err != nil {
		writeAppError(w, r, err, "Failed to edit review")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, newReviewResponse(s))
}

// ConfirmReview handles POST /api/reviews/{id}/confirm
// The body may carry final edits; an empty body confirms the draft as is.
func (h *ReviewsHandler) ConfirmReview(w http.ResponseWriter, r *http.Request) {
	var edits review.Edits
	if err := decodeBody(r, &edits, true); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	out, err := h.app.ConfirmReview(r.Context(), chi.URLParam(r, "id"), edits)
	if err != nil {
		writeAppError(w, r, err, "Failed to confirm review")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

// CancelReview handles POST /api/reviews/{id}/cancel
func (h *ReviewsHandler) CancelReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.app.CancelReview(r.Context(), id); err != nil {
		writeAppError(w, r, err, "Failed to cancel review")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"review_id": id,
		"status":    string(review.StateCancelled),
	})
}
