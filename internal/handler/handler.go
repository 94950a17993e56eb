package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"promo-offer-api/internal/models"
	"promo-offer-api/internal/service"
	"promo-offer-api/internal/validation"
)

// Handler provides HTTP handlers for the API.
type Handler struct {
	service     *service.Service
	maxBodySize int64
}

// NewHandlerOptions holds options for creating a handler.
type NewHandlerOptions struct {
	MaxBodySize int64
}

// DefaultHandlerOptions returns default handler options.
func DefaultHandlerOptions() NewHandlerOptions {
	return NewHandlerOptions{
		MaxBodySize: 10 << 20, // 10MB default
	}
}

// NewHandler creates a new handler instance.
func NewHandler(svc *service.Service) *Handler {
	return NewHandlerWithOptions(svc, DefaultHandlerOptions())
}

// NewHandlerWithOptions creates a new handler instance with custom options.
func NewHandlerWithOptions(svc *service.Service, opts NewHandlerOptions) *Handler {
	return &Handler{
		service:     svc,
		maxBodySize: opts.MaxBodySize,
	}
}

// SaveOffers handles POST /offer. The body is an opaque JSON document
// of unknown shape; anything that decodes is accepted, and extraction
// degrades to zero offers when nothing recognizable is present.
func (h *Handler) SaveOffers(w http.ResponseWriter, r *http.Request) {
	// Limit request body size to prevent abuse
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var doc interface{}
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		if err == io.EOF {
			h.respondError(w, http.StatusBadRequest, "request body is required")
			return
		}
		h.respondError(w, http.StatusBadRequest, "invalid JSON in request body")
		return
	}

	resp, err := h.service.SaveOffers(r.Context(), doc)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// HighestDiscount handles GET /highest-discount.
func (h *Handler) HighestDiscount(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amountToPay, err := validation.ValidateAmountToPay(q.Get("amountToPay"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	bankName, err := validation.ValidateRequiredString(q.Get("bankName"), "bankName")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	paymentInstrument, err := validation.ValidateRequiredString(q.Get("paymentInstrument"), "paymentInstrument")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.HighestDiscount(r.Context(), amountToPay, bankName, paymentInstrument)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// respondJSON sends a JSON response with the given status code.
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response with the given status code and message.
func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, models.ErrorResponse{Error: message})
}
