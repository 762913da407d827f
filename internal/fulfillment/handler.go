package fulfillment

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/samudra-erp/samudra-erp/internal/document"
	"github.com/samudra-erp/samudra-erp/internal/orders"
	"github.com/samudra-erp/samudra-erp/internal/platform/httpx"
	"github.com/samudra-erp/samudra-erp/internal/shared"
)

// Handler wires HTTP endpoints for one fulfillment kind. The same handler
// type is mounted at /goods-receipts and /delivery-orders.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	kind      document.Kind
	validator *validator.Validate
}

// NewHandler constructs a Handler for the given fulfillment kind.
func NewHandler(logger *slog.Logger, service *Service, kind document.Kind) *Handler {
	return &Handler{logger: logger, service: service, kind: kind, validator: validator.New()}
}

// MountRoutes registers fulfillment routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Post("/{id}/complete", h.complete)
	r.Post("/{id}/cancel", h.cancel)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req := ListRequest{Kind: h.kind}
	if v := r.URL.Query().Get("order_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.OrderID = &id
		}
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := document.Status(v)
		req.Status = &status
	}
	if v := r.URL.Query().Get("date_from"); v != "" {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			req.DateFrom = &d
		}
	}
	if v := r.URL.Query().Get("date_to"); v != "" {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			req.DateTo = &d
		}
	}
	req.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	req.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	result, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	limit := shared.ClampLimit(req.Limit)
	httpx.OK(w, map[string]any{
		"documents":  result,
		"pagination": shared.NewPagination(req.Offset/limit+1, limit, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	doc, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if doc.Kind != h.kind {
		httpx.Fail(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	httpx.OK(w, doc)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	cred, _ := shared.CredentialFromContext(r.Context())
	doc, err := h.service.Create(r.Context(), h.kind, req, cred.ActorID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.Created(w, doc)
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	doc, err := h.service.Complete(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.OK(w, doc)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	doc, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.OK(w, doc)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid document id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, orders.ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrOrderNotApproved),
		errors.Is(err, ErrKindMismatch),
		errors.Is(err, document.ErrIllegalTransition):
		httpx.Fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrEmptyFulfillment),
		errors.Is(err, ErrOverFulfillment),
		errors.Is(err, ErrNegativeQuantity),
		errors.Is(err, ErrUnknownItem),
		errors.Is(err, document.ErrUnknownKind):
		httpx.Fail(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("fulfillment", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
