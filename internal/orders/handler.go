package orders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/samudra-erp/samudra-erp/internal/document"
	"github.com/samudra-erp/samudra-erp/internal/money"
	"github.com/samudra-erp/samudra-erp/internal/platform/httpx"
	"github.com/samudra-erp/samudra-erp/internal/shared"
)

// Handler wires HTTP endpoints for one order kind. The same handler type is
// mounted at /purchase-orders and /sales-orders.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	kind      Kind
	validator *validator.Validate
}

// NewHandler constructs a Handler for the given order kind.
func NewHandler(logger *slog.Logger, service *Service, kind Kind) *Handler {
	return &Handler{logger: logger, service: service, kind: kind, validator: validator.New()}
}

// MountRoutes registers order routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Post("/{id}/approve", h.approve)
	r.Post("/{id}/reject", h.reject)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req := ListRequest{Kind: h.kind, Search: r.URL.Query().Get("search")}
	if v := r.URL.Query().Get("status"); v != "" {
		status := document.Status(v)
		req.Status = &status
	}
	if v := r.URL.Query().Get("counterparty_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.CounterpartyID = &id
		}
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
		"orders":     result,
		"pagination": shared.NewPagination(req.Offset/limit+1, limit, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	order, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if order.Kind != h.kind {
		httpx.Fail(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	httpx.OK(w, order)
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
	order, err := h.service.Create(r.Context(), h.kind, req, cred.ActorID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.Created(w, order)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	order, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.OK(w, order)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	cred, _ := shared.CredentialFromContext(r.Context())
	order, err := h.service.Approve(r.Context(), id, cred.ActorID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.OK(w, order)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	cred, _ := shared.CredentialFromContext(r.Context())
	order, err := h.service.Reject(r.Context(), id, cred.ActorID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.OK(w, order)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotDraft), errors.Is(err, document.ErrIllegalTransition):
		httpx.Fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrEmptyLines),
		errors.Is(err, ErrInvalidTaxRate),
		errors.Is(err, ErrInvalidKind),
		errors.Is(err, document.ErrInvalidLine),
		errors.Is(err, money.ErrInvalidAmount):
		httpx.Fail(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("orders", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
