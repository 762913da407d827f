package access

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/samudra-erp/samudra-erp/internal/platform/httpx"
	"github.com/samudra-erp/samudra-erp/internal/shared"
)

// Handler wires HTTP endpoints for access control administration.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoles registers role routes on the provided router.
func (h *Handler) MountRoles(r chi.Router) {
	r.Get("/", h.listRoles)
	r.Post("/", h.createRole)
	r.Get("/{id}", h.getRole)
	r.Put("/{id}", h.updateRole)
	r.Delete("/{id}", h.deleteRole)
}

// MountGroups registers user group routes on the provided router.
func (h *Handler) MountGroups(r chi.Router) {
	r.Get("/", h.listGroups)
	r.Post("/", h.createGroup)
	r.Get("/{id}", h.getGroup)
	r.Put("/{id}", h.updateGroup)
	r.Delete("/{id}", h.deleteGroup)
	r.Get("/{id}/permissions", h.subjectPermissions(GroupSubject))
	r.Put("/{id}/permissions", h.setSubjectPermissions(GroupSubject))
}

// MountModules registers module listing on the provided router.
func (h *Handler) MountModules(r chi.Router) {
	r.Get("/", h.listModules)
}

// MountRolePermissions registers role permission routes on the provided
// router.
func (h *Handler) MountRolePermissions(r chi.Router) {
	r.Get("/{id}", h.subjectPermissions(RoleSubject))
	r.Put("/{id}", h.setSubjectPermissions(RoleSubject))
}

// ============================================================================
// ROLES
// ============================================================================

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.OK(w, map[string]any{"roles": roles})
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	role, err := h.service.GetRole(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.OK(w, role)
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	var req CreateRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	role, err := h.service.CreateRole(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.Created(w, role)
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req UpdateRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	role, err := h.service.UpdateRole(r.Context(), id, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.OK(w, role)
}

func (h *Handler) deleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteRole(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.OK(w, nil)
}

// ============================================================================
// GROUPS
// ============================================================================

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.ListGroups(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.OK(w, map[string]any{"groups": groups})
}

func (h *Handler) getGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	group, err := h.service.GetGroup(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.OK(w, group)
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	group, err := h.service.CreateGroup(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.Created(w, group)
}

func (h *Handler) updateGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req UpdateGroupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	group, err := h.service.UpdateGroup(r.Context(), id, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.OK(w, group)
}

func (h *Handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteGroup(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.OK(w, nil)
}

// ============================================================================
// MODULES AND PERMISSIONS
// ============================================================================

func (h *Handler) listModules(w http.ResponseWriter, r *http.Request) {
	modules, err := h.service.ListModules(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.OK(w, map[string]any{"modules": modules, "actions": Actions()})
}

func (h *Handler) subjectPermissions(subjectOf func(int64) Subject) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.parseID(w, r)
		if !ok {
			return
		}
		summary, err := h.service.GetPermissions(r.Context(), subjectOf(id))
		if err != nil {
			h.respondError(w, err)
			return
		}
		httpx.OK(w, summary)
	}
}

func (h *Handler) setSubjectPermissions(subjectOf func(int64) Subject) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.parseID(w, r)
		if !ok {
			return
		}
		var req SetPermissionsRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Fail(w, http.StatusBadRequest, "invalid request body")
			return
		}
		summary, err := h.service.SetPermissions(r.Context(), subjectOf(id), req.Tokens)
		if err != nil {
			h.respondError(w, err)
			return
		}
		httpx.OK(w, summary)
	}
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRoleNotFound),
		errors.Is(err, ErrGroupNotFound),
		errors.Is(err, ErrModuleNotFound):
		httpx.Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		httpx.Fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidAction),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrNameRequired):
		httpx.Fail(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("access", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
