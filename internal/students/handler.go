package students

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sekolahku/sekolahku/internal/authz"
	"github.com/sekolahku/sekolahku/internal/platform/httpx"
	"github.com/sekolahku/sekolahku/internal/shared"
)

// Handler wires HTTP endpoints for the student register.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers student routes. The caller gates the group behind
// the "students" module check.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.enroll)
	r.Get("/next-admission-number", h.nextAdmissionNumber)
	r.Get("/{id}", h.show)
	r.Patch("/{id}", h.update)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := ListStudentsRequest{
		Scope:     authz.ScopeFromContext(r.Context()),
		ClassName: q.Get("class"),
		Search:    q.Get("search"),
	}
	if raw := q.Get("is_active"); raw != "" {
		active := raw == "true"
		req.IsActive = &active
	}
	if raw := q.Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			req.Page = parsed
		}
	}
	if raw := q.Get("per_page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			req.PerPage = parsed
		}
	}

	list, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list students", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSONPage(w, http.StatusOK, list, shared.NewPagination(req.Page, req.PerPage, total))
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	student, err := h.service.Get(r.Context(), authz.ScopeFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, student)
}

func (h *Handler) enroll(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
		httpx.FieldErrors(w, fields)
		return
	}

	sess := authz.SessionFromContext(r.Context())
	scope := authz.ScopeFromContext(r.Context())
	tenantID := scope.TenantID
	if scope.IsGlobal() {
		tenantID = r.URL.Query().Get("tenant_id")
	}

	student, err := h.service.Enroll(r.Context(), tenantID, sess.UserID, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, student)
}

func (h *Handler) nextAdmissionNumber(w http.ResponseWriter, r *http.Request) {
	scope := authz.ScopeFromContext(r.Context())
	tenantID := scope.TenantID
	if scope.IsGlobal() {
		tenantID = r.URL.Query().Get("tenant_id")
	}
	if tenantID == "" {
		httpx.Error(w, http.StatusBadRequest, "Tenant required")
		return
	}

	number, err := h.service.NextAdmissionNumber(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("next admission number", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"admission_number": number})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateStudentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
		httpx.FieldErrors(w, fields)
		return
	}

	student, err := h.service.Update(r.Context(), authz.ScopeFromContext(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, student)
}
