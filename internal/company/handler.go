package company

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/frahmantamala/shift-tracking/internal/auth"
	"github.com/frahmantamala/shift-tracking/internal/core/common/pagination"
	companymodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/company"
	employeemodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/employee"
	"github.com/frahmantamala/shift-tracking/internal/transport"
	"github.com/frahmantamala/shift-tracking/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, ownerID int64, dto CreateCompanyDTO) (*companymodel.Company, error)
	Get(ctx context.Context, id int64, viewer *ViewerInfo, employeePage int) (*companymodel.Company, []*employeemodel.Employee, pagination.Page, error)
	Update(ctx context.Context, id int64, viewer *ViewerInfo, dto UpdateCompanyDTO) (*companymodel.Company, error)
	Delete(ctx context.Context, id int64, viewer *ViewerInfo) error
	List(ctx context.Context, userID int64, filters url.Values, page int) (*Buckets, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) viewer(r *http.Request) (*ViewerInfo, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		return nil, false
	}
	return &ViewerInfo{UserID: user.ID, IsStaff: user.IsStaff}, true
}

// Create registers a new company owned by the caller.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateCompanyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Create: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Create(r.Context(), viewer.UserID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, c)
}

// Get returns company detail. Owner and staff also get the employee list.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid company ID")
		return
	}

	page := pagination.ParsePage(r.URL.Query().Get("page"))
	c, employees, pageInfo, err := h.Service.Get(r.Context(), id, viewer, page)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp := map[string]interface{}{"company": c}
	if employees != nil {
		resp["employees"] = employees
		resp["pagination"] = pageInfo
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// Update edits a company the caller owns.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid company ID")
		return
	}

	var dto UpdateCompanyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Update: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Update(r.Context(), id, viewer, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

// Delete soft-deletes a company the caller owns.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid company ID")
		return
	}

	if err := h.Service.Delete(r.Context(), id, viewer); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List returns the caller's companies bucketed by relationship.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page := pagination.ParsePage(r.URL.Query().Get("page"))
	buckets, err := h.Service.List(r.Context(), viewer.UserID, r.URL.Query(), page)
	if err != nil {
		h.Logger.Error("List: service error", "error", err, "user_id", viewer.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, buckets)
}
