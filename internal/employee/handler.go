package employee

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/frahmantamala/shift-tracking/internal/auth"
	"github.com/frahmantamala/shift-tracking/internal/core/common/pagination"
	employeemodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/employee"
	shiftmodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/shift"
	"github.com/frahmantamala/shift-tracking/internal/transport"
	"github.com/frahmantamala/shift-tracking/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Invite(ctx context.Context, inviter *InviterInfo, companyID int64, dto InviteDTO) (*employeemodel.Employee, error)
	Accept(ctx context.Context, userID, companyID int64) error
	Decline(ctx context.Context, userID, companyID int64) error
	Get(ctx context.Context, id int64, viewer *ViewerInfo) (*employeemodel.Employee, error)
	Remove(ctx context.Context, id int64, viewer *ViewerInfo) error
	ListForOwner(ctx context.Context, ownerID int64, filters url.Values, page int) ([]*employeemodel.Employee, pagination.Page, error)
}

// ShiftLister supplies the shift history shown on the employee detail page.
type ShiftLister interface {
	ListForEmployee(ctx context.Context, employeeID int64, page int) ([]*shiftmodel.Shift, pagination.Page, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Shifts  ShiftLister
}

func NewHandler(service ServiceAPI, shifts ShiftLister) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		Shifts:      shifts,
	}
}

// Invite adds an employee to a company the caller owns.
func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("Invite: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	companyID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid company ID")
		return
	}

	var dto InviteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Invite: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emp, err := h.Service.Invite(r.Context(), &InviterInfo{UserID: user.ID, Username: user.Username}, companyID, dto)
	if err != nil {
		h.Logger.Error("Invite: service error", "error", err, "company_id", companyID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, emp)
}

// Accept confirms the caller's pending invitation to the company.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Accept)
}

// Decline rejects the caller's invitation or leaves the company.
func (h *Handler) Decline(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Decline)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, int64, int64) error) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	companyID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid company ID")
		return
	}

	if err := op(r.Context(), user.ID, companyID); err != nil {
		h.Logger.Error("invitation transition failed", "error", err, "company_id", companyID, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Get returns one employee row with its badge uid and shift history.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	emp, err := h.Service.Get(r.Context(), id, &ViewerInfo{UserID: user.ID, IsStaff: user.IsStaff})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	page := pagination.ParsePage(r.URL.Query().Get("page"))
	shifts, pageInfo, err := h.Shifts.ListForEmployee(r.Context(), emp.ID, page)
	if err != nil {
		h.Logger.Error("Get: failed to list employee shifts", "error", err, "employee_id", emp.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to get shifts")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"employee":   emp,
		"shifts":     shifts,
		"pagination": pageInfo,
	})
}

// Remove soft-deletes an employee row (self, owner or staff).
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	if err := h.Service.Remove(r.Context(), id, &ViewerInfo{UserID: user.ID, IsStaff: user.IsStaff}); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListForOwner returns every employee across the caller's companies.
func (h *Handler) ListForOwner(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page := pagination.ParsePage(r.URL.Query().Get("page"))

	employees, pageInfo, err := h.Service.ListForOwner(r.Context(), user.ID, r.URL.Query(), page)
	if err != nil {
		h.Logger.Error("ListForOwner: service error", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to get employees")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"employees":  employees,
		"pagination": pageInfo,
	})
}
