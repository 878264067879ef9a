package shift

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	internal "github.com/frahmantamala/shift-tracking/internal"
	"github.com/frahmantamala/shift-tracking/internal/auth"
	"github.com/frahmantamala/shift-tracking/internal/core/common/pagination"
	companymodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/company"
	shiftmodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/shift"
	"github.com/frahmantamala/shift-tracking/internal/transport"
	"github.com/frahmantamala/shift-tracking/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Toggle(ctx context.Context, userID, companyID int64) (*ToggleResult, error)
	ToggleByBadge(ctx context.Context, uid string) (*ToggleResult, error)
	ListOwn(ctx context.Context, viewerID int64, filters url.Values, page int) ([]*shiftmodel.Shift, pagination.Page, error)
	ListForCompany(ctx context.Context, companyID, viewerID int64, ownerView bool, page int) ([]*shiftmodel.Shift, pagination.Page, error)
}

// CompanyDirectory resolves companies for the company-scoped shift listing.
type CompanyDirectory interface {
	ByID(ctx context.Context, id int64) (*companymodel.Company, error)
	VisibleByID(ctx context.Context, id, viewerID int64) (*companymodel.Company, error)
}

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	Companies CompanyDirectory
}

func NewHandler(service ServiceAPI, companies CompanyDirectory) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		Companies:   companies,
	}
}

// Toggle clocks the current user in or out of a company shift.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("Toggle: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	companyIDStr := chi.URLParam(r, "id")
	companyID, err := strconv.ParseInt(companyIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("Toggle: invalid company ID", "id", companyIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid company ID")
		return
	}

	result, err := h.Service.Toggle(r.Context(), user.ID, companyID)
	if err != nil {
		h.Logger.Error("Toggle: service error", "error", err, "user_id", user.ID, "company_id", companyID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// ToggleByBadge clocks an employee in or out from a badge scan; no session
// is involved.
func (h *Handler) ToggleByBadge(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if uid == "" {
		h.WriteError(w, http.StatusBadRequest, "missing badge uid")
		return
	}

	result, err := h.Service.ToggleByBadge(r.Context(), uid)
	if err != nil {
		h.Logger.Error("ToggleByBadge: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// ListOwn returns the current user's shift history.
func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ListOwn: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page := pagination.ParsePage(r.URL.Query().Get("page"))

	shifts, pageInfo, err := h.Service.ListOwn(r.Context(), user.ID, r.URL.Query(), page)
	if err != nil {
		h.Logger.Error("ListOwn: service error", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to get shifts")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"shifts":     shifts,
		"pagination": pageInfo,
	})
}

// ListForCompany returns a company's shifts: all of them for the owner (or
// staff), only the viewer's own for an accepted member. A company the viewer
// cannot see reads as not found.
func (h *Handler) ListForCompany(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ListForCompany: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	companyIDStr := chi.URLParam(r, "id")
	companyID, err := strconv.ParseInt(companyIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("ListForCompany: invalid company ID", "id", companyIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid company ID")
		return
	}

	var c *companymodel.Company
	if user.IsStaff {
		c, err = h.Companies.ByID(r.Context(), companyID)
	} else {
		c, err = h.Companies.VisibleByID(r.Context(), companyID, user.ID)
	}
	if err != nil {
		h.Logger.Error("ListForCompany: company lookup failed", "error", err, "company_id", companyID)
		h.HandleServiceError(w, err)
		return
	}
	if c == nil {
		h.HandleServiceError(w, internal.ErrCompanyNotFound)
		return
	}

	ownerView := user.IsStaff || c.CreatedBy == user.ID
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	shifts, pageInfo, err := h.Service.ListForCompany(r.Context(), companyID, user.ID, ownerView, page)
	if err != nil {
		h.Logger.Error("ListForCompany: service error", "error", err, "company_id", companyID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"shifts":     shifts,
		"pagination": pageInfo,
	})
}
