package property

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/keystone-pm/keystone/internal/platform/httpx"
)

// Handler manages property endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers property routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createProperty)
	r.Get("/", h.listProperties)
	r.Get("/{id}", h.getProperty)
	r.Post("/{id}/units", h.createUnit)
	r.Get("/{id}/units", h.listUnits)
	r.Post("/{id}/units/{unitID}/tenant", h.assignTenant)
}

type createPropertyRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type createUnitRequest struct {
	Label         string  `json:"label"`
	UnitType      string  `json:"unit_type"`
	SizeSqFt      float64 `json:"size_sqft"`
	RentAmount    float64 `json:"rent_amount"`
	DepositAmount float64 `json:"deposit_amount"`
	TenantID      int64   `json:"tenant_id"`
}

type assignTenantRequest struct {
	TenantID int64 `json:"tenant_id"`
}

func (h *Handler) createProperty(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	prop, err := h.service.CreateProperty(r.Context(), CreatePropertyInput{
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		h.logger.Error("create property", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, prop)
}

func (h *Handler) listProperties(w http.ResponseWriter, r *http.Request) {
	props, err := h.service.ListProperties(r.Context())
	if err != nil {
		h.logger.Error("list properties", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, props)
}

func (h *Handler) getProperty(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	prop, err := h.service.GetProperty(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, prop)
}

func (h *Handler) createUnit(w http.ResponseWriter, r *http.Request) {
	propertyID, err := parseID(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	var req createUnitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	unit, err := h.service.CreateUnit(r.Context(), CreateUnitInput{
		PropertyID:    propertyID,
		Label:         req.Label,
		UnitType:      req.UnitType,
		SizeSqFt:      req.SizeSqFt,
		RentAmount:    req.RentAmount,
		DepositAmount: req.DepositAmount,
		TenantID:      req.TenantID,
	})
	if err != nil {
		h.logger.Error("create unit", slog.Any("error", err), slog.Int64("property_id", propertyID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, unit)
}

func (h *Handler) listUnits(w http.ResponseWriter, r *http.Request) {
	propertyID, err := parseID(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	units, err := h.service.ListUnits(r.Context(), propertyID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, units)
}

func (h *Handler) assignTenant(w http.ResponseWriter, r *http.Request) {
	unitID, err := parseID(r, "unitID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	var req assignTenantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.service.AssignTenant(r.Context(), unitID, req.TenantID); err != nil {
		h.logger.Error("assign tenant", slog.Any("error", err), slog.Int64("unit_id", unitID))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}
