package tenancy

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/keystone-pm/keystone/internal/platform/httpx"
)

// Handler manages tenancy endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers tenancy routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createTenant)
	r.Get("/", h.listTenants)
	r.Get("/{id}", h.getTenant)
	r.Get("/{id}/incomes", h.listIncomes)
	r.Post("/{id}/incomes", h.recordIncome)
	r.Post("/{id}/rent-invoices", h.createRentInvoice)
	r.Post("/{id}/bills", h.createBillInvoice)
}

type createTenantRequest struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"omitempty,email"`
	Phone          string  `json:"phone"`
	ChargeKind     string  `json:"charge_kind" validate:"omitempty,oneof=FIXED PERCENT_OF_RENT PER_AREA"`
	ChargeValue    float64 `json:"charge_value" validate:"gte=0"`
	VATTreatment   string  `json:"vat_treatment" validate:"omitempty,oneof=INCLUSIVE EXCLUSIVE NOT_APPLICABLE"`
	VATRatePercent float64 `json:"vat_rate_percent" validate:"gte=0"`
}

type recordIncomeRequest struct {
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	ReceivedAt string  `json:"received_at"`
	Note       string  `json:"note"`
}

type createRentInvoiceRequest struct {
	UnitID   int64   `json:"unit_id"`
	Period   string  `json:"period" validate:"required"`
	Expected float64 `json:"expected" validate:"required,gt=0"`
	Paid     float64 `json:"paid" validate:"gte=0"`
	DueAt    string  `json:"due_at" validate:"required"`
}

type createBillInvoiceRequest struct {
	Reference string  `json:"reference" validate:"required"`
	Expected  float64 `json:"expected" validate:"required,gt=0"`
	Paid      float64 `json:"paid" validate:"gte=0"`
	DueAt     string  `json:"due_at" validate:"required"`
}

// tenantView is the wire representation of a tenant; the charge variant is
// flattened into its kind/value pair.
type tenantView struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	ChargeKind     string  `json:"charge_kind,omitempty"`
	ChargeValue    float64 `json:"charge_value,omitempty"`
	ChargeLabel    string  `json:"charge_label"`
	VATTreatment   string  `json:"vat_treatment"`
	VATRatePercent float64 `json:"vat_rate_percent"`
}

func newTenantView(t *Tenant) tenantView {
	kind, value := EncodeCharge(t.Charge)
	label := "-"
	if t.Charge != nil {
		label = t.Charge.Label()
	}
	return tenantView{
		ID:             t.ID,
		Name:           t.Name,
		Email:          t.Email,
		Phone:          t.Phone,
		ChargeKind:     kind,
		ChargeValue:    value,
		ChargeLabel:    label,
		VATTreatment:   string(t.VATTreatment),
		VATRatePercent: t.VATRatePercent,
	}
}

func (h *Handler) createTenant(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	charge, err := ParseCharge(req.ChargeKind, req.ChargeValue)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	tenant, err := h.service.CreateTenant(r.Context(), CreateTenantInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Charge:         charge,
		VATTreatment:   VATTreatment(req.VATTreatment),
		VATRatePercent: req.VATRatePercent,
	})
	if err != nil {
		h.logger.Error("create tenant", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, newTenantView(tenant))
}

func (h *Handler) listTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.service.ListTenants(r.Context())
	if err != nil {
		h.logger.Error("list tenants", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	views := make([]tenantView, 0, len(tenants))
	for i := range tenants {
		views = append(views, newTenantView(&tenants[i]))
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) getTenant(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	tenant, err := h.service.GetTenant(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newTenantView(tenant))
}

func (h *Handler) listIncomes(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	incomes, err := h.service.ListIncomes(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, incomes)
}

func (h *Handler) recordIncome(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	var req recordIncomeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	receivedAt, err := parseDate(req.ReceivedAt)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	entry, err := h.service.RecordIncome(r.Context(), RecordIncomeInput{
		TenantID:   id,
		Amount:     req.Amount,
		ReceivedAt: receivedAt,
		Note:       req.Note,
	})
	if err != nil {
		h.logger.Error("record income", slog.Any("error", err), slog.Int64("tenant_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

func (h *Handler) createRentInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	var req createRentInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	dueAt, err := parseDate(req.DueAt)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	inv, err := h.service.CreateRentInvoice(r.Context(), CreateRentInvoiceInput{
		TenantID: id,
		UnitID:   req.UnitID,
		Period:   req.Period,
		Expected: req.Expected,
		Paid:     req.Paid,
		DueAt:    dueAt,
	})
	if err != nil {
		h.logger.Error("create rent invoice", slog.Any("error", err), slog.Int64("tenant_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *Handler) createBillInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	var req createBillInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	dueAt, err := parseDate(req.DueAt)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	inv, err := h.service.CreateBillInvoice(r.Context(), CreateBillInvoiceInput{
		TenantID:  id,
		Reference: req.Reference,
		Expected:  req.Expected,
		Paid:      req.Paid,
		DueAt:     dueAt,
	})
	if err != nil {
		h.logger.Error("create bill invoice", slog.Any("error", err), slog.Int64("tenant_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func parseID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", value)
}
