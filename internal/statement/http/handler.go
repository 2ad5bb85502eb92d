// Package http exposes the statement read and export endpoints.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/keystone-pm/keystone/internal/platform/httpx"
	"github.com/keystone-pm/keystone/internal/statement"
	"github.com/keystone-pm/keystone/internal/statement/export"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// RefreshEnqueuer hands statement regeneration off to the background worker.
type RefreshEnqueuer interface {
	EnqueueRefresh(ctx context.Context, propertyID int64) (string, error)
}

// Handler serves computed statements as JSON and as document downloads.
type Handler struct {
	logger    *slog.Logger
	service   *statement.Service
	enqueuer  RefreshEnqueuer
	rateLimit func(http.Handler) http.Handler
}

// NewHandler builds Handler instance. The enqueuer may be nil when no
// worker is wired; the refresh endpoint then responds 503.
func NewHandler(logger *slog.Logger, service *statement.Service, enqueuer RefreshEnqueuer) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		enqueuer:  enqueuer,
		rateLimit: httprate.LimitByIP(10, time.Minute),
	}
}

// MountRoutes registers statement routes under the properties subtree.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{id}/statements/collection", h.collectionJSON)
	r.Get("/{id}/statements/arrears", h.arrearsJSON)
	r.Group(func(r chi.Router) {
		r.Use(h.rateLimit)
		r.Get("/{id}/statements/collection.xlsx", h.collectionXLSX)
		r.Get("/{id}/statements/collection.pdf", h.collectionPDF)
		r.Get("/{id}/statements/arrears.xlsx", h.arrearsXLSX)
		r.Get("/{id}/statements/arrears.pdf", h.arrearsPDF)
	})
	r.Post("/{id}/statements/refresh", h.refresh)
}

func (h *Handler) collectionJSON(w http.ResponseWriter, r *http.Request) {
	propertyID, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	stmt, err := h.service.BuildCollection(r.Context(), propertyID)
	if err != nil {
		h.logger.Error("build collection statement", slog.Any("error", err), slog.Int64("property_id", propertyID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stmt)
}

func (h *Handler) arrearsJSON(w http.ResponseWriter, r *http.Request) {
	propertyID, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	report, err := h.service.BuildArrears(r.Context(), propertyID)
	if err != nil {
		h.logger.Error("build arrears report", slog.Any("error", err), slog.Int64("property_id", propertyID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// document is a rendered export ready to be served.
type document struct {
	name        string
	contentType string
	payload     []byte
}

func (h *Handler) collectionXLSX(w http.ResponseWriter, r *http.Request) {
	h.serveCollection(w, r, "xlsx", contentTypeXLSX, export.CollectionXLSX)
}

func (h *Handler) collectionPDF(w http.ResponseWriter, r *http.Request) {
	h.serveCollection(w, r, "pdf", contentTypePDF, export.CollectionPDF)
}

func (h *Handler) arrearsXLSX(w http.ResponseWriter, r *http.Request) {
	h.serveArrears(w, r, "xlsx", contentTypeXLSX, export.ArrearsXLSX)
}

func (h *Handler) arrearsPDF(w http.ResponseWriter, r *http.Request) {
	h.serveArrears(w, r, "pdf", contentTypePDF, export.ArrearsPDF)
}

func (h *Handler) serveCollection(w http.ResponseWriter, r *http.Request, ext, contentType string, render func(statement.CollectionStatement) ([]byte, error)) {
	propertyID, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	key := fmt.Sprintf("collection:%s:%d", ext, propertyID)
	result, err, _ := renderShared(r.Context(), key, func(ctx context.Context) (interface{}, error) {
		stmt, err := h.service.BuildCollection(ctx, propertyID)
		if err != nil {
			return nil, err
		}
		payload, err := render(stmt)
		if err != nil {
			return nil, fmt.Errorf("render collection %s: %w", ext, err)
		}
		return document{
			name:        export.Filename(stmt.PropertyName, statement.KindCollection, stmt.GeneratedAt) + "." + ext,
			contentType: contentType,
			payload:     payload,
		}, nil
	})
	h.serveDocument(w, result, err, propertyID)
}

func (h *Handler) serveArrears(w http.ResponseWriter, r *http.Request, ext, contentType string, render func(statement.ArrearsReport) ([]byte, error)) {
	propertyID, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	key := fmt.Sprintf("arrears:%s:%d", ext, propertyID)
	result, err, _ := renderShared(r.Context(), key, func(ctx context.Context) (interface{}, error) {
		report, err := h.service.BuildArrears(ctx, propertyID)
		if err != nil {
			return nil, err
		}
		payload, err := render(report)
		if err != nil {
			return nil, fmt.Errorf("render arrears %s: %w", ext, err)
		}
		return document{
			name:        export.Filename(report.PropertyName, statement.KindArrears, report.GeneratedAt) + "." + ext,
			contentType: contentType,
			payload:     payload,
		}, nil
	})
	h.serveDocument(w, result, err, propertyID)
}

func (h *Handler) serveDocument(w http.ResponseWriter, result interface{}, err error, propertyID int64) {
	if err != nil {
		h.logger.Error("export statement", slog.Any("error", err), slog.Int64("property_id", propertyID))
		httpx.RespondError(w, err)
		return
	}
	doc, ok := result.(document)
	if !ok {
		httpx.Problem(w, http.StatusInternalServerError, "Export Failed", "unexpected render result")
		return
	}
	w.Header().Set("Content-Type", doc.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.name))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.payload)))
	if _, err := w.Write(doc.payload); err != nil {
		h.logger.Error("write export payload", slog.Any("error", err), slog.Int64("property_id", propertyID))
	}
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	propertyID, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	if h.enqueuer == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Worker Unavailable", "background refresh is not configured")
		return
	}
	jobID, err := h.enqueuer.EnqueueRefresh(r.Context(), propertyID)
	if err != nil {
		h.logger.Error("enqueue statement refresh", slog.Any("error", err), slog.Int64("property_id", propertyID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"job_id": jobID})
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
