package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/dvi/internal/common"
	"github.com/dmitrijs2005/dvi/internal/logging"
	"github.com/dmitrijs2005/dvi/internal/models"
)

const maxBodyBytes = 1 << 20

type AuthService interface {
	Login(ctx context.Context, mechanicID int64, pin []byte) (string, error)
	VerifyToken(token string) (int64, error)
}

type InspectionService interface {
	Submit(ctx context.Context, s *models.Submission) (duplicate bool, err error)
	LineItems(ctx context.Context, orderID int64) ([]models.LineItem, error)
}

type PhotoService interface {
	PresignUpload(ctx context.Context, mechanicID int64, contentType string) (models.PhotoUpload, error)
}

// DirectoryService backs the read-only lookups a device makes around sign-in.
type DirectoryService interface {
	Companies(ctx context.Context) ([]models.Company, error)
	Mechanics(ctx context.Context, companyID int64) ([]models.MechanicInfo, error)
	WorkOrders(ctx context.Context, mechanicID int64) ([]models.WorkOrder, error)
}

type Handler struct {
	auth        AuthService
	inspections InspectionService
	photos      PhotoService
	directory   DirectoryService
	logger      logging.Logger
	metrics     *Metrics
	gatherer    prometheus.Gatherer
}

// NewHandler builds the API handler. Collectors are registered in reg, which
// is also what /metrics serves.
func NewHandler(auth AuthService, inspections InspectionService, photos PhotoService,
	directory DirectoryService, logger logging.Logger, reg *prometheus.Registry) *Handler {
	return &Handler{
		auth:        auth,
		inspections: inspections,
		photos:      photos,
		directory:   directory,
		logger:      logger,
		metrics:     NewMetrics(reg),
		gatherer:    reg,
	}
}

// Routes returns the mux with all API routes.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	handle := func(pattern, route string, fn http.HandlerFunc) {
		mux.Handle(pattern, h.metrics.instrument(route, fn))
	}

	handle("POST /api/auth/login", "login", h.login)
	handle("POST /api/inspections/submit", "submit", h.requireAuth(h.submitInspection))
	handle("GET /api/line-items/{orderId}", "line_items", h.lineItems)
	handle("POST /api/photos/presign", "presign", h.requireAuth(h.presignPhoto))
	handle("GET /api/companies", "companies", h.companies)
	handle("GET /api/mechanics/{companyId}", "mechanics", h.mechanics)
	handle("GET /api/work-orders/{mechanicId}", "work_orders", h.requireAuth(h.workOrders))
	handle("GET /api/health", "health", h.health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))

	return mux
}

type loginRequest struct {
	MechanicID int64  `json:"mechanicId"`
	PIN        string `json:"pin"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MechanicID <= 0 || req.PIN == "" {
		writeMessage(w, http.StatusBadRequest, "mechanicId and pin are required")
		return
	}

	token, err := h.auth.Login(r.Context(), req.MechanicID, []byte(req.PIN))
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			h.logger.Info(r.Context(), "login rejected", "mechanic", req.MechanicID)
			writeMessage(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error(r.Context(), "login failed", "mechanic", req.MechanicID, "err", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (h *Handler) submitInspection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var s models.Submission
	if err := decodeBody(w, r, &s); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if caller, ok := MechanicIDFromContext(ctx); ok && s.MechanicID != 0 && caller != s.MechanicID {
		// Devices replay queued inspections with whichever session is
		// current, so the body's mechanic stays authoritative.
		h.logger.Warn(ctx, "submission mechanic differs from session",
			"session", caller, "mechanic", s.MechanicID, "submission", s.SubmissionID)
	}

	duplicate, err := h.inspections.Submit(ctx, &s)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error(ctx, "error saving inspection", "order", s.OrderID, "submission", s.SubmissionID, "err", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.metrics.submission(duplicate)
	if duplicate {
		h.logger.Info(ctx, "duplicate submission ignored", "order", s.OrderID, "submission", s.SubmissionID)
	} else {
		h.logger.Info(ctx, "inspection stored", "order", s.OrderID, "mechanic", s.MechanicID, "items", len(s.Items))
	}

	writeMessage(w, http.StatusOK, "Inspection submitted")
}

func (h *Handler) lineItems(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(r.PathValue("orderId"), 10, 64)
	if err != nil || orderID <= 0 {
		writeMessage(w, http.StatusBadRequest, "invalid order id")
		return
	}

	items, err := h.inspections.LineItems(r.Context(), orderID)
	if err != nil {
		h.logger.Error(r.Context(), "error listing line items", "order", orderID, "err", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) companies(w http.ResponseWriter, r *http.Request) {
	list, err := h.directory.Companies(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "error listing companies", "err", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) mechanics(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(r.PathValue("companyId"), 10, 64)
	if err != nil || companyID <= 0 {
		writeMessage(w, http.StatusBadRequest, "invalid company id")
		return
	}

	list, err := h.directory.Mechanics(r.Context(), companyID)
	if err != nil {
		h.logger.Error(r.Context(), "error listing mechanics", "company", companyID, "err", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// workOrders lists the open orders of the mechanic in the path. A session
// may only read its own orders.
func (h *Handler) workOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mechanicID, err := strconv.ParseInt(r.PathValue("mechanicId"), 10, 64)
	if err != nil || mechanicID <= 0 {
		writeMessage(w, http.StatusBadRequest, "invalid mechanic id")
		return
	}

	if caller, _ := MechanicIDFromContext(ctx); caller != mechanicID {
		h.logger.Warn(ctx, "work orders requested for another mechanic", "session", caller, "mechanic", mechanicID)
		writeMessage(w, http.StatusForbidden, "forbidden")
		return
	}

	orders, err := h.directory.WorkOrders(ctx, mechanicID)
	if err != nil {
		h.logger.Error(ctx, "error listing work orders", "mechanic", mechanicID, "err", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

type presignRequest struct {
	ContentType string `json:"contentType"`
}

func (h *Handler) presignPhoto(w http.ResponseWriter, r *http.Request) {
	var req presignRequest
	if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mechanicID, _ := MechanicIDFromContext(r.Context())

	up, err := h.photos.PresignUpload(r.Context(), mechanicID, req.ContentType)
	if err != nil {
		h.logger.Error(r.Context(), "error presigning photo upload", "mechanic", mechanicID, "err", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, up)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
