package optimize_tour

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	optimizeTour "github.com/m04kA/SMC-SchedulingService/internal/usecase/optimize_tour"
)

const (
	msgInvalidTenantID     = "некорректный ID тенанта"
	msgInvalidTechnicianID = "обязателен корректный technicianId"
	msgInvalidBody         = "некорректное тело запроса"
	msgInvalidDate         = "некорректная дата, ожидается YYYY-MM-DD"
	msgInvalidDepot        = "некорректные координаты депо"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler обработчики маршрута техника
type Handler struct {
	useCase OptimizeTourUseCase
	logger  Logger
}

func NewHandler(useCase OptimizeTourUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Optimize POST /api/v1/tours/optimize
func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tours/optimize - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		h.respondError(w, "POST /tours/optimize", err)
		return
	}

	h.logger.Info("POST /tours/optimize - Tour built: stops=%d, distance=%.4f", len(resp.Stops), resp.TotalDistance)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}

// Day GET /api/v1/tenants/{tenantId}/tours?technicianId=&date=YYYY-MM-DD&depotX=&depotY=
func (h *Handler) Day(w http.ResponseWriter, r *http.Request) {
	req, ok := h.dayRequest(w, r, "GET /tenants/{id}/tours")
	if !ok {
		return
	}

	tour, err := h.useCase.ExecuteDay(r.Context(), req)
	if err != nil {
		h.respondError(w, "GET /tenants/{id}/tours", err)
		return
	}

	h.logger.Info("GET /tenants/{id}/tours - Tour built: tenant_id=%d, technician_id=%d, stops=%d, unlocated=%d",
		req.TenantID, req.TechnicianID, len(tour.Stops), len(tour.Unlocated))
	handlers.RespondJSON(w, http.StatusOK, FromDayResponse(tour))
}

// Export GET /api/v1/tenants/{tenantId}/tours/export?technicianId=&date=YYYY-MM-DD&depotX=&depotY=
// Отдает маршрутный лист в xlsx
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	req, ok := h.dayRequest(w, r, "GET /tenants/{id}/tours/export")
	if !ok {
		return
	}

	data, tour, err := h.useCase.ExportDay(r.Context(), req)
	if err != nil {
		h.respondError(w, "GET /tenants/{id}/tours/export", err)
		return
	}

	filename := fmt.Sprintf("tour-%d-%d-%s.xlsx", req.TenantID, req.TechnicianID, req.Date.Format(domain.DateFormat))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("GET /tenants/{id}/tours/export - Failed to write response: %v", err)
		return
	}

	h.logger.Info("GET /tenants/{id}/tours/export - Route sheet exported: tenant_id=%d, stops=%d",
		req.TenantID, len(tour.Stops))
}

func (h *Handler) dayRequest(w http.ResponseWriter, r *http.Request, route string) (*optimizeTour.DayRequest, bool) {
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		h.logger.Warn("%s - Invalid tenant ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return nil, false
	}

	technicianID, err := strconv.ParseInt(r.URL.Query().Get("technicianId"), 10, 64)
	if err != nil || technicianID <= 0 {
		h.logger.Warn("%s - Invalid technician ID: %q", route, r.URL.Query().Get("technicianId"))
		handlers.RespondBadRequest(w, msgInvalidTechnicianID)
		return nil, false
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("%s - Invalid date: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return nil, false
	}

	// Депо по умолчанию в начале координат
	var depot domain.Point
	x, err := handlers.QueryFloat(r, "depotX")
	if err != nil {
		h.logger.Warn("%s - Invalid depot: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDepot)
		return nil, false
	}
	y, err := handlers.QueryFloat(r, "depotY")
	if err != nil {
		h.logger.Warn("%s - Invalid depot: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDepot)
		return nil, false
	}
	if x != nil {
		depot.X = *x
	}
	if y != nil {
		depot.Y = *y
	}

	return &optimizeTour.DayRequest{TenantID: tenantID, TechnicianID: technicianID, Date: date, Depot: depot}, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	if errors.Is(err, optimizeTour.ErrInvalidInput) {
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	h.logger.Error("%s - Internal error: %v", route, err)
	handlers.RespondInternalError(w)
}
