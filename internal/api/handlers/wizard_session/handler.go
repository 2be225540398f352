package wizard_session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/wizard"
	intake "github.com/m04kA/SMC-SchedulingService/internal/wizard"
)

const (
	msgInvalidTenantID  = "некорректный ID тенанта"
	msgInvalidSessionID = "некорректный ID сессии"
	msgInvalidMonth     = "некорректный месяц, ожидается YYYY-MM"
	msgInvalidBody      = "некорректное тело запроса"
	msgSessionNotFound  = "сессия мастера не найдена"
	msgTenantNotFound   = "конфигурация тенанта не найдена"
	msgSubmitted        = "заявка уже отправлена"
	msgNoPreviousStep   = "предыдущего шага нет"
)

// Handler обработчики сессии мастера записи
type Handler struct {
	service WizardService
	logger  Logger
}

func NewHandler(service WizardService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Start POST /api/v1/tenants/{tenantId}/wizard/sessions
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/wizard/sessions - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	view, err := h.service.Start(r.Context(), tenantID)
	if err != nil {
		h.respondError(w, "POST /tenants/{id}/wizard/sessions", err)
		return
	}

	h.logger.Info("POST /tenants/{id}/wizard/sessions - Session started: tenant_id=%d, session_id=%s", tenantID, view.ID)
	handlers.RespondJSON(w, http.StatusCreated, view)
}

// Get GET /api/v1/wizard/sessions/{sessionId}?month=YYYY-MM
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]

	var month *time.Time
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		parsed, err := time.Parse(domain.MonthFormat, monthStr)
		if err != nil {
			h.logger.Warn("GET /wizard/sessions/{id} - Invalid month: %v", err)
			handlers.RespondBadRequest(w, msgInvalidMonth)
			return
		}
		month = &parsed
	}

	view, err := h.service.Get(r.Context(), id, month)
	if err != nil {
		h.respondError(w, "GET /wizard/sessions/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}

// Submit POST /api/v1/wizard/sessions/{sessionId}/submit
// Отказ по введенным данным возвращается со статусом 200 и заполненными errors и reason
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]

	var in intake.Input
	if err := handlers.DecodeJSON(r, &in); err != nil {
		h.logger.Warn("POST /wizard/sessions/{id}/submit - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	view, err := h.service.Submit(r.Context(), id, in)
	if err != nil {
		h.respondError(w, "POST /wizard/sessions/{id}/submit", err)
		return
	}

	h.logger.Info("POST /wizard/sessions/{id}/submit - session_id=%s, state=%s, reason=%s", id, view.State, view.Reason)
	handlers.RespondJSON(w, http.StatusOK, view)
}

// Back POST /api/v1/wizard/sessions/{sessionId}/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]

	view, err := h.service.Back(r.Context(), id)
	if err != nil {
		h.respondError(w, "POST /wizard/sessions/{id}/back", err)
		return
	}

	h.logger.Info("POST /wizard/sessions/{id}/back - session_id=%s, state=%s", id, view.State)
	handlers.RespondJSON(w, http.StatusOK, view)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, wizard.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)

	case errors.Is(err, wizard.ErrSessionNotFound):
		h.logger.Warn("%s - Session not found", route)
		handlers.RespondNotFound(w, msgSessionNotFound)

	case errors.Is(err, wizard.ErrTenantNotFound):
		h.logger.Warn("%s - Tenant not found", route)
		handlers.RespondNotFound(w, msgTenantNotFound)

	case errors.Is(err, wizard.ErrSessionSubmitted):
		h.logger.Warn("%s - Session already submitted", route)
		handlers.RespondConflict(w, msgSubmitted)

	case errors.Is(err, wizard.ErrNoPreviousStep):
		h.logger.Warn("%s - No previous step", route)
		handlers.RespondConflict(w, msgNoPreviousStep)

	default:
		h.logger.Error("%s - Internal error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
