// Package handlers общие функции HTTP обработчиков
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const msgInternalError = "внутренняя ошибка сервера"

// Причины для ошибок, не связанных с правилами записи
const (
	ReasonBadRequest      = "BadRequest"
	ReasonNotFound        = "NotFound"
	ReasonConflict        = "Conflict"
	ReasonTooManyRequests = "TooManyRequests"
	ReasonInternal        = "Internal"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Reason   string   `json:"reason"`
	Messages []string `json:"messages"`
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondReason отправляет ошибку с машиночитаемой причиной
func RespondReason(w http.ResponseWriter, status int, reason string, messages ...string) {
	if messages == nil {
		messages = []string{}
	}
	RespondJSON(w, status, ErrorResponse{Reason: reason, Messages: messages})
}

// RespondError отправляет ошибку, причина выводится из статуса
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondReason(w, status, statusReason(status), message)
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

// RespondInternalError не раскрывает детали ошибки клиенту
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondRejection отвечает на отказ по правилам записи
// Возвращает false, если у ошибки нет причины domain и ответ не отправлен
func RespondRejection(w http.ResponseWriter, err error) bool {
	reason := domain.ReasonOf(err)
	status, ok := rejectionStatus[reason]
	if !ok {
		return false
	}

	messages := domain.ProblemsOf(err)
	if len(messages) == 0 {
		messages = []string{err.Error()}
	}
	RespondReason(w, status, reason, messages...)
	return true
}

var rejectionStatus = map[string]int{
	domain.ReasonValidationFailed:      http.StatusBadRequest,
	domain.ReasonInvalidConfiguration:  http.StatusBadRequest,
	domain.ReasonSlotFull:              http.StatusConflict,
	domain.ReasonOutsideZone:           http.StatusUnprocessableEntity,
	domain.ReasonOutsideLeadTimeWindow: http.StatusUnprocessableEntity,
}

func statusReason(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ReasonBadRequest
	case http.StatusNotFound:
		return ReasonNotFound
	case http.StatusConflict:
		return ReasonConflict
	case http.StatusTooManyRequests:
		return ReasonTooManyRequests
	case http.StatusInternalServerError:
		return ReasonInternal
	}
	return strings.ReplaceAll(http.StatusText(status), " ", "")
}

// DecodeJSON декодирует тело запроса
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer r.Body.Close()

	return json.NewDecoder(r.Body).Decode(v)
}

// PathInt64 положительный целочисленный параметр пути
func PathInt64(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return value, nil
}

// QueryFloat необязательный числовой параметр запроса
func QueryFloat(r *http.Request, name string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &value, nil
}
