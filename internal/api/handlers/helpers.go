package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse тело ответа с нарушениями валидации.
// Возвращает весь список нарушений за один запрос.
type ValidationErrorResponse struct {
	Error      string         `json:"error"`
	Violations []FieldProblem `json:"violations"`
}

// FieldProblem одно нарушение валидации
type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DecodeJSON декодирует тело запроса в out
func DecodeJSON(r *http.Request, out interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

// RespondJSON пишет JSON ответ с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// RespondError пишет ответ с ошибкой и указанным статусом
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

// RespondBadRequest пишет 400 Bad Request
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondNotFound пишет 404 Not Found
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

// RespondUnauthorized пишет 401 Unauthorized
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

// RespondForbidden пишет 403 Forbidden
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

// RespondInternalError пишет 500 Internal Server Error
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
}

// RespondValidationError пишет 400 со списком всех нарушений.
// Если err не является *domain.ValidationError, пишет обычный 400.
func RespondValidationError(w http.ResponseWriter, err error, fallbackMsg string) {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		RespondBadRequest(w, fallbackMsg)
		return
	}

	resp := ValidationErrorResponse{
		Error:      fallbackMsg,
		Violations: make([]FieldProblem, 0, len(verr.Violations)),
	}
	for _, v := range verr.Violations {
		resp.Violations = append(resp.Violations, FieldProblem{Field: v.Field, Message: v.Message})
	}

	RespondJSON(w, http.StatusBadRequest, resp)
}
