package assign_employee

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	assignEmployee "github.com/m04kA/SMC-AppointmentService/internal/usecase/assign_employee"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgNotFound             = "запись не найдена"
	msgEmployeeNotFound     = "сотрудник не найден"
	msgEmployeeNotAvailable = "сотрудник занят в интервале записи"
	msgAppointmentFinished  = "запись уже завершена"
	msgIdentityUnavailable  = "сервис проверки пользователей недоступен"
	msgMissingUserID        = "отсутствует ID пользователя"
)

type Handler struct {
	useCase AssignEmployeeUseCase
	logger  Logger
}

func NewHandler(useCase AssignEmployeeUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/assign
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем appointmentId из URL
	vars := mux.Vars(r)
	appointmentIDStr := vars["appointmentId"]

	appointmentID, err := strconv.ParseInt(appointmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/assign - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/assign - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req AssignEmployeeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/assign - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), &assignEmployee.Request{
		AppointmentID: appointmentID,
		EmployeeID:    req.EmployeeID,
		ActorID:       actorID,
	})
	if err != nil {
		switch {
		case errors.Is(err, assignEmployee.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/assign - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, assignEmployee.ErrEmployeeNotFound):
			h.logger.Warn("PATCH /appointments/{id}/assign - Employee not found: employee_id=%d", req.EmployeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, assignEmployee.ErrEmployeeNotAvailable):
			h.logger.Warn("PATCH /appointments/{id}/assign - Employee not available: appointment_id=%d, employee_id=%d",
				appointmentID, req.EmployeeID)
			handlers.RespondError(w, http.StatusConflict, msgEmployeeNotAvailable)

		case errors.Is(err, assignEmployee.ErrAppointmentFinished):
			h.logger.Warn("PATCH /appointments/{id}/assign - Appointment finished: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgAppointmentFinished)

		case errors.Is(err, assignEmployee.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id}/assign - Invalid input: appointment_id=%d, employee_id=%d",
				appointmentID, req.EmployeeID)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, assignEmployee.ErrIdentityUnavailable):
			h.logger.Error("PATCH /appointments/{id}/assign - Identity service unavailable: employee_id=%d, error=%v",
				req.EmployeeID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgIdentityUnavailable)

		default:
			h.logger.Error("PATCH /appointments/{id}/assign - Failed to assign employee: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("PATCH /appointments/{id}/assign - Employee assigned successfully: appointment_id=%d, employee_id=%d, user_id=%d",
		appointmentID, req.EmployeeID, actorID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
