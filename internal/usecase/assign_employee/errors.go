package assign_employee

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("assign_employee: appointment not found")

	// ErrEmployeeNotFound возвращается, когда сотрудник не найден
	ErrEmployeeNotFound = errors.New("assign_employee: employee not found")

	// ErrEmployeeNotAvailable возвращается, когда интервал записи пересекается
	// с другой записью сотрудника
	ErrEmployeeNotAvailable = errors.New("assign_employee: employee is not available for the appointment interval")

	// ErrAppointmentFinished возвращается при попытке назначить сотрудника
	// на запись в терминальном статусе
	ErrAppointmentFinished = errors.New("assign_employee: appointment is in a terminal status")

	// ErrIdentityUnavailable возвращается в режиме fail_closed, когда
	// IdentityService недоступен и проверка не может быть выполнена
	ErrIdentityUnavailable = errors.New("assign_employee: identity service unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("assign_employee: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("assign_employee: internal error")
)
