package assign_employee

import "time"

// Request модель запроса на назначение сотрудника
type Request struct {
	AppointmentID int64 // ID записи
	EmployeeID    int64 // ID назначаемого сотрудника
	ActorID       int64 // ID пользователя, выполняющего назначение
}

// Response модель ответа с обновлённой записью
type Response struct {
	ID                 int64     // ID записи
	AssignedEmployeeID int64     // ID назначенного сотрудника
	Status             string    // Статус (назначение его не меняет)
	UpdatedAt          time.Time // Время обновления
}
