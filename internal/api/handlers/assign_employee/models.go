package assign_employee

import (
	"time"

	assignEmployee "github.com/m04kA/SMC-AppointmentService/internal/usecase/assign_employee"
)

// AssignEmployeeRequest HTTP request model
type AssignEmployeeRequest struct {
	EmployeeID int64 `json:"employeeId"`
}

// AssignEmployeeResponse HTTP response model
type AssignEmployeeResponse struct {
	ID                 int64  `json:"id"`
	AssignedEmployeeID int64  `json:"assignedEmployeeId"`
	Status             string `json:"status"`
	UpdatedAt          string `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *assignEmployee.Response) *AssignEmployeeResponse {
	return &AssignEmployeeResponse{
		ID:                 resp.ID,
		AssignedEmployeeID: resp.AssignedEmployeeID,
		Status:             resp.Status,
		UpdatedAt:          resp.UpdatedAt.Format(time.RFC3339),
	}
}
