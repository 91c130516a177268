package create_appointment

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest проверяет статические поля запроса.
// Все нарушения собираются в один domain.ValidationError - клиент получает
// полный список проблем за один запрос, а не по одной за раз.
func (uc *UseCase) validateRequest(req *Request) *domain.ValidationError {
	verr := &domain.ValidationError{}

	if req.CustomerID <= 0 {
		verr.Add("customerId", "must be a positive integer")
	}
	if req.VehicleID <= 0 {
		verr.Add("vehicleId", "must be a positive integer")
	}
	if req.AssignedEmployeeID != nil && *req.AssignedEmployeeID <= 0 {
		verr.Add("assignedEmployeeId", "must be a positive integer")
	}

	if !domain.AppointmentType(req.Type).IsValid() {
		verr.Add("type", "unknown appointment type")
	}

	if req.Date.IsZero() {
		verr.Add("scheduledDate", "is required")
	}
	if err := req.StartTime.Validate(); err != nil {
		verr.Add("scheduledTime", "must be in HH:MM format")
	}

	if req.DurationMinutes != 0 &&
		(req.DurationMinutes < domain.MinDurationMinutes || req.DurationMinutes > domain.MaxDurationMinutes) {
		verr.Add("durationMinutes", "must be between 15 and 480 minutes")
	}

	if req.ServiceDescription == "" {
		verr.Add("serviceDescription", "is required")
	} else if len(req.ServiceDescription) > domain.MaxServiceDescriptionLen {
		verr.Add("serviceDescription", "exceeds maximum length")
	}

	if req.CustomerNotes != nil && len(*req.CustomerNotes) > domain.MaxNotesLength {
		verr.Add("customerNotes", "exceeds maximum length")
	}
	if req.InternalNotes != nil && len(*req.InternalNotes) > domain.MaxNotesLength {
		verr.Add("internalNotes", "exceeds maximum length")
	}
	if req.EstimatedCost != nil && *req.EstimatedCost < 0 {
		verr.Add("estimatedCost", "must not be negative")
	}

	if verr.HasViolations() {
		return verr
	}
	return nil
}
