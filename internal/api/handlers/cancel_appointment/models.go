package cancel_appointment

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	Reason string `json:"reason,omitempty"` // Причина отмены (опционально)
}
