package transition_appointment

// TransitionRequest HTTP request model
type TransitionRequest struct {
	Status string `json:"status"`           // Целевой статус
	Reason string `json:"reason,omitempty"` // Причина изменения (опционально)
}
