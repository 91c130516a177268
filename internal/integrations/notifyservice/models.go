package notifyservice

// NotificationType тип события уведомления
type NotificationType string

const (
	TypeCreated     NotificationType = "created"
	TypeConfirmed   NotificationType = "confirmed"
	TypeReminder    NotificationType = "reminder"
	TypeCancelled   NotificationType = "cancelled"
	TypeCompleted   NotificationType = "completed"
	TypeRescheduled NotificationType = "rescheduled"
)

// Notification модель уведомления для NotificationService
type Notification struct {
	Type            NotificationType       `json:"type"`
	RecipientUserID int64                  `json:"recipient_user_id"`
	Title           string                 `json:"title"`
	Message         string                 `json:"message"`
	Data            map[string]interface{} `json:"data,omitempty"`
}
