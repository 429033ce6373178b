package ports

import "context"

// NotificationPayload is the template parameter set sent when a ticket is
// created. Field names match the operator's email template.
type NotificationPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Email       string `json:"email"`
}

// Dispatcher delivers a structured message to the operator through a hosted
// channel. The ticket service treats it as fire-and-forget: a failed send is
// logged, never rolled back into ticket state.
type Dispatcher interface {
	Send(ctx context.Context, templateID string, payload NotificationPayload) error
}
