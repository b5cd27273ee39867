package core

import "net/mail"

type (
	// Notification is a short, human-readable success/failure event emitted by the
	// workflow services for display to the user. Formatting and routing beyond the
	// message string is up to the NotificationService implementation.
	Notification struct {
		Recipient mail.Address
		Message   string
		Success   bool
	}

	// NotificationService is any service that can deliver notifications.
	NotificationService interface {
		// Send delivers notifications concurrently; it never blocks the caller.
		Send(notifications ...Notification)
	}
)
