package notification

import (
	"time"

	"github.com/google/uuid"
)

// ToastLifetime is how long a toast stays visible.
const ToastLifetime = 5 * time.Second

// ToastType is the severity of a toast.
type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastInfo    ToastType = "info"
)

// Toast is a short-lived user-facing message.
type Toast struct {
	ID         string
	SequenceNo uint64
	Type       ToastType
	Message    string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// NewToast creates a toast that expires ToastLifetime after now.
func NewToast(t ToastType, message string, now time.Time) *Toast {
	return &Toast{
		ID:        uuid.New().String(),
		Type:      t,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(ToastLifetime),
	}
}

// Expired reports whether the toast is no longer visible at now.
func (t *Toast) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
