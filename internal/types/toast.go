package types

import "time"

// Toast is a transient notification raised by sync and fetch outcomes. The
// root model drops it once Expires passes, on the UI tick.
type Toast struct {
	Level   ToastLevel
	Message string
	Expires time.Time
}

// NewToast builds a toast that lives for ttl from now.
func NewToast(level ToastLevel, message string, ttl time.Duration) Toast {
	return Toast{Level: level, Message: message, Expires: time.Now().Add(ttl)}
}

// Expired reports whether the toast should no longer render.
func (t Toast) Expired(now time.Time) bool {
	return !t.Expires.After(now)
}

// ToastLevel is the severity of a toast.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastError
)
