package core

// Notifier surfaces dismissible notifications (toasts) to the user.
// Implemented by services/notify.
type Notifier interface {
	Success(title, message string)
	Failure(title, message string)
}

// NotifyError sends the notification of err as described by Describe.
func NotifyError(n Notifier, err error) {
	title, msg := Describe(err)
	n.Failure(title, msg)
}
