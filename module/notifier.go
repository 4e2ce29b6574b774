package module

// Notifier is a concurrency primitive for informing a worker routine about
// the arrival of new work units. It behaves like a channel in that it can be
// passed by value while still sharing the same internal state.
//
// Notify never blocks: if a notification is already pending, further calls
// are no-ops. A worker receiving from Channel therefore learns that work
// arrived since it last checked, not how much.
type Notifier struct {
	notifier chan struct{} // buffered channel with capacity 1
}

// NewNotifier instantiates a Notifier.
func NewNotifier() Notifier {
	return Notifier{make(chan struct{}, 1)}
}

// Notify signals that new work is available.
func (n Notifier) Notify() {
	select {
	case n.notifier <- struct{}{}:
	default:
	}
}

// Channel returns the channel for receiving notifications.
func (n Notifier) Channel() <-chan struct{} {
	return n.notifier
}
