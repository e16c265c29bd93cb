package service

// Notifier receives an event after each successful mutation. The websocket
// hub implements it; a nil Notifier disables events.
type Notifier interface {
	Publish(payload interface{})
}

type event map[string]interface{}

func publish(n Notifier, payload event) {
	if n == nil {
		return
	}
	n.Publish(payload)
}
