package subscribe_area_events

import (
	"github.com/m04kA/PWS-ReservationService/internal/events"
)

type EventBroker interface {
	Subscribe(area string) *events.Subscription
	Unsubscribe(sub *events.Subscription)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
