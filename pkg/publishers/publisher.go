package publishers

import "context"

// Publisher sends events to a downstream sink (SQS, SNS, Pub/Sub, HTTP).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger is the logging surface publishers rely on.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}

// logDelivery reports the outcome of one publish attempt.
func logDelivery(log Logger, typ, id string, evt Event, err error) {
	fields := map[string]any{
		"publisher_id": id,
		"event_id":     evt.ID,
	}
	if err != nil {
		fields["error"] = err.Error()
		log.ErrorObj(typ+" publisher send failed", "publisher_"+typ+"_error", fields)
		return
	}
	log.DebugObj(typ+" publisher delivered event", "publisher_"+typ+"_delivery", fields)
}
