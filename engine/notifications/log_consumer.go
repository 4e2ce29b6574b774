package notifications

import (
	"github.com/rs/zerolog"

	"github.com/covenantnet/covenant-go/model/covenant"
)

// LogConsumer is an implementation of the notifications consumer that logs a
// message for each event.
type LogConsumer struct {
	log zerolog.Logger
}

var _ EventConsumer = (*LogConsumer)(nil)

func NewLogConsumer(log zerolog.Logger) *LogConsumer {
	lc := &LogConsumer{
		log: log,
	}
	return lc
}

func (lc *LogConsumer) HandleEvent(event *covenant.Event) {
	lc.log.Debug().
		Uint64("sequence", event.Sequence).
		Str("event_type", string(event.Type)).
		Time("emitted_at", event.EmittedAt).
		Int("payload_size", len(event.Payload)).
		Msg("event committed")
}
