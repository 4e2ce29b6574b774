package notifications

import (
	"github.com/covenantnet/covenant-go/model/covenant"
)

// NoopConsumer is an implementation of the notifications consumer that
// doesn't do anything.
type NoopConsumer struct{}

var _ EventConsumer = (*NoopConsumer)(nil)

func NewNoopConsumer() *NoopConsumer {
	nc := &NoopConsumer{}
	return nc
}

func (*NoopConsumer) HandleEvent(*covenant.Event) {}
