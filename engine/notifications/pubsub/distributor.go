package pubsub

import (
	"sync"

	"github.com/google/uuid"

	"github.com/covenantnet/covenant-go/engine/notifications"
	"github.com/covenantnet/covenant-go/model/covenant"
)

// Distributor fans committed events out to subscribed consumers. It allows
// thread-safe subscription and unsubscription of multiple consumers.
type Distributor struct {
	subscribers map[uuid.UUID]notifications.EventConsumer
	lock        sync.RWMutex
}

var _ notifications.EventConsumer = (*Distributor)(nil)

func NewDistributor() *Distributor {
	return &Distributor{
		subscribers: make(map[uuid.UUID]notifications.EventConsumer),
	}
}

// AddConsumer subscribes the consumer to all events and returns a handle for
// unsubscribing it.
func (d *Distributor) AddConsumer(consumer notifications.EventConsumer) uuid.UUID {
	d.lock.Lock()
	defer d.lock.Unlock()
	id := uuid.New()
	d.subscribers[id] = consumer
	return id
}

// RemoveConsumer unsubscribes the consumer with the given handle. Removing an
// unknown handle is a no-op.
func (d *Distributor) RemoveConsumer(id uuid.UUID) {
	d.lock.Lock()
	defer d.lock.Unlock()
	delete(d.subscribers, id)
}

func (d *Distributor) HandleEvent(event *covenant.Event) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	for _, consumer := range d.subscribers {
		consumer.HandleEvent(event)
	}
}
