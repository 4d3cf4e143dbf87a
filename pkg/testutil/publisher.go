package testutil

import (
	"context"
	"sync"

	"github.com/klede-lab/waitlist/pkg/pubsub"
)

type PublishedPack struct {
	Topic string
	Pack  *pubsub.Pack
}

type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	mutex     sync.Mutex
	published []PublishedPack
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	m.mutex.Lock()
	m.published = append(m.published, PublishedPack{Topic: topic, Pack: pack})
	m.mutex.Unlock()

	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return nil
}

func (m *MockPublisher) Published(topic string) []*pubsub.Pack {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	result := []*pubsub.Pack{}
	for _, p := range m.published {
		if p.Topic == topic {
			result = append(result, p.Pack)
		}
	}

	return result
}
