package testutil

import (
	"context"
	"sync"

	"github.com/zetabot-lab/backend/pkg/pubsub"
)

// MockPublisher records published packs per topic. The zero value is
// ready to use.
type MockPublisher struct {
	mutex  sync.Mutex
	Packs  map[string][]*pubsub.Pack
	Failed error
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.Failed != nil {
		return m.Failed
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.Packs == nil {
		m.Packs = map[string][]*pubsub.Pack{}
	}

	m.Packs[topic] = append(m.Packs[topic], pack)
	return nil
}

func (m *MockPublisher) Stop(ctx context.Context) error {
	return nil
}

func (m *MockPublisher) Published(topic string) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.Packs[topic])
}
