package testutil

import (
	"context"
	"sync"

	"github.com/klede-lab/waitlist/pkg/email"
)

type MockSender struct {
	SendFunc func(ctx context.Context, msg *email.Message) error

	mutex sync.Mutex
	sent  []email.Message
}

func (m *MockSender) Send(ctx context.Context, msg *email.Message) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, msg); err != nil {
			return err
		}
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sent = append(m.sent, *msg)
	return nil
}

func (m *MockSender) Sent() []email.Message {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return append([]email.Message{}, m.sent...)
}
