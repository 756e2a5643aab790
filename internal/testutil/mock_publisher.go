package testutil

import (
	"context"

	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/notifier"
)

// MockEmailPublisher records published email events in memory
type MockEmailPublisher struct {
	Published []notifier.EmailEvent

	PublishEmailFunc func(ctx context.Context, event *notifier.EmailEvent) error
}

// NewMockEmailPublisher creates a new mock publisher
func NewMockEmailPublisher() *MockEmailPublisher {
	return &MockEmailPublisher{}
}

// PublishEmail implements notifier.EmailPublisher
func (m *MockEmailPublisher) PublishEmail(ctx context.Context, event *notifier.EmailEvent) error {
	if m.PublishEmailFunc != nil {
		return m.PublishEmailFunc(ctx, event)
	}
	m.Published = append(m.Published, *event)
	return nil
}

// Close implements notifier.EmailPublisher
func (m *MockEmailPublisher) Close() error {
	return nil
}
