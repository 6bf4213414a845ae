package devkit

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-accounts/core"
)

// RecordingNotificationSender captures every notification handed to it.
type RecordingNotificationSender struct {
	mu      sync.Mutex
	sent    []core.NotificationMessage
	failure error
}

func NewRecordingNotificationSender() *RecordingNotificationSender {
	return &RecordingNotificationSender{}
}

// Fail makes Send return err until Fail(nil).
func (s *RecordingNotificationSender) Fail(err error) *RecordingNotificationSender {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = err
	return s
}

func (s *RecordingNotificationSender) Send(_ context.Context, msg core.NotificationMessage) error {
	if s == nil {
		return fmt.Errorf("devkit: recording notification sender is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failure != nil {
		return s.failure
	}
	copied := msg
	if msg.Fields != nil {
		copied.Fields = make(map[string]string, len(msg.Fields))
		for k, v := range msg.Fields {
			copied.Fields[k] = v
		}
	}
	s.sent = append(s.sent, copied)
	return nil
}

// Sent returns the captured notifications, oldest first.
func (s *RecordingNotificationSender) Sent() []core.NotificationMessage {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.NotificationMessage(nil), s.sent...)
}

var _ core.NotificationSender = (*RecordingNotificationSender)(nil)
