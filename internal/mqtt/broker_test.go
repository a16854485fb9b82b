package mqtt

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
)

// fakeBroker records publishes in memory and can be told to refuse
// specific topics, standing in for the live connection in tests.
type fakeBroker struct {
	mu         sync.Mutex
	records    []publishRecord
	failTopics map[string]bool
}

type publishRecord struct {
	topic   string
	payload string
	retain  bool
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{failTopics: make(map[string]bool)}
}

func (f *fakeBroker) Publish(_ context.Context, topic string, payload []byte, retain bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTopics[topic] {
		return errors.New("publish refused")
	}
	f.records = append(f.records, publishRecord{topic: topic, payload: string(payload), retain: retain})
	return nil
}

// last returns the most recent publish to topic, if any.
func (f *fakeBroker) last(topic string) (publishRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].topic == topic {
			return f.records[i], true
		}
	}
	return publishRecord{}, false
}

func (f *fakeBroker) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
