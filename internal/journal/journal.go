// Package journal persists the registry's notification stream. It subscribes
// to the event bus and appends one JSON line per event, giving a durable
// audit trail of every successful mutation in publish order.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/kingrea/taskledger/internal/events"
)

// Logger is the minimal surface the journal needs for write diagnostics.
type Logger interface {
	Printf(format string, args ...any)
}

// Journal copies bus events into an append-only .jsonl file.
type Journal struct {
	file   *os.File
	sub    events.Subscription
	logger Logger
	done   chan struct{}
	once   sync.Once
}

// Open attaches a journal to the bus, appending to the file at path. The
// returned journal keeps writing until Close is called or the bus shuts down.
func Open(path string, bus *events.Bus, logger Logger) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	j := &Journal{
		file:   f,
		sub:    bus.Subscribe(),
		logger: logger,
		done:   make(chan struct{}),
	}
	go j.run()
	return j, nil
}

// Close detaches from the bus, drains buffered events, and closes the file.
// Subsequent calls are no-ops.
func (j *Journal) Close() error {
	var err error
	j.once.Do(func() {
		j.sub.Close()
		<-j.done
		err = j.file.Close()
	})
	return err
}

func (j *Journal) run() {
	defer close(j.done)
	enc := json.NewEncoder(j.file)
	for event := range j.sub.Events {
		if err := enc.Encode(event); err != nil && j.logger != nil {
			j.logger.Printf("journal: write event seq=%d: %v", event.Sequence, err)
		}
	}
}
