package app

import (
	"context"
	"strings"
	"sync"
	"time"
)

const (
	logDebounceInterval = 150 * time.Millisecond
	logLineLimit        = 300
)

// logCapture keeps the most recent log lines and pushes them to sink,
// coalescing bursts of writes.
type logCapture struct {
	mu     sync.Mutex
	lines  []string
	limit  int
	sink   func(string)
	notify chan struct{}
}

func newLogCapture(limit int, sink func(string)) *logCapture {
	return &logCapture{limit: limit, sink: sink, notify: make(chan struct{}, 1)}
}

func (l *logCapture) Write(p []byte) (int, error) {
	text := strings.ReplaceAll(string(p), "\r\n", "\n")
	l.mu.Lock()
	for _, part := range strings.Split(text, "\n") {
		if part == "" {
			continue
		}
		l.lines = append(l.lines, part)
	}
	if len(l.lines) > l.limit {
		l.lines = l.lines[len(l.lines)-l.limit:]
	}
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
	return len(p), nil
}

// Text returns the retained lines joined by newlines.
func (l *logCapture) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}

// run flushes to sink once writes have been quiet for interval.
func (l *logCapture) run(ctx context.Context, interval time.Duration) {
	timer := time.NewTimer(interval)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-l.notify:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(interval)
		case <-timer.C:
			if l.sink != nil {
				l.sink(l.Text())
			}
		}
	}
}
