package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/boardlens/boardlens/internal/logger"
)

const flushBatchSize = 10

// Log is the append-only, line-delimited event log. Events buffer in memory
// and flush every flushBatchSize, on the periodic save tick, and on orderly
// shutdown. The solver worker is the only writer; HTTP handlers read the
// recent tail concurrently.
type Log struct {
	mu        sync.Mutex
	path      string
	buf       []Event
	recent    []Event // in-memory tail for /analytics/move-log
	maxRecent int
}

func NewLog(path string) *Log {
	return &Log{path: path, maxRecent: 500}
}

// Append buffers events, flushing when the batch fills.
func (l *Log) Append(events []Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ev := range events {
		l.buf = append(l.buf, ev)
		l.recent = append(l.recent, ev)
		if len(l.buf) >= flushBatchSize {
			l.flushLocked()
		}
	}
	if len(l.recent) > l.maxRecent {
		l.recent = append([]Event(nil), l.recent[len(l.recent)-l.maxRecent:]...)
	}
}

// Flush appends the buffered events to disk. A write failure loses the
// affected events but always clears the buffer: in-memory state is
// authoritative and the buffer must not grow without bound.
func (l *Log) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.flushLocked()
}

func (l *Log) flushLocked() {
	if len(l.buf) == 0 {
		return
	}
	events := l.buf
	l.buf = nil

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		logger.Error("event log dir", "err", err)
		return
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logger.Error("event log open", "path", l.path, "err", err)
		return
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, ev := range events {
		line, err := json.Marshal(ev)
		if err != nil {
			logger.Error("event log marshal", "err", err)
			continue
		}
		w.Write(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		logger.Error("event log write", "path", l.path, "err", err)
	}
}

// Recent returns up to limit of the newest buffered events, oldest first.
func (l *Log) Recent(limit int) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limit <= 0 || limit > len(l.recent) {
		limit = len(l.recent)
	}
	return append([]Event(nil), l.recent[len(l.recent)-limit:]...)
}

// ReadLog reads every event from a line-delimited log file. A partial last
// line (the crash case) is discarded; other malformed lines are skipped.
func ReadLog(path string) ([]Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read event log: %w", err)
	}

	var events []Event
	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] != '\n' {
			continue
		}
		line := data[start:i]
		start = i + 1
		if len(line) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			logger.Warn("event log line skipped", "err", err)
			continue
		}
		events = append(events, ev)
	}
	// Anything after the final newline is a torn write; ignore it.
	return events, nil
}
