package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// DiagLogger records dump lines the parser skipped, one per line, so a
// noisy dump can be inspected without raising the main log level.
type DiagLogger interface {
	Log(source string, line int, reason, text string)
}

// diagLogger implements DiagLogger with thread-safe writes.
type diagLogger struct {
	w   io.Writer
	mu  sync.Mutex
	now func() time.Time
}

// NewDiag creates a new DiagLogger. If writer is nil, returns a no-op logger.
func NewDiag(w io.Writer) DiagLogger {
	return &diagLogger{w: w, now: time.Now}
}

// Log emits "<time> <source>:<line> <reason>: <text>".
func (d *diagLogger) Log(source string, line int, reason, text string) {
	if d.w == nil {
		return
	}

	entry := fmt.Sprintf("%s %s:%d %s: %q\n",
		d.now().Format("2006/01/02 15:04:05"),
		source,
		line,
		reason,
		text)

	d.mu.Lock()
	_, _ = io.WriteString(d.w, entry)
	d.mu.Unlock()
}
