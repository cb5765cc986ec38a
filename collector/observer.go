// CLAUDE:SUMMARY Passive page observers: categorised event log and exact-URL response watcher.
package collector

import "sync"

// Category names one ordered log inside an EventLog.
type Category string

// CategoryConsole holds severity-filtered console messages.
const CategoryConsole Category = "console"

// EventLog accumulates page events as a mapping from category to an
// ordered log, independent of navigation timing. Observers append from
// the CDP event goroutine while the collector reads after capture.
type EventLog struct {
	mu      sync.Mutex
	entries map[Category][]string
}

// NewEventLog creates an empty EventLog.
func NewEventLog() *EventLog {
	return &EventLog{entries: make(map[Category][]string)}
}

// Append adds one entry to the category's ordered log.
func (l *EventLog) Append(cat Category, msg string) {
	l.mu.Lock()
	l.entries[cat] = append(l.entries[cat], msg)
	l.mu.Unlock()
}

// Entries returns a copy of the category's ordered log.
func (l *EventLog) Entries(cat Category) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries[cat]))
	copy(out, l.entries[cat])
	return out
}

// responseWatcher records the HTTP status of the response whose URL
// equals the navigation URL exactly; the first match wins. Subresource
// responses never match. Known limitation, kept deliberately: redirects
// change the resolved URL, so a redirecting target leaves the status at
// its zero default.
type responseWatcher struct {
	mu     sync.Mutex
	target string
	status int
}

func newResponseWatcher(target string) *responseWatcher {
	return &responseWatcher{target: target}
}

func (w *responseWatcher) Observe(url string, status int) {
	w.mu.Lock()
	if url == w.target && w.status == 0 {
		w.status = status
	}
	w.mu.Unlock()
}

func (w *responseWatcher) Status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}
