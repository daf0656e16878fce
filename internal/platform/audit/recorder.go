// Package audit persists raw provider responses verbatim for later
// debugging, one file per symbol and call kind.
package audit

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

type record struct {
	symbol string
	kind   string
	raw    []byte
}

// FileRecorder writes raw responses to <dir>/<kind>_<symbol>.json.
// Record never blocks the caller: entries pass through a buffered channel
// serviced by a single writer goroutine, and are dropped with a warning when
// the buffer is full. Write failures are logged, never surfaced.
type FileRecorder struct {
	dir  string
	ch   chan record
	done chan struct{}
}

// NewFileRecorder creates a FileRecorder writing under dir and starts its
// writer goroutine.
func NewFileRecorder(dir string) *FileRecorder {
	r := &FileRecorder{dir: dir, ch: make(chan record, 64), done: make(chan struct{})}
	go r.loop()
	return r
}

// Record queues one raw response for persistence. Best-effort.
func (r *FileRecorder) Record(symbol, kind string, raw []byte) {
	select {
	case r.ch <- record{symbol: symbol, kind: kind, raw: raw}:
	default:
		slog.Warn("audit buffer full, dropping response", "symbol", symbol, "kind", kind)
	}
}

// Close stops the writer goroutine after draining queued records.
func (r *FileRecorder) Close() {
	close(r.ch)
	<-r.done
}

func (r *FileRecorder) loop() {
	defer close(r.done)
	for rec := range r.ch {
		r.write(rec)
	}
}

func (r *FileRecorder) write(rec record) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		slog.Warn("audit mkdir failed", "dir", r.dir, "error", err)
		return
	}
	name := filepath.Join(r.dir, fmt.Sprintf("%s_%s.json", rec.kind, rec.symbol))
	if err := os.WriteFile(name, rec.raw, 0o644); err != nil {
		slog.Warn("audit write failed", "file", name, "error", err)
	}
}
