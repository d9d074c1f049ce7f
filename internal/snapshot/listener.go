package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/collectgame/server/internal/event"
	"go.uber.org/zap"
)

// Save serializes snap and atomically replaces the file at path: write to
// "<path>.tmp", fsync, then rename over path (spec.md §4.8, §6).
func Save(path string, snap Snapshot) error {
	data := Encode(snap)
	tmpPath := path + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("snapshot: open temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("snapshot: write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("snapshot: sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("snapshot: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("snapshot: rename temp file: %w", err)
	}
	return nil
}

// Load reads and decodes the snapshot at path. If the file doesn't exist,
// it returns a zero-value Snapshot and no error — there is nothing to
// restore on first startup. Any other error (unreadable, truncated,
// corrupt) is fatal and must not be silently ignored (spec.md §4.8).
func Load(path string) (Snapshot, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("snapshot: read %s: %w", path, err)
	}
	snap, err := Decode(data)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("snapshot: decode %s: %w", path, err)
	}
	return snap, true, nil
}

// EnsureDir creates the parent directory of path if it doesn't already
// exist, so Save doesn't fail on a fresh deployment.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Listener subscribes to event.TickCompleted and writes a snapshot at the
// cadence spec.md §4.8 requires: unconditionally after a manual tick, or
// once time-since-last-save has reached period after an auto tick.
type Listener struct {
	path    string
	period  time.Duration
	capture func() Snapshot
	log     *zap.Logger

	mu       sync.Mutex
	lastSave time.Time
}

// NewListener builds a Listener and subscribes it to bus. capture is
// called to obtain the state to serialize at each save point (typically
// app.Service.Snapshot).
func NewListener(bus *event.Bus, path string, period time.Duration, capture func() Snapshot, log *zap.Logger) *Listener {
	l := &Listener{path: path, period: period, capture: capture, log: log, lastSave: time.Now()}
	event.Subscribe(bus, l.onTickCompleted)
	return l
}

func (l *Listener) onTickCompleted(ev event.TickCompleted) {
	if !ev.Manual {
		l.mu.Lock()
		due := time.Since(l.lastSave) >= l.period
		l.mu.Unlock()
		if !due {
			return
		}
	}

	if err := Save(l.path, l.capture()); err != nil {
		if l.log != nil {
			l.log.Error("snapshot save failed", zap.Error(err))
		}
		return
	}

	l.mu.Lock()
	l.lastSave = time.Now()
	l.mu.Unlock()
}
