package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// RotatingWriter writes to one log file per ISO week ("clinic-2026-W35.log"),
// starts a fresh numbered file when the current one exceeds maxFileSize, and
// removes files older than the retention period on each rotation.
type RotatingWriter struct {
	logDir      string
	retention   time.Duration
	maxFileSize int64

	mu          sync.Mutex
	currentFile *os.File
	currentWeek string
	currentSize int64
	fileSeq     int
}

// NewRotatingWriter creates a writer; files are opened lazily on first write.
// maxFileSize <= 0 disables size-based rotation.
func NewRotatingWriter(logDir string, retentionWeeks int, maxFileSize int64) *RotatingWriter {
	return &RotatingWriter{
		logDir:      logDir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
	}
}

func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	week := weekKey(time.Now())
	needsRotate := rw.currentFile == nil ||
		week != rw.currentWeek ||
		(rw.maxFileSize > 0 && rw.currentSize+int64(len(p)) > rw.maxFileSize)

	if needsRotate {
		if err := rw.rotate(week); err != nil {
			return 0, err
		}
	}

	n, err := rw.currentFile.Write(p)
	rw.currentSize += int64(n)
	return n, err
}

// rotate opens the next file for the given week. Caller holds the lock.
func (rw *RotatingWriter) rotate(week string) error {
	if rw.currentFile != nil {
		_ = rw.currentFile.Close()
		rw.currentFile = nil
	}

	if week != rw.currentWeek {
		rw.fileSeq = 0
	} else {
		rw.fileSeq++
	}

	name := fmt.Sprintf("clinic-%s.log", week)
	if rw.fileSeq > 0 {
		name = fmt.Sprintf("clinic-%s_%02d.log", week, rw.fileSeq)
	}

	path := filepath.Join(rw.logDir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", path, err)
	}

	info, err := file.Stat()
	if err == nil {
		rw.currentSize = info.Size()
	} else {
		rw.currentSize = 0
	}

	rw.currentFile = file
	rw.currentWeek = week

	rw.cleanupOldLogs()
	return nil
}

// cleanupOldLogs removes clinic-*.log files past retention. Caller holds the
// lock; failures are ignored so logging never blocks on housekeeping.
func (rw *RotatingWriter) cleanupOldLogs() {
	if rw.retention <= 0 {
		return
	}

	entries, err := os.ReadDir(rw.logDir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-rw.retention)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "clinic-") || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(rw.logDir, entry.Name()))
		}
	}
}

// Close closes the current log file.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.currentFile != nil {
		err := rw.currentFile.Close()
		rw.currentFile = nil
		return err
	}
	return nil
}
