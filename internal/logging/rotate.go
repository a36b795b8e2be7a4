// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pdiddy/doc2pdf/pkg/types"
)

const (
	filePrefix = "application"
	dateLayout = "2006-01-02"
)

// DailyWriter writes to logs/application-YYYY-MM-DD.log, starting a new file
// when the date changes. Within a day, lumberjack enforces the size cap by
// rotating out-of-cycle. Finished days are gzipped and files older than the
// retention window are pruned at each rollover.
type DailyWriter struct {
	mu       sync.Mutex
	dir      string
	maxSize  int
	maxAge   int
	compress bool
	now      func() time.Time

	day     string
	current *lumberjack.Logger
}

// NewDailyWriter creates the log directory and returns a writer for it. The
// first file is opened lazily on the first write.
func NewDailyWriter(cfg types.LoggingConfig) (*DailyWriter, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %s: %w", cfg.Dir, err)
	}
	return &DailyWriter{
		dir:      cfg.Dir,
		maxSize:  cfg.MaxSizeMB,
		maxAge:   cfg.MaxAgeDays,
		compress: cfg.Compress,
		now:      time.Now,
	}, nil
}

// Filename returns the active log file for the given day.
func (w *DailyWriter) Filename(day time.Time) string {
	return filepath.Join(w.dir, filePrefix+"-"+day.Format(dateLayout)+".log")
}

func (w *DailyWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	if day := now.Format(dateLayout); w.current == nil || day != w.day {
		w.rollover(now)
	}
	return w.current.Write(p)
}

// Sync satisfies zapcore.WriteSyncer; lumberjack writes through to the file.
func (w *DailyWriter) Sync() error { return nil }

// Close closes the active file.
func (w *DailyWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return nil
	}
	err := w.current.Close()
	w.current = nil
	return err
}

func (w *DailyWriter) rollover(now time.Time) {
	if w.current != nil {
		prev := w.current.Filename
		if err := w.current.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing log %s: %v\n", prev, err)
		}
		if w.compress {
			if err := gzipFile(prev); err != nil {
				fmt.Fprintf(os.Stderr, "warning: compressing log %s: %v\n", prev, err)
			}
		}
	} else if w.compress {
		w.compressStale(now)
	}

	w.day = now.Format(dateLayout)
	w.current = &lumberjack.Logger{
		Filename:  w.Filename(now),
		MaxSize:   w.maxSize,
		MaxAge:    w.maxAge,
		Compress:  w.compress,
		LocalTime: true,
	}
	w.prune(now)
}

// compressStale gzips day files left uncompressed by an earlier process
// that stopped before its rollover.
func (w *DailyWriter) compressStale(now time.Time) {
	matches, err := filepath.Glob(filepath.Join(w.dir, filePrefix+"-*.log"))
	if err != nil {
		return
	}

	today := now.Format(dateLayout)
	for _, m := range matches {
		name := filepath.Base(m)
		if len(name) != len(filePrefix+"-"+dateLayout+".log") {
			continue
		}
		day, ok := fileDay(name)
		if !ok || day.Format(dateLayout) == today || day.After(now) {
			continue
		}
		if err := gzipFile(m); err != nil {
			fmt.Fprintf(os.Stderr, "warning: compressing log %s: %v\n", m, err)
		}
	}
}

// prune removes files whose name date is older than the retention window.
// Lumberjack only ages out backups of its own file, not earlier days.
func (w *DailyWriter) prune(now time.Time) {
	if w.maxAge <= 0 {
		return
	}
	matches, err := filepath.Glob(filepath.Join(w.dir, filePrefix+"-*.log*"))
	if err != nil {
		return
	}

	cutoff := now.AddDate(0, 0, -w.maxAge)
	for _, m := range matches {
		day, ok := fileDay(filepath.Base(m))
		if !ok || !day.Before(cutoff) {
			continue
		}
		if err := os.Remove(m); err != nil {
			fmt.Fprintf(os.Stderr, "warning: pruning log %s: %v\n", m, err)
		}
	}
}

// fileDay extracts the date from application-YYYY-MM-DD[...].log[.gz].
func fileDay(name string) (time.Time, bool) {
	rest := strings.TrimPrefix(name, filePrefix+"-")
	if rest == name || len(rest) < len(dateLayout) {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation(dateLayout, rest[:len(dateLayout)], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

func gzipFile(path string) error {
	src, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(path+".gz", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(dst)
	if _, err := io.Copy(gz, src); err != nil {
		dst.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}
