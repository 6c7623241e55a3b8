// Package archive writes the weekly flat-file dump of collected news posts.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/village-blogger/internal/analytics"
	"github.com/jonathan/village-blogger/internal/types"
)

// DefaultWeekday is the day the archive is written.
const DefaultWeekday = time.Wednesday

// Writer writes week_<date>.txt files into a directory on one weekday.
type Writer struct {
	dir     string
	weekday time.Weekday
}

// NewWriter creates a Writer for dir that writes on DefaultWeekday.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, weekday: DefaultWeekday}
}

// Due reports whether now falls on the archive weekday.
func (w *Writer) Due(now time.Time) bool {
	return now.Weekday() == w.weekday
}

// Path returns the archive file for the day of now.
func (w *Writer) Path(now time.Time) string {
	return filepath.Join(w.dir, fmt.Sprintf("week_%s.txt", now.Format("2006-01-02")))
}

// Write stores the archive text of posts when now is the archive weekday and returns the
// path written, or "" when it is not due. A second run on the same day overwrites the file.
func (w *Writer) Write(now time.Time, posts []types.Post) (string, error) {
	if !w.Due(now) {
		return "", nil
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	path := w.Path(now)
	if err := os.WriteFile(path, []byte(analytics.ArchiveText(now, posts)), 0644); err != nil {
		return "", fmt.Errorf("failed to write archive %s: %w", path, err)
	}
	return path, nil
}
