// Package store persists finished analysis reports as markdown files.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Store struct {
	dir string
	now func() time.Time
}

func New(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Save writes the report under {ticker}_analysis_{timestamp}.md and
// returns the path. Timestamp resolution is one second; two saves for
// the same ticker within the same second land on the same file and
// the overwrite behavior is undefined.
func (s *Store) Save(content, ticker string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	now := s.now()
	filename := fmt.Sprintf("%s_analysis_%s.md", ticker, now.Format("20060102_150405"))
	path := filepath.Join(s.dir, filename)

	full := fmt.Sprintf("# %s Stock Analysis Report\n\nGenerated on: %s\n\n%s",
		ticker, now.Format("2006-01-02 15:04:05"), content)

	if err := os.WriteFile(path, []byte(full), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
