// Package scaffold creates the empty placeholder files of a deployment project
package scaffold

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// files are created in this order. The trailing spaces in two names are deliberate.
var files = []string{
	"train_model.py ",
	"app.py",
	"Dockerfile",
	"docker-compose.yml",
	"ml-deployment.yaml",
	"ml-config.yaml ",
	"requirements.txt",
	"setup.sh",
}

// Files returns a copy of the fixed placeholder file list.
func Files() []string {
	return append([]string(nil), files...)
}

// Logger writes "[time]: message:" lines.
type Logger struct {
	l   *log.Logger
	now func() time.Time
}

// NewLogger returns a Logger writing to w.
func NewLogger(w io.Writer) *Logger {
	return &Logger{l: log.New(w, "", 0), now: time.Now}
}

// Infof logs a formatted message with a millisecond timestamp.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.l.Printf("[%s]: %s:", l.now().Format("2006-01-02 15:04:05,000"), fmt.Sprintf(format, args...))
}

// Generate creates every name in dir as an empty file, truncating existing files.
// It stops at the first file that cannot be created.
func Generate(dir string, names []string, logger *Logger) error {
	for _, name := range names {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		logger.Infof("Creating file: %s", name)
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
