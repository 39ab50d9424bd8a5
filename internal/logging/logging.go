// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/shiena/ansicolor"
	"github.com/sirupsen/logrus"
)

// Config configures the logger.
type Config struct {
	Level    string // logrus level name, info when empty or unknown
	Dir      string // when set, also append to <Dir>/<date>.log
	Terminal bool   // write to stdout
}

// New creates a logger writing to the terminal and/or a daily log file.
func New(cfg Config) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetFormatter(&nested.Formatter{
		ShowFullLevel:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
		FieldsOrder:     []string{"req", "method", "path", "status", "layer", "type"},
	})

	var outputs []io.Writer
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		filename := filepath.Join(cfg.Dir, time.Now().Format("2006-01-02.log"))
		file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		outputs = append(outputs, file)
	}
	if cfg.Terminal || len(outputs) == 0 {
		outputs = append(outputs, os.Stdout)
	}
	log.SetOutput(ansicolor.NewAnsiColorWriter(io.MultiWriter(outputs...)))

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log, nil
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
