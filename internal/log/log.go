// Package log собирает логгер сервиса из настроек.
package log

import (
	"io"
	"strings"
	"time"

	"tenders/internal/config"

	"github.com/charmbracelet/log"
)

// NewLogger возвращает логгер, который пишет в w.
func NewLogger(w io.Writer, cfg config.LogConfig) (*log.Logger, error) {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		ReportCaller:    cfg.Caller,
	})

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(log.JSONFormatter)
	case "logfmt":
		logger.SetFormatter(log.LogfmtFormatter)
	default:
		logger.SetFormatter(log.TextFormatter)
	}
	return logger, nil
}
