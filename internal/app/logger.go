package app

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/jobportal/recruitment/pkg/logger"
)

// ConfigureLogging initialises the global logger from the server settings,
// defaulting to info level JSON output. Unknown levels are rejected.
func ConfigureLogging(cfg ServerConfig) error {
	level := strings.TrimSpace(cfg.LogLevel)
	if level == "" {
		level = "info"
	}
	if _, err := zapcore.ParseLevel(level); err != nil {
		return fmt.Errorf("server.log_level: %w", err)
	}
	return logger.InitWithOptions(logger.Options{Level: level, Format: strings.TrimSpace(cfg.LogFormat)})
}
