// Package utils holds small shared helpers, chiefly the application logger.
package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes application logs to a rotating file under the config
// directory. Messages go to the file only; anything the user should see on
// screen is printed by the caller.
type Logger struct {
	logger   *log.Logger
	jsonMode bool
}

var (
	globalLogger *Logger
	once         sync.Once
)

// GetLogger returns the singleton logger, initializing the rotating file
// handler on first use.
func GetLogger() *Logger {
	once.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		logFile := &lumberjack.Logger{
			Filename:   filepath.Join(home, ".sitesmith", "sitesmith.log"),
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		globalLogger = &Logger{
			logger: log.New(logFile, "", log.LstdFlags),
		}
	})
	if os.Getenv("SITESMITH_JSON_LOGS") == "1" {
		globalLogger.jsonMode = true
	}
	return globalLogger
}

// Close flushes and closes the underlying log file.
func (l *Logger) Close() error {
	if logFile, ok := l.logger.Writer().(*lumberjack.Logger); ok {
		return logFile.Close()
	}
	return nil
}

// Log writes a message to the log file.
func (l *Logger) Log(message string) {
	if l.jsonMode {
		_ = json.NewEncoder(l.logger.Writer()).Encode(map[string]any{"level": "info", "msg": message})
		return
	}
	l.logger.Print(message)
}

// Logf writes a formatted message to the log file.
func (l *Logger) Logf(format string, v ...interface{}) {
	if l.jsonMode {
		l.Log(fmt.Sprintf(format, v...))
		return
	}
	l.logger.Printf(format, v...)
}

// LogError records an error.
func (l *Logger) LogError(err error) {
	if l.jsonMode {
		_ = json.NewEncoder(l.logger.Writer()).Encode(map[string]any{"level": "error", "error": err.Error()})
		return
	}
	l.logger.Printf("Error: %s", err)
}
