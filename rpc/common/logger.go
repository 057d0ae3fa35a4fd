// Package common provides the shared message protocol, configuration and
// logging utilities for the RPC layer.
package common

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/lni/dragonboat/v4/logger"
)

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboat's logger.ILogger)
// --------------------------------------------------------------------------

// searchmetaLogger implements the ILogger interface with custom formatting
type searchmetaLogger struct {
	name   string
	level  logger.LogLevel
	logger *log.Logger
}

func (l *searchmetaLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *searchmetaLogger) Debugf(format string, args ...interface{}) {
	if l.level >= logger.DEBUG {
		l.log("DEBUG", format, args...)
	}
}

func (l *searchmetaLogger) Infof(format string, args ...interface{}) {
	if l.level >= logger.INFO {
		l.log("INFO", format, args...)
	}
}

func (l *searchmetaLogger) Warningf(format string, args ...interface{}) {
	if l.level >= logger.WARNING {
		l.log("WARN", format, args...)
	}
}

func (l *searchmetaLogger) Errorf(format string, args ...interface{}) {
	if l.level >= logger.ERROR {
		l.log("ERROR", format, args...)
	}
}

func (l *searchmetaLogger) Panicf(format string, args ...interface{}) {
	if l.level >= logger.CRITICAL {
		panic(fmt.Sprintf(format, args...))
	}
}

// log formats and writes a log message. this internal helper is used by the public methods
func (l *searchmetaLogger) log(levelStr string, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("%-5s | %-15s | %s", levelStr, l.name, message)
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// CreateLogger creates a named logger writing to stdout
func CreateLogger(pkgName string) logger.ILogger {
	stdLogger := log.New(os.Stdout, "", log.Ldate|log.Ltime)

	return &searchmetaLogger{
		name:   pkgName,
		level:  logger.INFO,
		logger: stdLogger,
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// parseLogLevel converts a string level to logger.LogLevel
func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG
	case "info":
		return logger.INFO
	case "warning", "warn":
		return logger.WARNING
	case "error":
		return logger.ERROR
	default:
		panic(fmt.Sprintf("invalid log level: %s. must be one of debug, info, warn, error", level))
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// InitLoggers installs the custom logger factory and configures the level of
// every named logger, including the ones used by dragonboat internally.
func InitLoggers(config ServerConfig) {
	logger.SetLoggerFactory(CreateLogger)

	// dragonboat loggers
	logger.GetLogger("raft").SetLevel(parseLogLevel(config.LogLevel))
	logger.GetLogger("raftdb").SetLevel(parseLogLevel(config.LogLevel))
	logger.GetLogger("rsm").SetLevel(parseLogLevel(config.LogLevel))
	logger.GetLogger("transport").SetLevel(parseLogLevel(config.LogLevel))
	logger.GetLogger("dragonboat").SetLevel(parseLogLevel(config.LogLevel))
	logger.GetLogger("grpc").SetLevel(parseLogLevel(config.LogLevel))
	logger.GetLogger("logdb").SetLevel(parseLogLevel(config.LogLevel))

	// searchmeta loggers
	logger.GetLogger("registry").SetLevel(parseLogLevel(config.LogLevel))
	logger.GetLogger("transport/rpc").SetLevel(parseLogLevel(config.LogLevel))
	logger.GetLogger("rpc").SetLevel(parseLogLevel(config.LogLevel))
}
