package logger

import (
	"log"
	"os"
	"strings"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	level int
}

// NewLogger reads the level from LOG_LEVEL (debug, info, warning, error,
// silence), defaulting to info.
func NewLogger() *defaultLogger {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return &defaultLogger{level: DEBUG}
	case "warning":
		return &defaultLogger{level: WARNING}
	case "error":
		return &defaultLogger{level: ERROR}
	case "silence":
		return &defaultLogger{level: SILENCE}
	default:
		return &defaultLogger{level: INFO}
	}
}

func NewLoggerWithLevel(level int) *defaultLogger {
	return &defaultLogger{level: level}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	if l.level <= DEBUG {
		log.Printf(msg+"\n", a...)
	}
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	if l.level <= INFO {
		log.Printf(msg+"\n", a...)
	}
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	if l.level <= WARNING {
		log.Printf(msg+"\n", a...)
	}
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	if l.level <= ERROR {
		log.Printf(msg+"\n", a...)
	}
}
