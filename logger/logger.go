/*
 * Copyright 2025 The SpanGroup Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package logger provides leveled logging for the grouping pipeline.
// Output backend and level are configurable; tests typically swap in
// the discard logger.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Level defines log levels.
type Level int

const (
	// DEBUG displays detailed per-stage information
	DEBUG Level = iota
	// INFO displays general information
	INFO
	// WARN displays warnings
	WARN
	// ERROR displays only errors
	ERROR
	// OFF disables logging
	OFF
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case OFF:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// Logger is the minimal leveled logging interface the pipeline uses.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	SetLevel(level Level)
}

// defaultLogger is the default implementation, writing timestamped
// lines to a single io.Writer.
type defaultLogger struct {
	level  Level
	logger *log.Logger
}

// NewLogger creates a logger writing to output at the given level.
//
// Example:
//
//	logger := NewLogger(INFO, os.Stdout)
//	logger.Info("merged %d spans", n)
func NewLogger(level Level, output io.Writer) Logger {
	return &defaultLogger{
		level:  level,
		logger: log.New(output, "", 0),
	}
}

func (l *defaultLogger) Debug(format string, args ...interface{}) {
	if l.level <= DEBUG {
		l.log(DEBUG, format, args...)
	}
}

func (l *defaultLogger) Info(format string, args ...interface{}) {
	if l.level <= INFO {
		l.log(INFO, format, args...)
	}
}

func (l *defaultLogger) Warn(format string, args ...interface{}) {
	if l.level <= WARN {
		l.log(WARN, format, args...)
	}
}

func (l *defaultLogger) Error(format string, args ...interface{}) {
	if l.level <= ERROR {
		l.log(ERROR, format, args...)
	}
}

func (l *defaultLogger) SetLevel(level Level) {
	l.level = level
}

func (l *defaultLogger) log(level Level, format string, args ...interface{}) {
	if l.level == OFF {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	message := fmt.Sprintf(format, args...)
	l.logger.Println(fmt.Sprintf("[%s] [%s] %s", timestamp, level.String(), message))
}

// discardLogger drops all output.
type discardLogger struct{}

// NewDiscardLogger creates a logger that discards everything.
func NewDiscardLogger() Logger {
	return &discardLogger{}
}

func (d *discardLogger) Debug(format string, args ...interface{}) {}
func (d *discardLogger) Info(format string, args ...interface{})  {}
func (d *discardLogger) Warn(format string, args ...interface{})  {}
func (d *discardLogger) Error(format string, args ...interface{}) {}
func (d *discardLogger) SetLevel(level Level)                     {}

// Global default logger
var defaultInstance Logger = NewLogger(INFO, os.Stdout)

// SetDefault sets the global default logger.
func SetDefault(logger Logger) {
	defaultInstance = logger
}

// GetDefault gets the global default logger.
func GetDefault() Logger {
	return defaultInstance
}

// Debug logs through the default logger.
func Debug(format string, args ...interface{}) {
	defaultInstance.Debug(format, args...)
}

// Info logs through the default logger.
func Info(format string, args ...interface{}) {
	defaultInstance.Info(format, args...)
}

// Warn logs through the default logger.
func Warn(format string, args ...interface{}) {
	defaultInstance.Warn(format, args...)
}

// Error logs through the default logger.
func Error(format string, args ...interface{}) {
	defaultInstance.Error(format, args...)
}
