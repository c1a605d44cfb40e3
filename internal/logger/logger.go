// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package logger wraps logrus behind the CLI's own small Level type, so
// cmd/ code never imports logrus directly. Only the cmd/ layer ever
// logs — the core backends (ext4, fat, mbr, jsonfs) are synchronous and
// side-channel-free, returning errors instead of logging them.
package logger

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level mirrors the teacher's own Level ordering, backed by logrus.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func ParseLevel(level string) Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DebugLevel
	case "WARN":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toLogrus() logrus.Level {
	switch l {
	case DebugLevel:
		return logrus.DebugLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Logger is a thin facade over *logrus.Logger, keeping the teacher's
// call sites (l.Infof("...")) unchanged while swapping the backend.
type Logger struct {
	l *logrus.Logger
}

// New creates a logger writing to w at the given minimum level.
func New(w io.Writer, level Level) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level.toLogrus())
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return &Logger{l: l}
}

func (lg *Logger) Debug(msg string) { lg.l.Debug(msg) }
func (lg *Logger) Info(msg string)  { lg.l.Info(msg) }
func (lg *Logger) Warn(msg string)  { lg.l.Warn(msg) }
func (lg *Logger) Error(msg string) { lg.l.Error(msg) }

func (lg *Logger) Debugf(format string, args ...any) { lg.l.Debugf(format, args...) }
func (lg *Logger) Infof(format string, args ...any)  { lg.l.Infof(format, args...) }
func (lg *Logger) Warnf(format string, args ...any)  { lg.l.Warnf(format, args...) }
func (lg *Logger) Errorf(format string, args ...any) { lg.l.Errorf(format, args...) }

// WithField attaches structured context to subsequent log lines, used by
// the du-parallel worker pool to tag each line with the path it handled.
func (lg *Logger) WithField(key string, value any) *logrus.Entry {
	return lg.l.WithField(key, value)
}
