// Copyright 2025 NetApp, Inc. All Rights Reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	TextFormat             = "text"
	JSONFormat             = "json"
	defaultTimestampFormat = time.RFC3339
	MaxLogEntryLength      = 64000
)

// InitLogging configures the global logger to write through a console hook with the given level and format.
func InitLogging(debug bool, logLevel, logFormat string) error {
	if err := InitLogLevel(debug, logLevel); err != nil {
		return err
	}

	hook, err := NewConsoleHook(logFormat)
	if err != nil {
		return err
	}

	// No output except for the hooks
	log.SetOutput(io.Discard)
	log.AddHook(hook)

	log.WithFields(log.Fields{
		"logLevel":  log.GetLevel().String(),
		"logFormat": logFormat,
	}).Debug("Initialized logging.")

	return nil
}

// InitLogLevel configures the logging level.  The debug flag takes precedence if set,
// otherwise the logLevel flag (trace, debug, info, warn, error, fatal) is used.
func InitLogLevel(debug bool, logLevel string) error {
	if debug {
		log.SetLevel(log.DebugLevel)
		return nil
	}
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}

// InitLogFormat configures the log format, allowing a choice of text or JSON.
func InitLogFormat(logFormat string) error {
	formatter, err := formatterFor(logFormat)
	if err != nil {
		return err
	}
	log.SetFormatter(formatter)
	return nil
}

func formatterFor(logFormat string) (log.Formatter, error) {
	switch logFormat {
	case TextFormat, "":
		return &log.TextFormatter{FullTimestamp: true}, nil
	case JSONFormat:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown log format: %s", logFormat)
	}
}

// ConsoleHook sends log entries to stdout, or stderr for errors.
type ConsoleHook struct {
	formatter log.Formatter
	stdout    io.Writer
	stderr    io.Writer
}

// NewConsoleHook creates a new log hook for writing to stdout/stderr.
func NewConsoleHook(logFormat string) (*ConsoleHook, error) {
	formatter, err := formatterFor(logFormat)
	if err != nil {
		return nil, err
	}
	return &ConsoleHook{formatter: formatter, stdout: os.Stdout, stderr: os.Stderr}, nil
}

func (hook *ConsoleHook) Levels() []log.Level {
	return log.AllLevels
}

func (hook *ConsoleHook) Fire(entry *log.Entry) error {
	var logWriter io.Writer
	switch entry.Level {
	case log.TraceLevel, log.DebugLevel, log.InfoLevel, log.WarnLevel:
		logWriter = hook.stdout
	case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
		logWriter = hook.stderr
	default:
		return fmt.Errorf("unknown log level: %v", entry.Level)
	}

	lineBytes, err := hook.formatter.Format(entry)
	if err != nil {
		fmt.Fprintf(hook.stderr, "Unable to read entry, %v", err)
		return err
	}
	if len(lineBytes) > MaxLogEntryLength {
		if _, err := logWriter.Write(lineBytes[:MaxLogEntryLength]); err != nil {
			return err
		}
		_, err = logWriter.Write([]byte("<truncated>\n"))
		return err
	}
	_, err = logWriter.Write(lineBytes)
	return err
}

type JSONFormatter struct {
	// TimestampFormat sets the format used for marshaling timestamps.
	TimestampFormat string
	// DisableTimestamp allows disabling automatic timestamps in output
	DisableTimestamp bool
}

func (f *JSONFormatter) Format(entry *log.Entry) ([]byte, error) {
	data := make(map[string]string, len(entry.Data)+3)
	for k, v := range entry.Data {
		switch v := v.(type) {
		case error:
			// Otherwise errors are ignored by `encoding/json`
			data[k] = v.Error()
		default:
			data[k] = fmt.Sprintf("%+v", v)
		}
	}

	timestampFormat := f.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = defaultTimestampFormat
	}
	if !f.DisableTimestamp {
		data["@timestamp"] = entry.Time.Format(timestampFormat)
	}
	data["message"] = entry.Message
	data["level"] = entry.Level.String()

	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}
	if err := json.NewEncoder(b).Encode(data); err != nil {
		return nil, fmt.Errorf("failed to marshal fields to JSON, %v", err)
	}
	return b.Bytes(), nil
}
