// Package utils carries the shared logger setup for the fjmahjong
// servers: a rotating-file logrus instance wrapped for pitaya.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
	"github.com/topfreegames/pitaya/v3/pkg/logger/interfaces"
	logruswrapper "github.com/topfreegames/pitaya/v3/pkg/logger/logrus"
)

const (
	logPath     = "./logs"
	logMaxAge   = 7 * 24 * time.Hour
	logRotation = 24 * time.Hour
)

type Formatter struct{}

func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format(time.DateTime)
	level := strings.ToLower(entry.Level.String())

	file, line, funcName := entry.Caller.File, entry.Caller.Line, entry.Caller.Function
	fileName := file[strings.LastIndex(file, "/")+1:]
	funcName = funcName[strings.LastIndex(funcName, ".")+1:]

	logMessage := fmt.Sprintf("%s [%s] %s:%d %s %s\n", timestamp, level, fileName, line, funcName, entry.Message)

	return []byte(logMessage), nil
}

// Logger builds the daily-rotating file logger wrapped for pitaya.
func Logger(level logrus.Level) interfaces.Logger {
	l := logrus.New()
	if writer, err := getWriter(); err != nil {
		logrus.Fatalf("Failed to create log writer: %v", err)
	} else {
		l.SetOutput(writer)
	}
	l.SetReportCaller(true)
	l.Formatter = &Formatter{}
	l.SetLevel(level)
	return logruswrapper.NewWithFieldLogger(l)
}

func getWriter() (*SafeRotateLogs, error) {
	programName := filepath.Base(os.Args[0])
	logFile := filepath.Join(logPath, fmt.Sprintf("%s-%%Y%%m%%d.log", programName))
	if err := os.MkdirAll(logPath, os.ModePerm); err != nil {
		logrus.Fatalf("Failed to create log directory: %v", err)
	}

	writer, err := rotatelogs.New(
		logFile,
		rotatelogs.WithMaxAge(logMaxAge),
		rotatelogs.WithRotationTime(logRotation),
	)
	if err != nil {
		return nil, err
	}
	return &SafeRotateLogs{
		RotateLogs: writer,
		logPattern: logFile,
		maxAge:     logMaxAge,
		rotation:   logRotation,
	}, nil
}

// SafeRotateLogs recreates the underlying writer when the current log
// file has been removed out from under it.
type SafeRotateLogs struct {
	*rotatelogs.RotateLogs
	logPattern string
	maxAge     time.Duration
	rotation   time.Duration
}

func (s *SafeRotateLogs) Write(p []byte) (n int, err error) {
	currentLogFile := s.RotateLogs.CurrentFileName()

	if _, err := os.Stat(currentLogFile); os.IsNotExist(err) {
		writer, err := rotatelogs.New(
			s.logPattern,
			rotatelogs.WithMaxAge(s.maxAge),
			rotatelogs.WithRotationTime(s.rotation),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to recreate log writer: %v", err)
		}
		s.RotateLogs = writer
	}

	return s.RotateLogs.Write(p)
}
