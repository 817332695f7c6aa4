// pkg/logger/logger.go

package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Уровни логирования
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelFatal = "FATAL"
)

// Options параметры файлового вывода
type Options struct {
	Path       string
	Level      string
	Debug      bool
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type Logger struct {
	entry   *logrus.Logger
	logFile *lumberjack.Logger
}

func NewLogger(logPath string, logLevel string, debug bool) (*Logger, error) {
	return NewLoggerWithOptions(Options{
		Path:       logPath,
		Level:      logLevel,
		Debug:      debug,
		MaxSizeMB:  50,
		MaxBackups: 5,
		MaxAgeDays: 14,
	})
}

// NewLoggerWithOptions создает логгер с ротацией файла
func NewLoggerWithOptions(opts Options) (*Logger, error) {
	l := &Logger{entry: logrus.New()}

	var out io.Writer = os.Stdout
	if opts.Path != "" {
		l.logFile = &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		out = io.MultiWriter(os.Stdout, l.logFile)
	}

	l.entry.SetOutput(out)
	l.entry.SetLevel(parseLevel(opts.Level))
	l.entry.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		ForceColors:     opts.Debug,
		DisableColors:   !opts.Debug,
	})

	return l, nil
}

// NewWriterLogger пишет только в переданный writer (используется в тестах)
func NewWriterLogger(w io.Writer, logLevel string) *Logger {
	l := &Logger{entry: logrus.New()}
	l.entry.SetOutput(w)
	l.entry.SetLevel(parseLevel(logLevel))
	l.entry.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
	return l
}

func parseLevel(level string) logrus.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn, "WARNING":
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	case LevelFatal:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// Методы для разных уровней
func (l *Logger) Debug(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.entry.Warnf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

func (l *Logger) Fatal(format string, v ...interface{}) {
	l.entry.Fatalf(format, v...)
}

// WithField возвращает запись с контекстным полем
func (l *Logger) WithField(key string, value interface{}) *logrus.Entry {
	return l.entry.WithField(key, value)
}

// Trade фиксирует итог торговой операции
func (l *Logger) Trade(userID int64, action, symbol, status string) {
	icon := "✅"
	if status != "ok" {
		icon = "⚠️"
	}
	l.entry.WithFields(logrus.Fields{
		"user":   userID,
		"action": action,
		"symbol": symbol,
	}).Infof("%s СДЕЛКА: %s %s (%s)", icon, action, symbol, status)
}

func (l *Logger) Close() {
	if l.logFile != nil {
		l.logFile.Close()
	}
}
