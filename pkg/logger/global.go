// pkg/logger/global.go
package logger

import (
	"io"
	"os"
)

var globalLogger *Logger

func InitGlobal(logPath, logLevel string, debug bool) error {
	var err error
	globalLogger, err = NewLogger(logPath, logLevel, debug)
	return err
}

// InitGlobalWithOptions инициализирует глобальный логгер с настройками ротации
func InitGlobalWithOptions(opts Options) error {
	var err error
	globalLogger, err = NewLoggerWithOptions(opts)
	return err
}

// SetOutput перенаправляет глобальный логгер (тесты)
func SetOutput(w io.Writer, level string) {
	globalLogger = NewWriterLogger(w, level)
}

func GetLogger() *Logger {
	if globalLogger == nil {
		// Fallback к простому логгеру
		globalLogger = NewWriterLogger(os.Stdout, LevelInfo)
	}
	return globalLogger
}

// Глобальные методы для удобства
func Debug(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.Debug(format, v...)
	}
}

func Info(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.Info(format, v...)
	}
}

func Warn(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.Warn(format, v...)
	}
}

func Error(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.Error(format, v...)
	}
}

func Fatal(format string, v ...interface{}) {
	GetLogger().Fatal(format, v...)
}

func Trade(userID int64, action, symbol, status string) {
	if globalLogger != nil {
		globalLogger.Trade(userID, action, symbol, status)
	}
}

func Close() {
	if globalLogger != nil {
		globalLogger.Close()
	}
}
