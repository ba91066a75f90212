// Package logger writes scan logs to a timestamped file and mirrors
// warnings and errors to the console. Debug lines go to the file only.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	fileLogger  *log.Logger
	logFile     *os.File
	initialized bool
	consoleMu   sync.Mutex
)

// Init creates the log directory and opens a new timestamped log file.
// Logging before Init falls back to console only.
func Init(logDir string) (string, error) {
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(logDir, fmt.Sprintf("scan_%s.log", timestamp))

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f

	fileLogger = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	initialized = true
	return logPath, nil
}

func Close() {
	if logFile != nil {
		logFile.Close()
	}
}

func emit(level, format string, v ...interface{}) {
	consoleMu.Lock()
	defer consoleMu.Unlock()

	if !initialized {
		fmt.Printf("["+level+"] "+format+"\n", v...)
		return
	}
	msg := fmt.Sprintf(format, v...)
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		msg += "\n"
	}
	fileLogger.Output(3, "["+level+"] "+msg)
	fmt.Print("[" + level + "] " + msg)
}

func Info(format string, v ...interface{}) {
	emit("INFO", format, v...)
}

func Warn(format string, v ...interface{}) {
	emit("WARN", format, v...)
}

func Error(format string, v ...interface{}) {
	emit("ERROR", format, v...)
}

// Debug writes to the log file only; silent before Init.
func Debug(format string, v ...interface{}) {
	if !initialized {
		return
	}
	msg := fmt.Sprintf(format, v...)
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		msg += "\n"
	}
	fileLogger.Output(2, "[DEBUG] "+msg)
}

// InfoFileOnly records progress detail too noisy for the console.
func InfoFileOnly(format string, v ...interface{}) {
	if !initialized {
		return
	}
	msg := fmt.Sprintf(format, v...)
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		msg += "\n"
	}
	fileLogger.Output(2, "[INFO] "+msg)
}

func Writer() io.Writer {
	return logFile
}
