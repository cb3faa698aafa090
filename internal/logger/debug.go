package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	debugEnabled bool
	debugMutex   sync.RWMutex
)

// SetDebugEnabled enables or disables debug logging
func SetDebugEnabled(enabled bool) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug logging is enabled
func IsDebugEnabled() bool {
	debugMutex.RLock()
	defer debugMutex.RUnlock()
	return debugEnabled
}

// LogPath returns the file debug messages are appended to.
// CQLSPEC_DEBUG_LOG_PATH overrides the default of ./cqlspec_debug.log.
func LogPath() string {
	if logPath := os.Getenv("CQLSPEC_DEBUG_LOG_PATH"); logPath != "" {
		return logPath
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, "cqlspec_debug.log")
}

// DebugToFile logs debug messages to a file
func DebugToFile(context string, message string) {
	if !IsDebugEnabled() {
		return
	}

	debugMutex.Lock()
	defer debugMutex.Unlock()

	logFile, err := os.OpenFile(LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304: Potential file inclusion via variable
	if err != nil {
		return
	}
	defer logFile.Close()

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	fmt.Fprintf(logFile, "[%s] Context: %s | %s\n", timestamp, context, message)
	_ = logFile.Sync()
}

// DebugfToFile logs formatted debug messages to a file
func DebugfToFile(context string, format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	message := fmt.Sprintf(format, args...)
	DebugToFile(context, message)
}
