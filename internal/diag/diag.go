// Package diag carries structured diagnostics produced by analysis
// components. Core packages never write to the console; they return
// diagnostics and let the caller decide how to surface them.
package diag

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Diagnostic struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
	Address string `json:"address,omitempty"`
}

func Info(address, message string) Diagnostic {
	return Diagnostic{Level: LevelInfo, Message: message, Address: address}
}

func Warning(address, message string) Diagnostic {
	return Diagnostic{Level: LevelWarning, Message: message, Address: address}
}

func Error(address, message string) Diagnostic {
	return Diagnostic{Level: LevelError, Message: message, Address: address}
}
