// Package log provides logging utilities for the naverland-ho-tele service.
// It includes a Zap logger wrapper with Kratos adapter and automatic
// credential masking for bot tokens, bearer tokens, and session cookies.
package log

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"go.uber.org/zap"
)

// KratosAdapter bridges the Kratos logging interface onto the service's Zap
// core. The codebase logs through log.Helper with a leading "msg" pair
// (`Infow("msg", "...", ...)`); the adapter lifts that pair into the Zap
// message so entries read naturally, and emits the remaining pairs as fields
// with credential-shaped string values masked before they reach any sink.
type KratosAdapter struct {
	zapLogger *zap.Logger
}

// NewKratosAdapter creates a new Kratos adapter for Zap logger
func NewKratosAdapter(zapLogger *zap.Logger) log.Logger {
	return &KratosAdapter{
		zapLogger: zapLogger,
	}
}

// Log implements Kratos log.Logger interface
func (a *KratosAdapter) Log(level log.Level, keyvals ...interface{}) error {
	if len(keyvals) == 0 {
		return nil
	}

	msg := ""
	fields := make([]zap.Field, 0, len(keyvals)/2)

	for i := 0; i+1 < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		value := keyvals[i+1]

		// First "msg" pair becomes the entry message; Kratos's own
		// transport logs use the same key.
		if key == log.DefaultMessageKey && msg == "" {
			msg = fmt.Sprint(value)
			continue
		}

		if strValue, ok := value.(string); ok {
			fields = append(fields, zap.String(key, SanitizeField(key, strValue)))
		} else {
			fields = append(fields, zap.Any(key, value))
		}
	}

	switch level {
	case log.LevelDebug:
		a.zapLogger.Debug(msg, fields...)
	case log.LevelInfo:
		a.zapLogger.Info(msg, fields...)
	case log.LevelWarn:
		a.zapLogger.Warn(msg, fields...)
	case log.LevelError:
		a.zapLogger.Error(msg, fields...)
	case log.LevelFatal:
		a.zapLogger.Fatal(msg, fields...)
	default:
		a.zapLogger.Info(msg, fields...)
	}

	return nil
}
