// Package accountlog writes account dispatches to a zap logger.
package accountlog

import (
	"context"

	"github.com/MarkoPoloResearchLab/bankaccount/pkg/account"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	messageApplied = "account action applied"
	messageIgnored = "account action ignored"
)

// ZapLogger implements account.OperationLogger.
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger wraps logger; a nil logger discards everything.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{logger: logger}
}

// LogOperation logs applied actions at info and ignored ones at debug.
func (zapLogger *ZapLogger) LogOperation(_ context.Context, entry account.OperationLog) {
	level := zapcore.DebugLevel
	message := messageIgnored
	if entry.Applied() {
		level = zapcore.InfoLevel
		message = messageApplied
	}
	checked := zapLogger.logger.Check(level, message)
	if checked == nil {
		return
	}
	checked.Write(
		zap.String("session_id", entry.SessionID),
		zap.String("action", entry.Action.Kind.String()),
		zap.Int64("amount", entry.Action.Amount.Int64()),
		zap.String("status", entry.Status),
		zap.Int64("balance", entry.After.Balance.Int64()),
		zap.Int64("loan", entry.After.Loan.Int64()),
		zap.Bool("is_active", entry.After.IsActive),
	)
}

// NewLogger builds a production zap logger at the named level.
func NewLogger(level string) (*zap.Logger, error) {
	parsedLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parsedLevel)
	return config.Build()
}
