package service

import (
	"context"
	"log/slog"

	"github.com/pkordes/meetpoint/internal/domain"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

// logFailure records err at error level unless it is an expected business-rule
// failure, which is returned to the caller without being logged.
func logFailure(ctx context.Context, logger *slog.Logger, service, operation string, err error, attrs ...any) {
	if err == nil || domain.IsBusiness(err) {
		return
	}
	pairs := append([]any{
		"service", service,
		"operation", operation,
		"kind", domain.ErrorKind(err),
		"error", err,
	}, attrs...)
	logger.ErrorContext(ctx, "operation failed", pairs...)
}
