package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/middleware"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/platform/metrics"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// BaseService provides common functionality for all services
type BaseService struct {
	now func() time.Time
}

// Now returns the current UTC time from the service clock.
func (s *BaseService) Now() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs an expected failure (validation, conflict, not found)
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Warn(msg, args...)
}

// LogFailure logs err at warn level for client errors and at error level otherwise.
func (s *BaseService) LogFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		s.LogError(ctx, err, msg, keyvals...)
		return
	}
	s.LogWarn(ctx, err, msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// Observe records the outcome of operation in the metrics registry and passes err through.
func (s *BaseService) Observe(operation string, err error) error {
	metrics.ObserveOperation(operation, err)
	return err
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// normalizeOptional turns a pointer to a blank string into nil.
func normalizeOptional(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}
