package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across locofilter.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldStore     = "store"
	FieldRunID     = "run_id"

	// Backup layout
	FieldVariant   = "variant"
	FieldBucket    = "bucket"
	FieldContainer = "container"
	FieldFile      = "file"
	FieldPath      = "path"
	FieldPlaceID   = "place_id"

	// Range
	FieldStart = "start"
	FieldEnd   = "end"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError    = "error"
	FieldCategory = "category"
	FieldReason   = "reason"

	// Counts
	FieldCount      = "count"
	FieldKept       = "kept"
	FieldTotalCount = "total_count"
	FieldWorkers    = "workers"
)

// Context keys for propagating logging context
type contextKey string

const (
	componentKey contextKey = "logger_component"
	bucketKey    contextKey = "logger_bucket"
)

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// WithBucket adds the bucket currently being processed to the context
func WithBucket(ctx context.Context, bucket string) context.Context {
	return context.WithValue(ctx, bucketKey, bucket)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}
	if bucket, ok := ctx.Value(bucketKey).(string); ok && bucket != "" {
		fields = append(fields, FieldBucket, bucket)
	}

	return fields
}

// LoggerFromContext returns a logger with fields extracted from context.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type ItemFilter struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewItemFilter() *ItemFilter {
//	    return &ItemFilter{
//	        logger: logger.ComponentLogger("filter.items"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
