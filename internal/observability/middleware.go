package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Error classification values for the error.type span attribute.
const (
	// ErrTypeValidation marks malformed input (bad query params, schema failures).
	ErrTypeValidation = "validation"

	// ErrTypeDependencyUnavailable marks an unreachable metrics document source.
	ErrTypeDependencyUnavailable = "dependency_unavailable"

	// ErrTypeInternal marks unexpected internal failures.
	ErrTypeInternal = "internal"

	// ErrTypePanic marks a recovered panic.
	ErrTypePanic = "panic"
)

// Error source values for the error.source span attribute.
const (
	// ErrSourceClient attributes the error to the caller.
	ErrSourceClient = "client"

	// ErrSourceDependency attributes the error to an upstream dependency.
	ErrSourceDependency = "dependency"

	// ErrSourceInternal attributes the error to this service.
	ErrSourceInternal = "internal"
)

const (
	attrErrorType   = "error.type"
	attrErrorSource = "error.source"

	// httpStatusServerError is the threshold for HTTP server errors.
	httpStatusServerError = 500
)

// RecordSpanError marks the span as failed and attaches classification
// attributes. errSource may be empty when the origin is unknown.
func RecordSpanError(span trace.Span, err error, errType, errSource string) {
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String(attrErrorType, errType))

	if errSource != "" {
		span.SetAttributes(attribute.String(attrErrorSource, errSource))
	}
}

// statusWriter wraps [http.ResponseWriter] to capture the status code.
type statusWriter struct {
	http.ResponseWriter

	statusCode int
	written    bool
}

// WriteHeader captures the status code before delegating to the wrapped writer.
func (sw *statusWriter) WriteHeader(code int) {
	if !sw.written {
		sw.statusCode = code
		sw.written = true
	}

	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(buf []byte) (int, error) {
	if !sw.written {
		sw.statusCode = http.StatusOK
		sw.written = true
	}

	n, err := sw.ResponseWriter.Write(buf)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}

	return n, nil
}

// HTTPMiddleware returns an [http.Handler] that creates a span per request,
// recovers panics with a 500 response, and writes an access log line.
// Span names use route-template format: "METHOD /path".
func HTTPMiddleware(tracer trace.Tracer, logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		start := time.Now()
		spanName := hr.Method + " " + hr.URL.Path

		// Extract W3C traceparent/tracestate/baggage from incoming headers.
		parentCtx := otel.GetTextMapPropagator().Extract(hr.Context(), propagation.HeaderCarrier(hr.Header))

		ctx, span := tracer.Start(parentCtx, spanName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(hr.Method),
				attribute.String("http.target", hr.URL.Path),
			),
		)
		defer span.End()

		sw := &statusWriter{ResponseWriter: rw}

		defer func() {
			rec := recover()
			if rec != nil {
				span.AddEvent("panic.stack", trace.WithAttributes(
					attribute.String("stack", string(debug.Stack())),
				))
				span.SetAttributes(attribute.String(attrErrorType, ErrTypePanic))
				span.SetStatus(codes.Error, fmt.Sprint(rec))

				if !sw.written {
					sw.WriteHeader(http.StatusInternalServerError)
				}

				logger.ErrorContext(ctx, "http.panic",
					"method", hr.Method,
					"path", hr.URL.Path,
					"panic", fmt.Sprint(rec),
				)
			}

			span.SetAttributes(semconv.HTTPResponseStatusCode(sw.statusCode))

			if sw.statusCode >= httpStatusServerError {
				span.SetStatus(codes.Error, http.StatusText(sw.statusCode))
			}

			logger.InfoContext(ctx, "http.request",
				"method", hr.Method,
				"path", hr.URL.Path,
				"status", sw.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		}()

		next.ServeHTTP(sw, hr.WithContext(ctx))
	})
}
