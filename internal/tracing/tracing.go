// Package tracing is a thin wrapper around OpenTelemetry so the engine and
// transport can open spans without depending on the SDK directly. Until Init
// is called the global no-op provider is used and spans cost nothing.
package tracing

import (
	"context"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ko2fey/test-task-mini-crm"

// Init configures OpenTelemetry with the stdout exporter. An empty output
// writes to os.Stderr so stdout stays clean for the stdio transport. Any other
// value besides "stdout" is a file path, owned by the provider until Shutdown.
// Init is a no-op while a provider is installed.
func Init(serviceName, serviceVersion, output string) error {
	mu.Lock()
	defer mu.Unlock()
	if provider != nil {
		return nil
	}

	w, closer, err := openOutput(output)
	if err != nil {
		return err
	}
	tp, err := newProvider(serviceName, serviceVersion, w)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return err
	}

	provider = tp
	outputFile = closer
	otel.SetTracerProvider(provider)
	return nil
}

var (
	mu         sync.Mutex
	provider   *sdktrace.TracerProvider
	outputFile io.Closer
)

func openOutput(output string) (io.Writer, io.Closer, error) {
	switch output {
	case "", "stderr":
		return os.Stderr, nil, nil
	case "stdout":
		return os.Stdout, nil, nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func newProvider(serviceName, serviceVersion string, w io.Writer) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	), nil
}

// Shutdown flushes and stops the installed provider, if any, and closes its
// output file.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()
	if provider == nil {
		return nil
	}
	err := provider.Shutdown(ctx)
	provider = nil
	if outputFile != nil {
		if cerr := outputFile.Close(); err == nil {
			err = cerr
		}
		outputFile = nil
	}
	return err
}

// Span wraps an OpenTelemetry span.
type Span struct {
	span trace.Span
}

// SetInt64 attaches an integer attribute; ids are the common case.
func (s *Span) SetInt64(key string, value int64) *Span {
	if s == nil {
		return s
	}
	s.span.SetAttributes(attribute.Int64(key, value))
	return s
}

// SetString attaches a string attribute.
func (s *Span) SetString(key, value string) *Span {
	if s == nil {
		return s
	}
	s.span.SetAttributes(attribute.String(key, value))
	return s
}

// StartSpan starts a new internal child span.
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	return ctx, &Span{span: span}
}

// EndSpan finalises the span and records status depending on the provided error.
func EndSpan(sp *Span, err error) {
	if sp == nil {
		return
	}
	if err != nil {
		sp.span.RecordError(err)
		sp.span.SetStatus(codes.Error, err.Error())
	} else {
		sp.span.SetStatus(codes.Ok, "")
	}
	sp.span.End()
}
