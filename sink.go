package glprint

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Sink receives a generated fingerprint.
type Sink interface {
	Emit(ctx context.Context, fingerprint string) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, fingerprint string) error

// Emit calls f(ctx, fingerprint).
func (f SinkFunc) Emit(ctx context.Context, fingerprint string) error {
	return f(ctx, fingerprint)
}

// LogSink emits the fingerprint as an info record. A nil Logger uses
// slog.Default.
type LogSink struct {
	Logger *slog.Logger
}

// Emit logs the fingerprint.
func (s LogSink) Emit(ctx context.Context, fingerprint string) error {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	l.InfoContext(ctx, "device fingerprint", "fingerprint", fingerprint)
	return nil
}

// WriterSink writes the fingerprint followed by a newline.
type WriterSink struct {
	W io.Writer
}

// Emit writes the fingerprint line.
func (s WriterSink) Emit(_ context.Context, fingerprint string) error {
	if _, err := fmt.Fprintln(s.W, fingerprint); err != nil {
		return fmt.Errorf("glprint: write fingerprint: %w", err)
	}
	return nil
}

// MultiSink emits to each sink in order and stops at the first error.
type MultiSink []Sink

// Emit forwards the fingerprint to every sink.
func (m MultiSink) Emit(ctx context.Context, fingerprint string) error {
	for _, s := range m {
		if err := s.Emit(ctx, fingerprint); err != nil {
			return err
		}
	}
	return nil
}

// Run generates a fingerprint with g and hands it to sink. Nothing is
// emitted when generation fails.
func Run(ctx context.Context, g *Generator, sink Sink) error {
	fp, err := g.Generate(ctx)
	if err != nil {
		return err
	}
	return sink.Emit(ctx, fp)
}
