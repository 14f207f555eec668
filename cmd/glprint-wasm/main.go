//go:build js && wasm

// Command glprint-wasm computes the fingerprint inside a web page. It logs
// the digest to the browser console and writes it into the element with id
// "fingerprint" when the page has one.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/backend/webgl"
	"github.com/gogpu/glprint/internal/logging"
)

func main() {
	logger, err := logging.New(logging.Options{
		Level:  "info",
		Format: "text",
		Writer: os.Stdout,
	})
	if err != nil {
		os.Exit(1)
	}
	glprint.SetLogger(logger)

	sink := glprint.MultiSink{
		glprint.LogSink{Logger: logger},
		glprint.SinkFunc(func(ctx context.Context, fp string) error {
			err := webgl.ElementSink{}.Emit(ctx, fp)
			if errors.Is(err, webgl.ErrElementNotFound) {
				logger.Debug("no fingerprint element on page", "id", webgl.DefaultElementID)
				return nil
			}
			return err
		}),
	}

	g := glprint.New(webgl.NewHost(), glprint.WithDigester(webgl.SubtleDigester{}))
	if err := glprint.Run(context.Background(), g, sink); err != nil {
		logger.Error("fingerprint failed", "error", err)
		os.Exit(1)
	}
}
