package safe_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/competeai/competeai/pkg/utils/logging"
	"github.com/competeai/competeai/pkg/utils/safe"
	"github.com/m-mizutani/gt"
)

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("already closed") }

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("broken pipe") }

func captureLogs(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelDebug, logging.FormatJSON)
	return logging.With(t.Context(), logger), &buf
}

func TestClose(t *testing.T) {
	ctx, buf := captureLogs(t)

	safe.Close(ctx, nil, "nothing")
	gt.Value(t, buf.Len()).Equal(0)

	safe.Close(ctx, failingCloser{}, "repository")
	gt.String(t, buf.String()).Contains(`"target":"repository"`)
	gt.String(t, buf.String()).Contains("already closed")
}

func TestWrite(t *testing.T) {
	ctx, buf := captureLogs(t)

	var out bytes.Buffer
	safe.Write(ctx, &out, []byte("hello"))
	gt.Value(t, out.String()).Equal("hello")
	gt.Value(t, buf.Len()).Equal(0)

	safe.Write(ctx, failingWriter{}, []byte("hello"))
	gt.String(t, buf.String()).Contains("broken pipe")
}
